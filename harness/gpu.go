package harness

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fpcase"
)

// Bindings in group 0. Must match the @binding annotations in generateWGSL.
const (
	bindingOutputs = 0
	bindingInputs  = 1
)

// Layout returns the bind-group layout entries of the program: the output
// array at binding 0 and, for storage sources, the input array at binding 1.
func (p *Program) Layout() []gputypes.BindGroupLayoutEntry {
	entries := []gputypes.BindGroupLayoutEntry{{
		Binding:    bindingOutputs,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
	}}
	if p.Input == nil {
		return entries
	}
	inputType := gputypes.BufferBindingTypeReadOnlyStorage
	if p.Source == SourceStorageReadWrite {
		inputType = gputypes.BufferBindingTypeStorage
	}
	return append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    bindingInputs,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: inputType},
	})
}

// Compile translates the WGSL source to SPIR-V words.
func (p *Program) Compile() ([]uint32, error) {
	spirvBytes, err := naga.Compile(p.WGSL)
	if err != nil {
		return nil, fmt.Errorf("harness: compile %s: %w", p.label(), err)
	}

	// SPIR-V is little-endian 32-bit words
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}

func (p *Program) label() string {
	return fmt.Sprintf("fpcase_%s_%s_%s", p.Op, p.Kind, p.Source)
}

// ShaderModuleDescriptor compiles the program and wraps the SPIR-V in a
// shader-module descriptor.
func (p *Program) ShaderModuleDescriptor() (*hal.ShaderModuleDescriptor, error) {
	spirv, err := p.Compile()
	if err != nil {
		return nil, err
	}
	return &hal.ShaderModuleDescriptor{
		Label:  p.label(),
		Source: hal.ShaderSource{SPIRV: spirv},
	}, nil
}

// OutputBufferDescriptor describes the storage buffer the shader writes.
func (p *Program) OutputBufferDescriptor() *hal.BufferDescriptor {
	return &hal.BufferDescriptor{
		Label: p.label() + "_outputs",
		Size:  uint64(p.OutputSize()),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	}
}

// ReadbackBufferDescriptor describes the mappable buffer the output is
// copied into before Decode.
func (p *Program) ReadbackBufferDescriptor() *hal.BufferDescriptor {
	return &hal.BufferDescriptor{
		Label: p.label() + "_readback",
		Size:  uint64(p.OutputSize()),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	}
}

// InputBufferDescriptor describes the input storage buffer, or returns nil
// for SourceConst.
func (p *Program) InputBufferDescriptor() *hal.BufferDescriptor {
	if p.Input == nil {
		return nil
	}
	return &hal.BufferDescriptor{
		Label: p.label() + "_inputs",
		Size:  uint64(len(p.inputs)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	}
}

// Pipeline holds the device objects that run one Program.
type Pipeline struct {
	Program *Program

	device         hal.Device
	ShaderModule   hal.ShaderModule
	BindLayout     hal.BindGroupLayout
	PipelineLayout hal.PipelineLayout
	Compute        hal.ComputePipeline
	Outputs        hal.Buffer
	Readback       hal.Buffer
	Inputs         hal.Buffer
	BindGroup      hal.BindGroup
}

// NewPipeline creates the shader module, layouts, compute pipeline,
// buffers and bind group for p on device. The caller uploads
// p.Inputs() into Inputs, dispatches one workgroup, copies Outputs into
// Readback and decodes the mapped contents. On error every object created
// so far is destroyed.
func NewPipeline(device hal.Device, p *Program) (*Pipeline, error) {
	pl := &Pipeline{Program: p, device: device}
	if err := pl.init(); err != nil {
		pl.Destroy()
		return nil, err
	}
	fpcase.Logger().Debug("harness: pipeline created",
		"label", p.label(), "bindings", len(p.Layout()), "output_bytes", p.OutputSize())
	return pl, nil
}

func (pl *Pipeline) init() error {
	p, d := pl.Program, pl.device
	name := p.label()

	desc, err := p.ShaderModuleDescriptor()
	if err != nil {
		return err
	}
	if pl.ShaderModule, err = d.CreateShaderModule(desc); err != nil {
		return fmt.Errorf("harness: create shader module %s: %w", name, err)
	}

	if pl.BindLayout, err = d.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   name + "_bgl",
		Entries: p.Layout(),
	}); err != nil {
		return fmt.Errorf("harness: create bind group layout %s: %w", name, err)
	}

	if pl.PipelineLayout, err = d.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            name + "_pl",
		BindGroupLayouts: []hal.BindGroupLayout{pl.BindLayout},
	}); err != nil {
		return fmt.Errorf("harness: create pipeline layout %s: %w", name, err)
	}

	if pl.Compute, err = d.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   name,
		Layout:  pl.PipelineLayout,
		Compute: hal.ComputeState{Module: pl.ShaderModule, EntryPoint: "main"},
	}); err != nil {
		return fmt.Errorf("harness: create compute pipeline %s: %w", name, err)
	}

	if pl.Outputs, err = d.CreateBuffer(p.OutputBufferDescriptor()); err != nil {
		return fmt.Errorf("harness: create output buffer %s: %w", name, err)
	}
	if pl.Readback, err = d.CreateBuffer(p.ReadbackBufferDescriptor()); err != nil {
		return fmt.Errorf("harness: create readback buffer %s: %w", name, err)
	}

	entries := []gputypes.BindGroupEntry{{
		Binding: bindingOutputs,
		Resource: gputypes.BufferBinding{
			Buffer: pl.Outputs.NativeHandle(), Offset: 0, Size: uint64(p.OutputSize()),
		},
	}}
	if in := p.InputBufferDescriptor(); in != nil {
		if pl.Inputs, err = d.CreateBuffer(in); err != nil {
			return fmt.Errorf("harness: create input buffer %s: %w", name, err)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: bindingInputs,
			Resource: gputypes.BufferBinding{
				Buffer: pl.Inputs.NativeHandle(), Offset: 0, Size: in.Size,
			},
		})
	}

	if pl.BindGroup, err = d.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   name + "_bind",
		Layout:  pl.BindLayout,
		Entries: entries,
	}); err != nil {
		return fmt.Errorf("harness: create bind group %s: %w", name, err)
	}
	return nil
}

// Destroy releases every device object in reverse creation order.
// It is safe to call on a partially initialized pipeline.
func (pl *Pipeline) Destroy() {
	d := pl.device
	if d == nil {
		return
	}
	if pl.BindGroup != nil {
		d.DestroyBindGroup(pl.BindGroup)
		pl.BindGroup = nil
	}
	for _, b := range []*hal.Buffer{&pl.Inputs, &pl.Readback, &pl.Outputs} {
		if *b != nil {
			d.DestroyBuffer(*b)
			*b = nil
		}
	}
	if pl.Compute != nil {
		d.DestroyComputePipeline(pl.Compute)
		pl.Compute = nil
	}
	if pl.PipelineLayout != nil {
		d.DestroyPipelineLayout(pl.PipelineLayout)
		pl.PipelineLayout = nil
	}
	if pl.BindLayout != nil {
		d.DestroyBindGroupLayout(pl.BindLayout)
		pl.BindLayout = nil
	}
	if pl.ShaderModule != nil {
		d.DestroyShaderModule(pl.ShaderModule)
		pl.ShaderModule = nil
	}
}
