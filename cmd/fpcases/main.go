// Command fpcases lists, generates and inspects floating-point conformance
// case tables.
//
// Usage:
//
//	fpcases [flags] list [cache]
//	fpcases [flags] gen <cache> <variant>
//	fpcases [flags] dump <cache> <variant>
//	fpcases [flags] wgsl <cache> <variant>
//	fpcases [flags] eval <op> <kind> <operand>...
//	fpcases [flags] prefetch [cache...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fpcase"
	"github.com/gogpu/fpcase/harness"
	"github.com/gogpu/fpcase/suites"
)

var errUsage = errors.New("usage: fpcases [flags] list|gen|dump|wgsl|eval|prefetch ...")

type options struct {
	verbose bool
	workers int
	source  string
	compile bool
	output  string
	timeout time.Duration
}

func main() {
	var o options
	flag.BoolVar(&o.verbose, "v", false, "enable debug logging")
	flag.IntVar(&o.workers, "workers", 0, "prefetch workers (0 = GOMAXPROCS)")
	flag.StringVar(&o.source, "source", "", "wgsl input source: const, storage_r or storage_rw (default from variant)")
	flag.BoolVar(&o.compile, "compile", false, "wgsl: also compile to SPIR-V and report its size")
	flag.StringVar(&o.output, "o", "", "write dump/wgsl output to file instead of stdout")
	flag.DurationVar(&o.timeout, "timeout", 0, "give up waiting after this long (0 = no limit)")
	flag.Parse()

	if err := run(context.Background(), o, flag.Args(), os.Stdout); err != nil {
		log.Fatalf("fpcases: %v", err)
	}
}

func run(ctx context.Context, o options, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	if o.verbose {
		fpcase.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	c := fpcase.NewCache(fpcase.WithWorkers(o.workers))
	if err := suites.Register(c); err != nil {
		return err
	}
	p := message.NewPrinter(language.English)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return list(c, rest, stdout)
	case "gen":
		return gen(ctx, c, rest, stdout, p)
	case "dump":
		return dump(ctx, c, rest, o, stdout)
	case "wgsl":
		return wgsl(ctx, c, rest, o, stdout, p)
	case "eval":
		return eval(rest, stdout)
	case "prefetch":
		return prefetch(ctx, c, rest, stdout, p)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

func list(c *fpcase.Cache, args []string, w io.Writer) error {
	names := args
	if len(names) == 0 {
		names = c.Names()
	}
	for _, name := range names {
		variants, err := c.Variants(name)
		if err != nil {
			return err
		}
		for _, v := range variants {
			fmt.Fprintf(w, "%s:%s\n", name, v)
		}
	}
	return nil
}

func cacheVariant(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", errUsage
	}
	return args[0], args[1], nil
}

func gen(ctx context.Context, c *fpcase.Cache, args []string, w io.Writer, p *message.Printer) error {
	name, variant, err := cacheVariant(args)
	if err != nil {
		return err
	}
	start := time.Now()
	table, err := c.Get(ctx, name, variant)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var finite, points int
	for _, tc := range table {
		if tc.Expected.IsFinite() {
			finite++
		}
		if iv, ok := tc.Expected.(fpcase.Interval); ok && iv.Form() == fpcase.FormPoints {
			points++
		}
	}
	digest, err := table.Digest()
	if err != nil {
		return err
	}
	p.Fprintf(w, "%s:%s\n", name, variant)
	p.Fprintf(w, "  cases:      %d\n", len(table))
	p.Fprintf(w, "  bounded:    %d\n", finite)
	p.Fprintf(w, "  point sets: %d\n", points)
	p.Fprintf(w, "  sha256:     %s\n", digest)
	p.Fprintf(w, "  elapsed:    %v\n", elapsed.Round(time.Microsecond))
	return nil
}

// withOutput runs fn against the -o file, or stdout when unset.
func withOutput(o options, stdout io.Writer, fn func(io.Writer) error) error {
	if o.output == "" {
		return fn(stdout)
	}
	f, err := os.Create(o.output)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func dump(ctx context.Context, c *fpcase.Cache, args []string, o options, stdout io.Writer) error {
	name, variant, err := cacheVariant(args)
	if err != nil {
		return err
	}
	table, err := c.Get(ctx, name, variant)
	if err != nil {
		return err
	}
	b, err := table.CanonicalJSON()
	if err != nil {
		return err
	}
	return withOutput(o, stdout, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n", b)
		return err
	})
}

func wgsl(ctx context.Context, c *fpcase.Cache, args []string, o options, stdout io.Writer, p *message.Printer) error {
	name, variant, err := cacheVariant(args)
	if err != nil {
		return err
	}
	suite, ok := suites.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: cache %q", fpcase.ErrUnknownVariant, name)
	}
	v, ok := suite.Variants[variant]
	if !ok {
		return fmt.Errorf("%w: %q in cache %q", fpcase.ErrUnknownVariant, variant, name)
	}

	src := harness.SourceStorageRead
	if v.Const {
		src = harness.SourceConst
	}
	if o.source != "" {
		if src, err = harness.ParseInputSource(o.source); err != nil {
			return err
		}
	}

	table, err := c.Get(ctx, name, variant)
	if err != nil {
		return err
	}
	prog, err := harness.Build(suite.Op, v.Kind, src, table)
	if err != nil {
		return err
	}
	if err := withOutput(o, stdout, func(w io.Writer) error {
		_, err := io.WriteString(w, prog.WGSL)
		return err
	}); err != nil {
		return err
	}

	if o.compile {
		spirv, err := prog.Compile()
		if err != nil {
			return err
		}
		p.Fprintf(os.Stderr, "compiled %d cases to %d SPIR-V words\n", prog.Cases, len(spirv))
	}
	return nil
}

func eval(args []string, w io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}
	op, err := fpcase.ParseOp(args[0])
	if err != nil {
		return err
	}
	kind, err := fpcase.ParseKind(args[1])
	if err != nil {
		return err
	}
	operands := make([]float64, len(args)-2)
	for i, s := range args[2:] {
		if operands[i], err = strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("operand %d: %w", i, err)
		}
	}
	t := fpcase.For(kind)
	for i, x := range operands {
		operands[i] = t.Quantize(x)
	}
	iv, err := t.StrictInterval(op, operands...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, iv)
	return err
}

func prefetch(ctx context.Context, c *fpcase.Cache, names []string, w io.Writer, p *message.Printer) error {
	start := time.Now()
	if err := c.Prefetch(ctx, names...); err != nil {
		return err
	}
	s := c.Stats()
	p.Fprintf(w, "generated %d tables in %v\n", s.Computations, time.Since(start).Round(time.Millisecond))

	var total int
	for _, name := range c.Names() {
		variants, _ := c.Variants(name)
		for _, v := range variants {
			if len(names) > 0 && !slices.Contains(names, name) {
				continue
			}
			table, err := c.Get(ctx, name, v)
			if err != nil {
				return err
			}
			total += len(table)
		}
	}
	p.Fprintf(w, "%d cases\n", total)
	return nil
}
