// Command tapevm compiles and runs programs for the eight-symbol tape
// machine.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapevm/api"
	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/disasm"
	"github.com/sarchlab/tapevm/program"
)

var errUsage = errors.New("expected exactly one source file")

type options struct {
	cfg     config.Config
	path    string
	listing bool
	timed   bool
	verbose bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	// Parse errors reach the user once, through the caller's err line.
	fs := flag.NewFlagSet("tapevm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	eof := fs.Int("e", 0, "store `value` into the cell at end of input (default: leave the cell unchanged)")
	tape := fs.Int("t", core.DefaultTapeSize, "tape `size` in cells")
	printOnly := fs.Bool("p", false, "print the optimized program instead of running it")
	debug := fs.Bool("d", false, "with -p, print the debug form")
	cfgPath := fs.String("c", "", "load settings from a YAML `file`")
	unchecked := fs.Bool("unchecked", false, "do not check the tape bounds")
	fs.BoolVar(&opts.listing, "l", false, "with -p, print a record listing")
	fs.BoolVar(&opts.timed, "sim", false, "run on the timed machine")
	fs.BoolVar(&opts.verbose, "v", false, "log compile and run milestones and dump the tape")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "usage: tapevm [flags] file")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
		}

		return opts, err
	}

	if fs.NArg() != 1 {
		return opts, errUsage
	}
	opts.path = fs.Arg(0)

	opts.cfg = config.Default()
	if *cfgPath != "" {
		var err error
		if opts.cfg, err = config.LoadFile(*cfgPath); err != nil {
			return opts, err
		}
	}

	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "e":
			v := *eof
			opts.cfg.EOFValue = &v
		case "t":
			opts.cfg.TapeSize = *tape
		case "p":
			opts.cfg.PrintOnly = *printOnly
		case "d":
			opts.cfg.Debug = *debug
		case "unchecked":
			opts.cfg.BoundsCheck = !*unchecked
		case "v":
			if opts.verbose {
				opts.cfg.LogLevel = "trace"
			}
		}
	})

	return opts, opts.cfg.Validate()
}

func setupLogging(cfg config.Config, stderr io.Writer) {
	level, _ := cfg.Level()

	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	setupLogging(opts.cfg, stderr)

	s, err := program.LoadFile(opts.path)
	if err != nil {
		return err
	}

	prog := core.Compile(s)

	if opts.cfg.PrintOnly {
		return printProgram(opts, prog, stdout)
	}

	if opts.timed {
		return runTimed(opts, prog, stdin, stdout)
	}

	return runDirect(opts, prog, stdin, stdout, stderr)
}

func printProgram(opts options, prog *core.Program, stdout io.Writer) error {
	if opts.listing {
		disasm.Table(stdout, prog)
		return nil
	}

	mode := disasm.ModeSource
	if opts.cfg.Debug {
		mode = disasm.ModeDebug
	}

	return disasm.Print(stdout, prog, mode)
}

func runDirect(
	opts options,
	prog *core.Program,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	out, ok := stdout.(*bufio.Writer)
	if !ok {
		out = bufio.NewWriter(stdout)
	}

	m := core.NewMachine(opts.cfg.MachineConfig(), bufio.NewReader(stdin), out)
	runErr := m.Run(prog)

	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("write output: %w", err)
	}

	if opts.verbose {
		core.LogState(m)
		core.PrintState(stderr, m)
	}

	return runErr
}

func runTimed(
	opts options,
	prog *core.Program,
	stdin io.Reader,
	stdout io.Writer,
) error {
	driver := api.DriverBuilder{}.
		WithEngine(sim.NewSerialEngine()).
		WithFreq(1 * sim.GHz).
		WithConfig(opts.cfg).
		Build("Driver")

	driver.MapProgram(prog)
	driver.FeedIn(stdin)
	driver.Collect(stdout)

	err := driver.Run()

	core.Trace("Simulation",
		"Time", float64(driver.Time()),
		"Ticks", driver.Ticks(),
		"Steps", driver.Steps(),
	)

	return err
}

func main() {
	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		stdout.Flush()
	})

	err := run(os.Args[1:], os.Stdin, stdout, os.Stderr)

	switch {
	case err == nil:
		atexit.Exit(0)
	case errors.Is(err, flag.ErrHelp):
		atexit.Exit(0)
	default:
		stdout.Flush()
		fmt.Fprintf(os.Stderr, "err: %v\n", err)
		atexit.Exit(1)
	}
}
