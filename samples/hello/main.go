package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapevm/api"
	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/disasm"
)

//go:embed hello.b
var helloKernel string

func hello(driver api.Driver) {
	prog, err := core.CompileSource([]byte(helloKernel))
	if err != nil {
		panic(err)
	}

	fmt.Print(disasm.String(prog, disasm.ModeDebug))

	driver.MapProgram(prog)
	driver.Collect(os.Stdout)

	if err := driver.Run(); err != nil {
		panic(err)
	}

	slog.Info("Hello finished",
		"Steps", driver.Steps(),
		"Ticks", driver.Ticks(),
		"Time", float64(driver.Time()),
	)
}

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	engine := sim.NewSerialEngine()

	cfg := config.Default()
	cfg.InstsPerTick = 4

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithConfig(cfg).
		Build("Driver")

	hello(driver)

	atexit.Exit(0)
}
