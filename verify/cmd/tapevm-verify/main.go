package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/verify"
)

func main() {
	configPath := flag.String("c", "", "YAML configuration file")
	inputPath := flag.String("i", "", "file fed to the program as input")
	reportPath := flag.String("o", "", "also save the report to this file")
	maxSteps := flag.Int("n", 10_000_000, "reference step limit")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [-c config.yaml] [-i input] [-o report] [-n steps] file", os.Args[0])
	}
	programPath := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	src, err := os.ReadFile(programPath)
	if err != nil {
		log.Fatalf("Failed to load program from %s: %v", programPath, err)
	}

	var input []byte
	if *inputPath != "" {
		input, err = os.ReadFile(*inputPath)
		if err != nil {
			log.Fatalf("Failed to load input from %s: %v", *inputPath, err)
		}
	}

	report, err := verify.GenerateReport(programPath, src, input, cfg.MachineConfig(), *maxSteps)
	if err != nil {
		log.Fatalf("Verification aborted: %v", err)
	}

	report.WriteReport(os.Stdout)

	if *reportPath != "" {
		if err := report.SaveReportToFile(*reportPath); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("Report saved to %s\n", *reportPath)
	}

	if !report.Passed() {
		log.Fatalf("%s failed verification with %d lint issues", programPath, len(report.LintIssues))
	}
}
