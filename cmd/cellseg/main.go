package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erencankur/cell-segmentation-analysis/pkg/analysis"
	"github.com/erencankur/cell-segmentation-analysis/pkg/config"
	"github.com/erencankur/cell-segmentation-analysis/pkg/segmentation"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing stained tissue images")
	resultsDir := flag.String("results", "", "Directory for CSV output and overlays (default: from config)")
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	method := flag.String("method", "", "Segmentation method: global, adaptive or watershed (default: from config)")
	workers := flag.Int("workers", 0, "Worker pool size (default: from config)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration and apply command line overrides
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *method != "" {
		cfg.Segmentation.Method = *method
	}
	if *workers > 0 {
		cfg.Processing.NumWorkers = *workers
	}
	if *resultsDir != "" {
		cfg.Output.ResultsDir = *resultsDir
	}
	if !cfg.Output.Verbose {
		log.SetLevel(logrus.WarnLevel)
	}

	strategy, err := cfg.Strategy()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	pipeline, err := segmentation.NewPipelineWithStrategy(cfg.EngineConfig(), strategy)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	runner := analysis.NewRunner(&analysis.Params{
		InputDir:     *inputDir,
		ResultsDir:   cfg.Output.ResultsDir,
		NumWorkers:   cfg.Processing.NumWorkers,
		SaveOverlays: cfg.Output.SaveOverlays,
	}, pipeline, log)

	startTime := time.Now()
	results, err := runner.Run()
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	// Print the aggregate report
	totalNuclei := 0
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		totalNuclei += res.Result.Summary.Count
	}

	fmt.Printf("\nProcessed %d images in %.2f seconds (%d failed)\n",
		len(results), time.Since(startTime).Seconds(), failed)
	fmt.Printf("Detected %d nuclei in total\n", totalNuclei)
	fmt.Printf("Results written to: %s\n", cfg.Output.ResultsDir)
}
