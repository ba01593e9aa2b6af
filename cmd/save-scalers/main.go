// Command save-scalers fits the min-max scalers used by /predict from a
// training dataset CSV and writes them as JSON.
package main

import (
	"flag"
	"os"

	"github.com/i474232898/energy-forecast/internal/logger"
	"github.com/i474232898/energy-forecast/internal/model"
)

var (
	datasetPath = flag.String("dataset", "Dataset.csv", "Path to the training dataset CSV")
	outputPath  = flag.String("out", "scalers.json", "Where to write the fitted scalers")
)

func main() {
	flag.Parse()
	logger.Init("info", "text")

	f, err := os.Open(*datasetPath)
	if err != nil {
		logger.Fatal("open dataset: %v", err)
	}
	defer f.Close()

	logger.Info("fitting scalers from %s", *datasetPath)
	scalers, err := model.FitScalersCSV(f)
	if err != nil {
		logger.Fatal("fit scalers: %v", err)
	}

	if err := scalers.Save(*outputPath); err != nil {
		logger.Fatal("save scalers: %v", err)
	}
	logger.Info("scalers saved to %s", *outputPath)
}
