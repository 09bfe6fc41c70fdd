package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sentimind/sentimind/internal/classifier"
	"github.com/sentimind/sentimind/internal/emotion"
	"github.com/sentimind/sentimind/internal/evaluation"
	"github.com/sentimind/sentimind/internal/feed"
	"github.com/sentimind/sentimind/pkg/config"
	"github.com/sentimind/sentimind/pkg/logging"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to a JSON dataset file (defaults to the builtin set)")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall evaluation timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()

	dataset := evaluation.BuiltinDataset
	if *datasetPath != "" {
		dataset, err = evaluation.LoadDataset(*datasetPath)
		if err != nil {
			logger.Fatal("Failed to load dataset", zap.Error(err))
		}
	}

	// The evaluation exercises the same analysis pipeline the server runs,
	// minus persistence: gateway plus selector.
	gateway := classifier.New(&cfg.Classifier)
	selector := emotion.Selector{
		Ratio:       cfg.Selector.RelativeThreshold,
		MaxEmotions: cfg.Selector.MaxEmotions,
	}
	service := feed.NewService(gateway, selector, nil, nil, &cfg.Classifier)

	logger.Info("Starting evaluation",
		zap.Int("samples", len(dataset)),
		zap.Int("backends", len(cfg.Classifier.Backends)))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := evaluation.Evaluate(ctx, service, dataset)
	if err != nil {
		logger.Fatal("Evaluation failed", zap.Error(err))
	}

	fmt.Println(report.String())

	logger.Info("Evaluation complete",
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("macro_f1", report.MacroF1),
		zap.Int("failed", report.Failed),
		zap.String("backend", gateway.ActiveBackend()))
}
