package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"wine-model-service/internal/adapters/secondary/dataset"
	"wine-model-service/internal/adapters/secondary/estimator"
	"wine-model-service/internal/adapters/secondary/filestore"
	"wine-model-service/internal/config"
	ports "wine-model-service/internal/core/ports/output"
	"wine-model-service/internal/core/services"
	"wine-model-service/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dataPath := flag.String("data", "", "CSV dataset with a header row; empty trains on the bundled wine table")
	target := flag.String("target", "target", "name of the class column")
	name := flag.String("dataset", "wine", "dataset name recorded in metadata")
	kind := flag.String("model", "random_forest", "random_forest or decision_tree")
	trees := flag.Int("trees", 200, "number of trees (random_forest)")
	maxDepth := flag.Int("max-depth", 0, "maximum tree depth, 0 for the estimator default")
	testSize := flag.Float64("test-size", 0.2, "share of rows held out for evaluation")
	seed := flag.Int64("seed", 42, "seed for the train/test split")
	outDir := flag.String("out", cfg.Artifact.Dir, "artifact directory")
	flag.Parse()

	cfg.Logger.Format = "text"
	logCloser := logging.Init(cfg.Logger)
	defer logCloser.Close()

	cfg.Artifact.Dir = *outDir
	store := filestore.NewStore(&cfg.Artifact)
	var source ports.DatasetSource = dataset.Wine()
	if *dataPath != "" {
		source = dataset.NewCSV(*dataPath, *target, *name)
	}
	trainer := services.NewTrainingService(source, store, estimator.New)

	report, err := trainer.Train(context.Background(), services.TrainOptions{
		Estimator: ports.EstimatorOptions{
			Kind:     *kind,
			Trees:    *trees,
			MaxDepth: *maxDepth,
		},
		TestSize: *testSize,
		Seed:     *seed,
	})
	if err != nil {
		log.Errorf("training failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("Training complete")
	fmt.Printf("Model saved to: %s\n", store.ModelPath())
	fmt.Printf("Metadata saved to: %s\n", store.MetadataPath())
	fmt.Printf("Test accuracy: %.4f\n", report.Accuracy)
}
