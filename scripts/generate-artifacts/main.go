package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"exoplanet-detector/internal/demo"
	"exoplanet-detector/internal/features"
	"exoplanet-detector/internal/ml"
)

// Hand-set weights on standardized features. They make the sample model lean
// on the transit signature so a local service gives plausible answers; this
// is not a trained model.
var sampleWeights = map[string]float64{
	"min_flux":  -1.2,
	"deep_dips": 1.8,
	"skewness":  -0.8,
	"p25":       -0.3,
}

func main() {
	var (
		outDir  = flag.String("out", "artifacts", "Output directory for model.json and scaler.json")
		samples = flag.Int("samples", 400, "Synthetic light curves used to fit the scaler")
		seed    = flag.Int64("seed", 42, "Random seed")
	)
	flag.Parse()

	if *samples < 2 {
		log.Fatalf("need at least 2 samples, got %d", *samples)
	}

	fmt.Printf("Generating sample artifacts...\n")
	fmt.Printf("  Samples: %d\n", *samples)
	fmt.Printf("  Seed: %d\n", *seed)
	fmt.Printf("  Output: %s\n", *outDir)

	rng := rand.New(rand.NewSource(*seed))
	rows, labels := syntheticRows(*samples, rng)

	mean, scale := columnStats(rows)
	meta := ml.ArtifactMeta{
		Version:      "sample-" + time.Now().UTC().Format("20060102"),
		TrainedAt:    time.Now().UTC(),
		FeatureNames: features.Names[:],
	}

	scalerJSON, err := ml.EncodeStandardScaler(meta, mean, scale)
	if err != nil {
		log.Fatalf("Failed to encode scaler: %v", err)
	}

	coef := make([]float64, features.Count)
	for i, name := range features.Names {
		coef[i] = sampleWeights[name]
	}
	modelJSON, err := ml.EncodeLogisticRegression(meta, coef, 0)
	if err != nil {
		log.Fatalf("Failed to encode model: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	modelPath := filepath.Join(*outDir, "model.json")
	scalerPath := filepath.Join(*outDir, "scaler.json")
	if err := os.WriteFile(modelPath, modelJSON, 0o644); err != nil {
		log.Fatalf("Failed to write model: %v", err)
	}
	if err := os.WriteFile(scalerPath, scalerJSON, 0o644); err != nil {
		log.Fatalf("Failed to write scaler: %v", err)
	}

	// Round-trip through the decoders the service uses
	if err := evaluate(modelJSON, scalerJSON, rows, labels); err != nil {
		log.Fatalf("Generated artifacts do not load: %v", err)
	}

	fmt.Printf("\nWrote %s and %s\n", modelPath, scalerPath)
	fmt.Printf("Serve them with MODEL_URL=file://%s SCALER_URL=file://%s\n", absPath(modelPath), absPath(scalerPath))
}

func syntheticRows(n int, rng *rand.Rand) ([][]float64, []bool) {
	rows := make([][]float64, 0, n)
	labels := make([]bool, 0, n)
	for i := 0; i < n; i++ {
		hasTransit := i%2 == 0
		lc := demo.Generate(demo.Options{Transit: hasTransit}, rng)
		fv, err := features.Extract(lc.Flux)
		if err != nil {
			log.Fatalf("Failed to extract features: %v", err)
		}
		rows = append(rows, fv.Slice())
		labels = append(labels, hasTransit)
	}
	return rows, labels
}

func columnStats(rows [][]float64) (mean, scale []float64) {
	width := len(rows[0])
	mean = make([]float64, width)
	scale = make([]float64, width)

	for _, r := range rows {
		for j, v := range r {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(rows))
	}
	for _, r := range rows {
		for j, v := range r {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / float64(len(rows)))
	}
	return mean, scale
}

func evaluate(modelJSON, scalerJSON []byte, rows [][]float64, labels []bool) error {
	c, cmeta, err := ml.DecodeClassifier(modelJSON)
	if err != nil {
		return err
	}
	s, smeta, err := ml.DecodeScaler(scalerJSON)
	if err != nil {
		return err
	}
	engine := ml.NewEngine(&ml.Models{
		Classifier:     c,
		Scaler:         s,
		ClassifierMeta: cmeta,
		ScalerMeta:     &smeta,
		LoadedAt:       time.Now(),
	}, nil)

	var correct, high int
	for i, r := range rows {
		res, err := engine.Predict(context.Background(), r)
		if err != nil {
			return err
		}
		if res.Detected() == labels[i] {
			correct++
		}
		if res.Confidence == "High" {
			high++
		}
	}

	fmt.Println("\n=== Sample Model Check ===")
	fmt.Printf("Agreement with injected transits: %.1f%%\n", 100*float64(correct)/float64(len(rows)))
	fmt.Printf("High confidence results: %d/%d\n", high, len(rows))
	fmt.Println("==========================")
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
