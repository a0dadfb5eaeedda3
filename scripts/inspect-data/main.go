package main

import (
	"flag"
	"fmt"
	"log"

	"exoplanet-detector/internal/ml"
	"exoplanet-detector/internal/storage"
)

func main() {
	var (
		dataPath = flag.String("data", "./data", "Data directory path")
		limit    = flag.Int("limit", 10, "Number of recent predictions to show")
	)
	flag.Parse()

	fmt.Printf("Inspecting data in: %s\n", *dataPath)

	// Open storage
	store, err := storage.New(*dataPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	fmt.Println("\nCached artifacts:")
	artifacts, err := store.ListArtifacts()
	if err != nil {
		log.Fatalf("Failed to list artifacts: %v", err)
	}
	if len(artifacts) == 0 {
		fmt.Println("  (none)")
	}
	for _, a := range artifacts {
		fmt.Printf("  %s\n    fetched %s, %d bytes, %s\n",
			a.Location, a.FetchedAt.Format("2006-01-02 15:04:05"), len(a.Data), describe(a.Data))
	}

	total, err := store.CountPredictions()
	if err != nil {
		log.Fatalf("Failed to count predictions: %v", err)
	}
	fmt.Printf("\nPrediction log: %d records\n", total)

	records, err := store.GetRecentPredictions(*limit)
	if err != nil {
		log.Fatalf("Failed to fetch recent predictions: %v", err)
	}
	for _, r := range records {
		fallback := ""
		if r.Fallback {
			fallback = " [fallback]"
		}
		fmt.Printf("  %s  p=%.3f  %-22s %s%s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.TransitProbability, r.Prediction, r.Confidence, fallback)
	}
}

// describe reports what kind of artifact a cached body decodes to.
func describe(data []byte) string {
	if _, meta, err := ml.DecodeClassifier(data); err == nil {
		return fmt.Sprintf("classifier %s (%d features, version %q)", meta.Kind, meta.NFeatures, meta.Version)
	}
	if _, meta, err := ml.DecodeScaler(data); err == nil {
		return fmt.Sprintf("scaler %s (%d features)", meta.Kind, meta.NFeatures)
	}
	return "undecodable"
}
