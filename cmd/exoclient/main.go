package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"exoplanet-detector/internal/cfg"
	"exoplanet-detector/internal/client"
	"exoplanet-detector/internal/demo"
	"exoplanet-detector/internal/features"
	"exoplanet-detector/internal/ml"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const sleepingWarning = "API is sleeping (free tier). Try the demo!"

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	var (
		mode       = flag.String("mode", "predict", "Mode: predict, demo, extract, health")
		featureCSV = flag.String("features", "", "Comma-separated feature values (defaults when empty)")
		input      = flag.String("input", "", "Light curve file for extract mode ('-' for stdin)")
		transit    = flag.Bool("transit", true, "Inject a transit in demo mode")
		seed       = flag.Int64("seed", 0, "Random seed for demo mode (0 uses the clock)")
		apiURL     = flag.String("api", "", "Service base URL (overrides API_URL)")
		logLevel   = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	// Setup logging
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *apiURL != "" {
		c.APIURL = *apiURL
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	api := client.New(client.Options{
		BaseURL:        c.APIURL,
		Timeout:        c.ClientTimeout,
		RequestsPerSec: c.ClientRPS,
	})
	ctx := context.Background()

	switch *mode {
	case "predict":
		fv, err := parseFeatures(*featureCSV)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid features")
		}
		runPredict(ctx, api, fv, rng)
	case "demo":
		runDemo(*transit, rng)
	case "extract":
		fv, err := extractFromFile(*input)
		if err != nil {
			log.Fatal().Err(err).Msg("feature extraction failed")
		}
		printFeatures(fv)
		runPredict(ctx, api, fv, rng)
	case "health":
		if err := runHealth(ctx, api); err != nil {
			fmt.Println(sleepingWarning)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		flag.Usage()
		os.Exit(2)
	}
}

// parseFeatures reads exactly features.Count comma-separated values, in
// schema order. An empty string yields the form defaults.
func parseFeatures(s string) (features.FeatureVector, error) {
	if strings.TrimSpace(s) == "" {
		return features.Defaults(), nil
	}

	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return features.FeatureVector{}, fmt.Errorf("value %d (%s): %w", i+1, features.Names[min(i, features.Count-1)], err)
		}
		values = append(values, v)
	}
	return features.FromSlice(values)
}

func extractFromFile(path string) (features.FeatureVector, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		if path == "" {
			return features.FeatureVector{}, errors.New("extract mode requires -input")
		}
		f, err := os.Open(path)
		if err != nil {
			return features.FeatureVector{}, err
		}
		defer f.Close()
		r = f
	}

	flux, err := demo.ReadFlux(r)
	if err != nil {
		return features.FeatureVector{}, err
	}
	return features.Extract(flux)
}

func runPredict(ctx context.Context, api *client.Client, fv features.FeatureVector, rng *rand.Rand) {
	resp, err := api.Predict(ctx, fv)
	if err != nil {
		var te *client.TransportError
		if !errors.As(err, &te) {
			log.Fatal().Err(err).Msg("prediction failed")
		}
		log.Debug().Err(err).Msg("service call failed")
		if te.StatusCode != 0 {
			fmt.Printf("API Error: %d %s\n", te.StatusCode, te.Detail)
			return
		}
		fmt.Println(sleepingWarning)
		fmt.Println()
		runDemo(true, rng)
		return
	}

	fmt.Printf("Probability: %.1f%%\n", resp.TransitProbability*100)
	fmt.Printf("Confidence:  %s\n", resp.Confidence)
	if resp.TransitProbability > ml.DecisionThreshold {
		fmt.Printf("Result:      %s This light curve shows signs of planetary transit.\n", resp.Prediction)
	} else {
		fmt.Printf("Result:      %s This appears to be a normal star.\n", resp.Prediction)
	}
}

func runDemo(withTransit bool, rng *rand.Rand) {
	lc := demo.Generate(demo.Options{Transit: withTransit}, rng)

	fmt.Println("Simulated TESS light curve")
	fmt.Println(demo.Sparkline(lc.Flux, 72))
	fmt.Printf("%d samples over %.1f days\n", len(lc.Flux), lc.Time[len(lc.Time)-1])
	if lc.Transit != nil {
		fmt.Printf("Added transit: depth=%.3f, duration=%.1f days, centre=%.1f days\n",
			lc.Transit.Depth, lc.Transit.Duration, lc.Transit.Mid())
	}

	p := demo.SimulatedProbability(lc.Transit != nil, rng)
	if lc.Transit != nil {
		fmt.Printf("Simulated prediction: %.1f%% chance of exoplanet!\n", p*100)
	} else {
		fmt.Printf("Simulated prediction: %.1f%% chance of exoplanet.\n", p*100)
	}
	fmt.Println("(demo output, not produced by the model)")
}

func runHealth(ctx context.Context, api *client.Client) error {
	h, err := api.Health(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("health check failed")
		return err
	}
	fmt.Printf("Status:       %s\n", h.Status)
	fmt.Printf("Model loaded: %t\n", h.ModelLoaded)
	if h.Fallback {
		fmt.Println("Warning: service is running on the fallback classifier")
	}
	return nil
}

func printFeatures(fv features.FeatureVector) {
	fmt.Println("=== Extracted Features ===")
	for i, v := range fv.Slice() {
		fmt.Printf("%-14s %g\n", features.Names[i], v)
	}
	fmt.Println("==========================")
}
