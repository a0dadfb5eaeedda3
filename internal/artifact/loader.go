package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exoplanet-detector/internal/ml"

	"github.com/rs/zerolog/log"
)

// Source fetches raw artifact bytes.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Cache keeps the last good copy of each artifact across restarts.
type Cache interface {
	PutArtifact(location string, data []byte) error
	GetArtifact(location string) ([]byte, error)
}

// MetricsInterface defines the metrics reported during acquisition.
type MetricsInterface interface {
	ArtifactFetchObserve(float64)
	ArtifactFailuresInc()
	FallbackActiveSet(bool)
}

// Locations names where the two artifacts live. An empty Scaler means none.
type Locations struct {
	Classifier string
	Scaler     string
}

// Loader builds the process-wide model state.
type Loader struct {
	source  Source
	cache   Cache
	metrics MetricsInterface
}

// NewLoader creates a loader. cache and metrics may be nil.
func NewLoader(source Source, cache Cache, metrics MetricsInterface) *Loader {
	return &Loader{source: source, cache: cache, metrics: metrics}
}

// Load fetches and decodes both artifacts. It never fails: any error is
// logged and the fallback classifier is returned with no scaler.
func (l *Loader) Load(ctx context.Context, loc Locations) *ml.Models {
	models, err := l.load(ctx, loc)
	if err != nil {
		log.Error().Err(err).
			Str("classifier_location", loc.Classifier).
			Str("scaler_location", loc.Scaler).
			Msg("Error loading model")
		if l.metrics != nil {
			l.metrics.ArtifactFailuresInc()
			l.metrics.FallbackActiveSet(true)
		}
		log.Warn().Msg("Serving predictions from the fallback classifier; results carry no confidence")
		return ml.NewFallbackModels()
	}

	if l.metrics != nil {
		l.metrics.FallbackActiveSet(false)
	}
	log.Info().
		Str("classifier_kind", models.ClassifierMeta.Kind).
		Str("classifier_version", models.ClassifierMeta.Version).
		Int("n_features", models.ClassifierMeta.NFeatures).
		Bool("scaler", models.Scaler != nil).
		Msg("Model and scaler loaded successfully")
	return models
}

func (l *Loader) load(ctx context.Context, loc Locations) (*ml.Models, error) {
	if loc.Classifier == "" {
		return nil, errors.New("no classifier location configured")
	}

	models := &ml.Models{}

	log.Info().Str("location", loc.Classifier).Msg("Downloading model")
	err := l.acquire(ctx, loc.Classifier, func(data []byte) error {
		c, meta, err := ml.DecodeClassifier(data)
		if err != nil {
			return err
		}
		meta.Source = loc.Classifier
		models.Classifier, models.ClassifierMeta = c, meta
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	if loc.Scaler != "" {
		log.Info().Str("location", loc.Scaler).Msg("Downloading scaler")
		err = l.acquire(ctx, loc.Scaler, func(data []byte) error {
			s, meta, err := ml.DecodeScaler(data)
			if err != nil {
				return err
			}
			if s.NumFeatures() != models.Classifier.NumFeatures() {
				return fmt.Errorf("scaler width %d does not match classifier width %d",
					s.NumFeatures(), models.Classifier.NumFeatures())
			}
			meta.Source = loc.Scaler
			models.Scaler, models.ScalerMeta = s, &meta
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scaler: %w", err)
		}
	} else {
		log.Info().Msg("No scaler configured, features pass through unscaled")
	}

	models.LoadedAt = time.Now()
	return models, nil
}

// acquire fetches and decodes one artifact. A fresh copy that decodes is
// cached; when the fresh path fails the cached copy is tried instead.
func (l *Loader) acquire(ctx context.Context, location string, decode func([]byte) error) error {
	start := time.Now()
	data, err := l.source.Fetch(ctx, location)
	if l.metrics != nil {
		l.metrics.ArtifactFetchObserve(time.Since(start).Seconds())
	}
	if err == nil {
		if err = decode(data); err == nil {
			if l.cache != nil {
				if cerr := l.cache.PutArtifact(location, data); cerr != nil {
					log.Warn().Err(cerr).Str("location", location).Msg("failed to cache artifact")
				}
			}
			return nil
		}
	}

	if l.cache == nil {
		return err
	}
	cached, cerr := l.cache.GetArtifact(location)
	if cerr != nil || cached == nil {
		return err
	}
	if derr := decode(cached); derr != nil {
		log.Warn().Err(derr).Str("location", location).Msg("cached artifact is unusable")
		return err
	}
	log.Warn().Err(err).Str("location", location).Msg("using cached artifact after fetch failure")
	return nil
}
