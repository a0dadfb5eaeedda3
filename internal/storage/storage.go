// Package storage provides persistent data storage for the prediction service.
// It uses BoltDB as the underlying storage engine to keep the last good copy
// of each model artifact and a log of served predictions.
//
// The package provides thread-safe operations; BoltDB serializes writers and
// allows concurrent readers.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	artifactsBucket   = "artifacts"   // Bucket name for cached model artifacts
	predictionsBucket = "predictions" // Bucket name for the prediction log

	dbFile = "exoplanet-data.db"
)

// Store provides persistent storage using BoltDB.
type Store struct {
	db *bbolt.DB // BoltDB database instance
}

// ArtifactRecord is a cached artifact body keyed by its location.
type ArtifactRecord struct {
	Location  string    `json:"location"`
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// New creates a new storage instance with the specified data path.
// It initializes the BoltDB database and creates necessary buckets.
// Returns an error if the database cannot be opened or buckets cannot be created.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, dbFile)

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(artifactsBucket)); err != nil {
			return fmt.Errorf("create artifacts bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket)); err != nil {
			return fmt.Errorf("create predictions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// PutArtifact stores the raw body fetched from location, replacing any older copy.
func (s *Store) PutArtifact(location string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(artifactsBucket))

		rec, err := json.Marshal(ArtifactRecord{Location: location, Data: data, FetchedAt: time.Now()})
		if err != nil {
			return fmt.Errorf("marshal artifact: %w", err)
		}
		return b.Put([]byte(location), rec)
	})
}

// GetArtifact returns the cached body for location, or nil when none is stored.
func (s *Store) GetArtifact(location string) ([]byte, error) {
	rec, err := s.GetArtifactRecord(location)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Data, nil
}

// GetArtifactRecord returns the cached record for location, or nil when none is stored.
func (s *Store) GetArtifactRecord(location string) (*ArtifactRecord, error) {
	var rec *ArtifactRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(artifactsBucket)).Get([]byte(location))
		if v == nil {
			return nil
		}
		rec = &ArtifactRecord{}
		if err := json.Unmarshal(v, rec); err != nil {
			return fmt.Errorf("unmarshal artifact: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListArtifacts returns every cached artifact record in location order.
func (s *Store) ListArtifacts() ([]ArtifactRecord, error) {
	var records []ArtifactRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(artifactsBucket)).ForEach(func(k, v []byte) error {
			var rec ArtifactRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal artifact %s: %w", k, err)
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}
