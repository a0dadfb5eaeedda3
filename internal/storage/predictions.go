package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

// PredictionRecord is one served prediction.
type PredictionRecord struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Features           []float64 `json:"features"`
	TransitProbability float64   `json:"transit_probability"`
	Prediction         string    `json:"prediction"`
	Confidence         string    `json:"confidence"`
	Fallback           bool      `json:"fallback"`
}

// StorePrediction appends a record to the prediction log. ID and Timestamp
// are filled in when empty.
func (s *Store) StorePrediction(record PredictionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal prediction record: %w", err)
		}

		return b.Put(predictionKey(record), data)
	})
}

// GetRecentPredictions returns up to limit records, newest first.
func (s *Store) GetRecentPredictions(limit int) ([]PredictionRecord, error) {
	records := make([]PredictionRecord, 0)
	if limit <= 0 {
		return records, nil
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()

		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec PredictionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // Skip malformed records
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

// GetPredictionsInRange returns records with start <= timestamp <= end, oldest first.
func (s *Store) GetPredictionsInRange(start, end time.Time) ([]PredictionRecord, error) {
	var records []PredictionRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()

		startKey := []byte(fmt.Sprintf("%020d", start.UnixNano()))
		for k, v := c.Seek(startKey); k != nil; k, v = c.Next() {
			var rec PredictionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			if rec.Timestamp.After(end) {
				break
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

// CountPredictions returns the number of logged predictions.
func (s *Store) CountPredictions() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(predictionsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

// keys sort by time; the id suffix keeps same-nanosecond records apart
func predictionKey(r PredictionRecord) []byte {
	return []byte(fmt.Sprintf("%020d_%s", r.Timestamp.UnixNano(), r.ID))
}
