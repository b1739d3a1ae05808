package dataset

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autosales-dashboard/internal/models"
)

const cacheVersion = "v1"

var errStaleSnapshot = errors.New("snapshot expired")

type snapshot struct {
	Source  string
	SavedAt time.Time
	Records []models.SalesRecord
}

func snapshotPath(dir, source string) string {
	sum := sha256.Sum256([]byte(source))
	return filepath.Join(dir, fmt.Sprintf("sales_%s_%s.gob", hex.EncodeToString(sum[:8]), cacheVersion))
}

func saveSnapshot(dir, source string, records []models.SalesRecord, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// encoded to a temp file and renamed into place
	path := snapshotPath(dir, source)
	tmp, err := os.CreateTemp(dir, ".sales-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	snap := snapshot{Source: source, SavedAt: now, Records: records}
	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func loadSnapshot(dir, source string, ttl time.Duration, now time.Time) ([]models.SalesRecord, time.Time, error) {
	file, err := os.Open(snapshotPath(dir, source))
	if err != nil {
		return nil, time.Time{}, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, time.Time{}, err
	}

	if snap.Source != source {
		return nil, time.Time{}, fmt.Errorf("snapshot source %q does not match %q", snap.Source, source)
	}
	if ttl > 0 && now.Sub(snap.SavedAt) > ttl {
		return nil, time.Time{}, errStaleSnapshot
	}
	if len(snap.Records) == 0 {
		return nil, time.Time{}, ErrNoRecords
	}

	return snap.Records, snap.SavedAt, nil
}
