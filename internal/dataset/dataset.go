// Package dataset loads the historical automobile sales CSV into an
// immutable, in-memory handle.
package dataset

import (
	"slices"
	"time"

	"autosales-dashboard/internal/models"
)

// Dataset is a read-only view over the loaded sales records. It is built
// once at startup and shared by every request; nothing mutates it.
type Dataset struct {
	records  []models.SalesRecord
	years    []int
	source   string
	loadedAt time.Time
}

// New builds a dataset from records, keeping their order. The slice is
// copied so later changes by the caller are not observed.
func New(records []models.SalesRecord) *Dataset {
	return newDataset(slices.Clone(records), "memory", time.Now())
}

func newDataset(records []models.SalesRecord, source string, loadedAt time.Time) *Dataset {
	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}

	return &Dataset{
		records:  records,
		years:    years,
		source:   source,
		loadedAt: loadedAt,
	}
}

// Records returns the records in source order. The slice is shared and must
// not be modified.
func (d *Dataset) Records() []models.SalesRecord {
	return d.records
}

// Years returns the distinct years in order of first appearance.
func (d *Dataset) Years() []int {
	return slices.Clone(d.years)
}

// DefaultYear is the first year present in the data.
func (d *Dataset) DefaultYear() (int, bool) {
	if len(d.years) == 0 {
		return 0, false
	}
	return d.years[0], true
}

func (d *Dataset) HasYear(year int) bool {
	return slices.Contains(d.years, year)
}

func (d *Dataset) Len() int {
	return len(d.records)
}

func (d *Dataset) Source() string {
	return d.source
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}
