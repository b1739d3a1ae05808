package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"autosales-dashboard/internal/config"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
)

const (
	batchSize  = 256
	maxWorkers = 8
)

const (
	colYear          = "Year"
	colMonth         = "Month"
	colVehicleType   = "Vehicle_Type"
	colSales         = "Automobile_Sales"
	colAdvertising   = "Advertising_Expenditure"
	colUnemployment  = "unemployment_rate"
	colRecessionFlag = "Recession"
)

var requiredColumns = []string{
	colYear, colMonth, colVehicleType, colSales, colAdvertising, colUnemployment, colRecessionFlag,
}

var ErrNoRecords = errors.New("no records found")

type Loader struct {
	cfg    config.DataConfig
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewLoader(cfg config.DataConfig, logger *slog.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the configured source once. A fresh snapshot in the cache
// directory, when caching is enabled, stands in for the source.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "dataset.load")
	defer span.End(l.logger)
	span.SetTag("source", l.cfg.Source)

	if l.cfg.CacheDir != "" {
		records, savedAt, err := loadSnapshot(l.cfg.CacheDir, l.cfg.Source, l.cfg.CacheTTL, l.now())
		if err == nil {
			l.logger.Info("loaded from cache",
				"records", len(records),
				"saved_at", savedAt,
			)
			span.SetTag("cache", "hit")
			return newDataset(records, l.cfg.Source, savedAt), nil
		}
		l.logger.Debug("cache not used", "reason", err)
	}

	start := l.now()
	l.logger.Info("loading sales data", "source", l.cfg.Source)

	body, err := l.open(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	defer body.Close()

	records, err := Parse(ctx, body)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("parse %s: %w", l.cfg.Source, err)
	}

	if l.cfg.CacheDir != "" {
		if err := saveSnapshot(l.cfg.CacheDir, l.cfg.Source, records, l.now()); err != nil {
			l.logger.Warn("failed to save cache", "error", err)
		}
	}

	ds := newDataset(records, l.cfg.Source, l.now())
	duration := l.now().Sub(start)
	l.logger.Info("sales data loaded",
		"records", ds.Len(),
		"years", len(ds.years),
		"duration", duration,
	)

	return ds, nil
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	src := l.cfg.Source
	if !isRemote(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", src, resp.Status)
	}
	return resp.Body, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Parse decodes the sales CSV. Columns are located by header name and any
// extra columns are ignored. A single malformed row fails the whole parse.
func Parse(ctx context.Context, r io.Reader) ([]models.SalesRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	// rows are parsed in parallel batches, each writing its own slots, so
	// the result keeps source order
	records := make([]models.SalesRecord, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := parseRow(rows[i], cols)
				if err != nil {
					// +2: header line and 1-based numbering
					return fmt.Errorf("line %d: %w", i+2, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for _, want := range requiredColumns {
			if strings.EqualFold(name, want) {
				cols[want] = i
			}
		}
	}

	var missing []string
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (models.SalesRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}

	year, err := strconv.Atoi(field(colYear))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("%s: %w", colYear, err)
	}

	sales, err := parseAmount(colSales, field(colSales))
	if err != nil {
		return models.SalesRecord{}, err
	}

	advertising, err := parseAmount(colAdvertising, field(colAdvertising))
	if err != nil {
		return models.SalesRecord{}, err
	}

	unemployment, err := parseAmount(colUnemployment, field(colUnemployment))
	if err != nil {
		return models.SalesRecord{}, err
	}

	recession, err := parseFlag(field(colRecessionFlag))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("%s: %w", colRecessionFlag, err)
	}

	month := field(colMonth)
	if month == "" {
		return models.SalesRecord{}, fmt.Errorf("%s: empty value", colMonth)
	}

	vehicleType := field(colVehicleType)
	if vehicleType == "" {
		return models.SalesRecord{}, fmt.Errorf("%s: empty value", colVehicleType)
	}

	return models.SalesRecord{
		Year:                   year,
		Month:                  month,
		VehicleType:            vehicleType,
		AutomobileSales:        sales,
		AdvertisingExpenditure: advertising,
		UnemploymentRate:       unemployment,
		Recession:              recession,
	}, nil
}

func parseAmount(name, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%s: invalid amount %q", name, value)
	}
	return f, nil
}

// parseFlag accepts 0/1 as written by the dataset, plus the usual boolean
// spellings and float renderings like "1.0".
func parseFlag(value string) (bool, error) {
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false, fmt.Errorf("invalid flag %q", value)
	}
	switch f {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid flag %q", value)
}
