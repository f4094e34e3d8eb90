package rental

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/blackwell-systems/delaywatch/internal/logging"
)

// Column names of the rental delay dataset.
const (
	ColRentalID          = "rental_id"
	ColCarID             = "car_id"
	ColCheckinType       = "checkin_type"
	ColState             = "state"
	ColDelayAtCheckout   = "delay_at_checkout_in_minutes"
	ColPreviousRentalID  = "previous_ended_rental_id"
	ColTimeDeltaPrevious = "time_delta_with_previous_rental_in_minutes"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidRow is returned when a row lacks a rental_id or car_id.
	ErrInvalidRow = errors.New("invalid row")

	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// requiredColumns are bound by name, so column order in the source is free.
var requiredColumns = []string{
	ColRentalID,
	ColCarID,
	ColCheckinType,
	ColState,
	ColDelayAtCheckout,
	ColPreviousRentalID,
	ColTimeDeltaPrevious,
}

// Numeric columns are read as floats: spreadsheet exports write integers
// with a trailing ".0" and missing cells must surface as NaN.
var columnTypes = map[string]series.Type{
	ColRentalID:          series.Float,
	ColCarID:             series.Float,
	ColCheckinType:       series.String,
	ColState:             series.String,
	ColDelayAtCheckout:   series.Float,
	ColPreviousRentalID:  series.Float,
	ColTimeDeltaPrevious: series.Float,
}

var nanValues = []string{"", "NA", "NaN", "nan", "null", "<nil>"}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues(nanValues),
	}
}

// ReadCSV parses CSV data with a header row into records.
func ReadCSV(r io.Reader) ([]Record, error) {
	return FromDataFrame(dataframe.ReadCSV(r, loadOptions()...))
}

// ReadXLSX parses the first sheet of an XLSX workbook into records.
func ReadXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheets[0])
	}

	// GetRows trims trailing empty cells; gota wants a rectangular matrix.
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > width {
			rows[i] = row[:width]
		}
	}

	return FromDataFrame(dataframe.LoadRecords(rows, loadOptions()...))
}

// ReadFile parses a CSV or XLSX file, chosen by extension.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads a dataset file, drops uninformative rows and returns the
// resulting table snapshot.
func LoadFile(path string) (*Table, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	cleaned := DropUninformative(records)

	logging.Debug().
		Str("path", path).
		Int("rows", len(records)).
		Int("dropped", len(records)-len(cleaned)).
		Msg("Loaded rental dataset")

	return NewTable(cleaned)
}

// DropUninformative removes canceled rentals that carry neither a checkout
// delay nor a predecessor link. They say nothing about delays.
func DropUninformative(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.DelayAtCheckout == nil && r.PreviousEndedRentalID == nil && r.Canceled() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FromDataFrame binds the dataset columns by name into records.
func FromDataFrame(df dataframe.DataFrame) ([]Record, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", df.Err)
	}

	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	rentalIDs := df.Col(ColRentalID).Float()
	carIDs := df.Col(ColCarID).Float()
	checkins := stringColumn(df.Col(ColCheckinType))
	states := stringColumn(df.Col(ColState))
	delays := df.Col(ColDelayAtCheckout).Float()
	previous := df.Col(ColPreviousRentalID).Float()
	deltas := df.Col(ColTimeDeltaPrevious).Float()

	records := make([]Record, df.Nrow())
	for i := range records {
		if math.IsNaN(rentalIDs[i]) || math.IsNaN(carIDs[i]) {
			// +2: one for the header, one for 1-based row numbers.
			return nil, fmt.Errorf("%w: row %d has no rental_id or car_id", ErrInvalidRow, i+2)
		}
		records[i] = Record{
			RentalID:              int64(math.Round(rentalIDs[i])),
			CarID:                 int64(math.Round(carIDs[i])),
			CheckinType:           CheckinType(checkins[i]),
			State:                 states[i],
			DelayAtCheckout:       optionalInt(delays[i]),
			PreviousEndedRentalID: optionalInt64(previous[i]),
			TimeDeltaWithPrevious: optionalInt(deltas[i]),
		}
	}
	return records, nil
}

func stringColumn(s series.Series) []string {
	values := s.Records()
	nan := s.IsNaN()
	for i := range values {
		if nan[i] {
			values[i] = ""
		}
	}
	return values
}

func optionalInt(f float64) *int {
	if math.IsNaN(f) {
		return nil
	}
	v := int(math.Round(f))
	return &v
}

func optionalInt64(f float64) *int64 {
	if math.IsNaN(f) {
		return nil
	}
	v := int64(math.Round(f))
	return &v
}
