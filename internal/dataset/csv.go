// Package dataset loads validated price series for the backtest engine.
// The engine itself never parses files or fetches data; everything here is
// the loading collaborator.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/khushi-saxena/TradeSage/internal/core"
)

const dateLayout = "2006-01-02"

// LoadCSV reads a price series from a CSV file with Date and Close columns.
// Rows are sorted by date before validation; duplicate dates and
// non-positive closes are data-quality errors.
func LoadCSV(path string) (core.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	series, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// ReadCSV parses Date,Close rows from any reader. A header row is optional
// and detected by a non-numeric second field.
func ReadCSV(r io.Reader) (core.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var series core.PriceSeries
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		if len(record) < 2 {
			return nil, core.WrapError(core.ErrDataQuality,
				fmt.Errorf("line %d: expected at least Date and Close columns", line))
		}

		closeStr := strings.TrimSpace(record[1])
		if line == 1 {
			if _, err := strconv.ParseFloat(closeStr, 64); err != nil {
				continue // Header row
			}
		}

		ts, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			return nil, core.WrapError(core.ErrDataQuality,
				fmt.Errorf("line %d: invalid date %q", line, record[0]))
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return nil, core.WrapError(core.ErrDataQuality,
				fmt.Errorf("line %d: invalid close %q", line, record[1]))
		}

		series = append(series, core.PricePoint{Time: ts, Close: closePrice})
	}

	if len(series) == 0 {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("no price rows found"))
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// WriteCSV writes a price series as Date,Close rows with a header.
func WriteCSV(w io.Writer, series core.PriceSeries) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Date", "Close"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range series {
		record := []string{
			p.Time.Format(dateLayout),
			strconv.FormatFloat(p.Close, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// SaveCSV writes a price series to a file, creating it if needed.
func SaveCSV(path string, series core.PriceSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, series)
}
