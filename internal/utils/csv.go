// Package utils holds small shared helpers for the command-line tools.
package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"forexSignalBot/internal/domain"
)

var csvHeader = []string{"time", "open", "high", "low", "close", "volume"}

// WriteBarsToCSV writes a bar series to a CSV file with an RFC3339 timestamp
// column, overwriting any existing file.
func WriteBarsToCSV(bars []domain.Bar, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bars {
		record := []string{
			b.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// ReadBarsFromCSV loads a bar series written by WriteBarsToCSV. The header
// row is required and validated by column count only.
func ReadBarsFromCSV(filename string) ([]domain.Bar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty, expected a header row", filename)
	}

	bars := make([]domain.Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		b, err := parseBarRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+2, filename, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseBarRecord(rec []string) (domain.Bar, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return domain.Bar{}, fmt.Errorf("invalid time %q: %w", rec[0], err)
	}
	vals := make([]float64, 5)
	for i, field := range rec[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("invalid %s %q: %w", csvHeader[i+1], field, err)
		}
		vals[i] = v
	}
	return domain.Bar{
		Time: ts,
		Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3],
		Volume: vals[4],
	}, nil
}
