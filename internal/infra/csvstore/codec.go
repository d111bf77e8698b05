package csvstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// TimeLayout is the layout of the startDateTime column.
const TimeLayout = "2006-01-02T15:04:05"

// Header is the first row of every backup.
var Header = []string{"id", "type", "name", "status", "description", "epicId", "startDateTime", "durationMinutes"}

// Encode renders records as CSV, header first, rows ordered by id.
func Encode(records []domain.Record) ([]byte, error) {
	sorted := slices.Clone(records)
	domain.SortRecords(sorted)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range sorted {
		row, err := encodeRow(r)
		if err == nil {
			err = w.Write(row)
		}
		if err != nil {
			return nil, fmt.Errorf("encode record #%d: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeRow renders one record. Durations must be whole minutes, since
// that is the column's unit.
func encodeRow(r domain.Record) ([]string, error) {
	epicID := ""
	if r.Kind == domain.KindSubTask {
		epicID = strconv.Itoa(r.EpicID)
	}
	start, minutes := "", ""
	if r.Kind != domain.KindEpic {
		if r.Start != nil {
			start = r.Start.UTC().Format(TimeLayout)
		}
		if r.Duration != nil {
			if err := r.Task().CheckDuration(); err != nil {
				return nil, err
			}
			minutes = strconv.FormatInt(int64(*r.Duration/time.Minute), 10)
		}
	}
	return []string{
		strconv.Itoa(r.ID),
		string(r.Kind),
		r.Name,
		string(r.Status),
		r.Description,
		epicID,
		start,
		minutes,
	}, nil
}

// Decode parses a CSV backup. An empty document yields no records.
func Decode(data []byte) ([]domain.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(Header)

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(head, Header) {
		return nil, fmt.Errorf("unexpected header %v", head)
	}

	var records []domain.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := decodeRow(row)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRow(row []string) (domain.Record, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return domain.Record{}, fmt.Errorf("id: %w", err)
	}
	rec := domain.Record{
		ID:          id,
		Kind:        domain.Kind(row[1]),
		Name:        row[2],
		Status:      domain.Status(row[3]),
		Description: row[4],
	}

	if row[5] != "" {
		if rec.EpicID, err = strconv.Atoi(row[5]); err != nil {
			return domain.Record{}, fmt.Errorf("epicId: %w", err)
		}
	}
	if row[6] != "" {
		start, err := time.Parse(TimeLayout, row[6])
		if err != nil {
			return domain.Record{}, fmt.Errorf("startDateTime: %w", err)
		}
		rec.Start = &start
	}
	if row[7] != "" {
		minutes, err := strconv.ParseInt(row[7], 10, 64)
		if err != nil {
			return domain.Record{}, fmt.Errorf("durationMinutes: %w", err)
		}
		d := time.Duration(minutes) * time.Minute
		rec.Duration = &d
	}

	return rec, rec.Validate()
}
