package eventlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// timestampFormats are tried in order when a config supplies none.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02",
}

// CSVConfig names the columns of a CSV event log. Column matching is
// case-insensitive.
type CSVConfig struct {
	CaseIDColumn     string
	ActivityColumn   string
	TimestampColumn  string
	ResourceColumn   string // optional
	TimestampFormats []string
	Delimiter        rune
	SkipRows         int
}

// DefaultCSVConfig returns the conventional column names.
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		CaseIDColumn:    "case_id",
		ActivityColumn:  "activity",
		TimestampColumn: "timestamp",
		ResourceColumn:  "resource",
		Delimiter:       ',',
	}
}

// ParseCSV parses an event log from a CSV file.
func ParseCSV(filename string, config CSVConfig) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()
	return ParseCSVReader(f, config)
}

// ParseCSVReader parses an event log from CSV text. Events land in
// timestamp order within each case.
func ParseCSVReader(r io.Reader, config CSVConfig) (*Log, error) {
	if err := requireFields(config.CaseIDColumn, config.ActivityColumn, config.TimestampColumn); err != nil {
		return nil, err
	}
	formats := config.TimestampFormats
	if len(formats) == 0 {
		formats = timestampFormats
	}

	reader := csv.NewReader(r)
	if config.Delimiter != 0 {
		reader.Comma = config.Delimiter
	}
	// records may vary in width; required columns are length-checked per row
	reader.FieldsPerRecord = -1
	for i := 0; i < config.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping row %d: %w", i+1, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	caseIdx, err := lookup(config.CaseIDColumn)
	if err != nil {
		return nil, err
	}
	activityIdx, err := lookup(config.ActivityColumn)
	if err != nil {
		return nil, err
	}
	timestampIdx, err := lookup(config.TimestampColumn)
	if err != nil {
		return nil, err
	}
	resourceIdx := -1
	if config.ResourceColumn != "" {
		if i, ok := index[strings.ToLower(config.ResourceColumn)]; ok {
			resourceIdx = i
		}
	}

	log := NewLog()
	line := config.SkipRows + 1
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) <= caseIdx || len(record) <= activityIdx || len(record) <= timestampIdx {
			return nil, fmt.Errorf("%w: line %d: too few columns", ErrBadRecord, line)
		}

		caseID := strings.TrimSpace(record[caseIdx])
		activity := strings.TrimSpace(record[activityIdx])
		if caseID == "" {
			return nil, fmt.Errorf("%w: line %d: empty case id", ErrBadRecord, line)
		}
		if activity == "" {
			return nil, fmt.Errorf("%w: line %d: empty activity", ErrBadRecord, line)
		}
		ts, err := parseTimestamp(strings.TrimSpace(record[timestampIdx]), formats)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrBadTimestamp, line, record[timestampIdx])
		}

		e := Event{CaseID: caseID, Activity: activity, Timestamp: ts}
		if resourceIdx >= 0 && len(record) > resourceIdx {
			e.Resource = strings.TrimSpace(record[resourceIdx])
		}
		log.AddEvent(e)
	}

	log.SortTraces()
	return log, nil
}

func requireFields(caseID, activity, timestamp string) error {
	for _, f := range []struct{ name, value string }{
		{"case id", caseID},
		{"activity", activity},
		{"timestamp", timestamp},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s column not configured", ErrMissingColumn, f.name)
		}
	}
	return nil
}

func parseTimestamp(s string, formats []string) (time.Time, error) {
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}
