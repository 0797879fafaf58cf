package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// JSONLConfig names the fields of a JSON Lines event log, one JSON
// object per line.
type JSONLConfig struct {
	CaseIDField      string
	ActivityField    string
	TimestampField   string
	ResourceField    string // optional
	TimestampFormats []string
}

// DefaultJSONLConfig returns the conventional field names.
func DefaultJSONLConfig() JSONLConfig {
	return JSONLConfig{
		CaseIDField:    "case_id",
		ActivityField:  "activity",
		TimestampField: "timestamp",
		ResourceField:  "resource",
	}
}

// ParseJSONL parses an event log from a JSON Lines file.
func ParseJSONL(filename string, config JSONLConfig) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()
	return ParseJSONLReader(f, config)
}

// ParseJSONLReader parses an event log from JSON Lines text. Blank
// lines are skipped; events land in timestamp order within each case.
func ParseJSONLReader(r io.Reader, config JSONLConfig) (*Log, error) {
	if err := requireFields(config.CaseIDField, config.ActivityField, config.TimestampField); err != nil {
		return nil, err
	}
	formats := config.TimestampFormats
	if len(formats) == 0 {
		formats = timestampFormats
	}

	log := NewLog()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}

		caseID, err := stringField(record, config.CaseIDField, line)
		if err != nil {
			return nil, err
		}
		activity, err := stringField(record, config.ActivityField, line)
		if err != nil {
			return nil, err
		}
		ts, err := timestampField(record, config.TimestampField, formats, line)
		if err != nil {
			return nil, err
		}

		e := Event{CaseID: caseID, Activity: activity, Timestamp: ts}
		if config.ResourceField != "" {
			if r, ok := record[config.ResourceField].(string); ok {
				e.Resource = r
			}
		}
		log.AddEvent(e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	log.SortTraces()
	return log, nil
}

// stringField reads a required field, rendering numeric case ids as
// integers.
func stringField(record map[string]any, field string, line int) (string, error) {
	value, ok := record[field]
	if !ok {
		return "", fmt.Errorf("%w: line %d: field %q", ErrMissingColumn, line, field)
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: line %d: empty field %q", ErrBadRecord, line, field)
		}
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fmt.Errorf("%w: line %d: field %q is %T", ErrBadRecord, line, field, value)
	}
}

// timestampField accepts formatted strings plus unix seconds or
// milliseconds.
func timestampField(record map[string]any, field string, formats []string, line int) (time.Time, error) {
	value, ok := record[field]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: line %d: field %q", ErrMissingColumn, line, field)
	}
	switch v := value.(type) {
	case string:
		t, err := parseTimestamp(v, formats)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: line %d: %q", ErrBadTimestamp, line, v)
		}
		return t, nil
	case float64:
		if v > 1e12 {
			return time.Unix(int64(v)/1000, int64(v)%1000*1e6), nil
		}
		return time.Unix(int64(v), 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: line %d: field %q is %T", ErrBadTimestamp, line, field, value)
	}
}
