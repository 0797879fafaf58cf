package eventlog

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseJSONLReader(t *testing.T) {
	input := `{"case_id":"c1","activity":"register","timestamp":"2024-03-01T10:00:00Z","resource":"alice"}

{"case_id":"c1","activity":"close","timestamp":"2024-03-01T11:00:00Z"}
{"case_id":"c2","activity":"register","timestamp":"2024-03-01T09:00:00Z"}
`
	log, err := ParseJSONLReader(strings.NewReader(input), DefaultJSONLConfig())
	if err != nil {
		t.Fatalf("ParseJSONLReader failed: %v", err)
	}

	if log.CaseCount() != 2 {
		t.Errorf("Expected 2 cases, got %d", log.CaseCount())
	}
	if log.EventCount() != 3 {
		t.Errorf("Expected 3 events, got %d", log.EventCount())
	}
	tr, _ := log.TraceByCase("c1")
	if got := strings.Join(tr.Variant(), ","); got != "register,close" {
		t.Errorf("Expected c1 variant register,close, got %s", got)
	}
	if tr.Events[0].Resource != "alice" {
		t.Errorf("Expected resource alice, got %q", tr.Events[0].Resource)
	}
}

func TestParseJSONLNumericCaseID(t *testing.T) {
	input := `{"case_id":42,"activity":"a","timestamp":"2024-03-01"}`
	log, err := ParseJSONLReader(strings.NewReader(input), DefaultJSONLConfig())
	if err != nil {
		t.Fatalf("ParseJSONLReader failed: %v", err)
	}
	if _, ok := log.TraceByCase("42"); !ok {
		t.Error("Expected numeric case id rendered as 42")
	}
}

func TestParseJSONLUnixTimestamps(t *testing.T) {
	input := `{"case_id":"c1","activity":"a","timestamp":1709290800}
{"case_id":"c1","activity":"b","timestamp":1709290801500}
`
	log, err := ParseJSONLReader(strings.NewReader(input), DefaultJSONLConfig())
	if err != nil {
		t.Fatalf("ParseJSONLReader failed: %v", err)
	}
	tr, _ := log.TraceByCase("c1")
	if !tr.Events[0].Timestamp.Equal(time.Unix(1709290800, 0)) {
		t.Errorf("Expected unix seconds timestamp, got %v", tr.Events[0].Timestamp)
	}
	if !tr.Events[1].Timestamp.Equal(time.Unix(1709290801, 500*1e6)) {
		t.Errorf("Expected unix millis timestamp, got %v", tr.Events[1].Timestamp)
	}
}

func TestParseJSONLMissingField(t *testing.T) {
	input := `{"case_id":"c1","timestamp":"2024-03-01"}`
	_, err := ParseJSONLReader(strings.NewReader(input), DefaultJSONLConfig())
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Expected ErrMissingColumn, got %v", err)
	}
}

func TestParseJSONLInvalidJSON(t *testing.T) {
	input := `{"case_id":"c1","activity":`
	_, err := ParseJSONLReader(strings.NewReader(input), DefaultJSONLConfig())
	if !errors.Is(err, ErrBadRecord) {
		t.Fatalf("Expected ErrBadRecord, got %v", err)
	}
}

func TestParseJSONLBadTimestampType(t *testing.T) {
	input := `{"case_id":"c1","activity":"a","timestamp":true}`
	_, err := ParseJSONLReader(strings.NewReader(input), DefaultJSONLConfig())
	if !errors.Is(err, ErrBadTimestamp) {
		t.Fatalf("Expected ErrBadTimestamp, got %v", err)
	}
}
