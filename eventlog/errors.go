package eventlog

import "errors"

// ErrMissingColumn reports a required column or field absent from the
// input's header or records.
var ErrMissingColumn = errors.New("eventlog: required column missing")

// ErrBadRecord reports a record that cannot supply the required
// fields.
var ErrBadRecord = errors.New("eventlog: malformed record")

// ErrBadTimestamp reports a timestamp no configured format accepts.
var ErrBadTimestamp = errors.New("eventlog: unparseable timestamp")

// ErrEmptyLog reports an aggregation over a log with no events.
var ErrEmptyLog = errors.New("eventlog: log has no events")
