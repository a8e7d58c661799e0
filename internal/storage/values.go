package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Date is a calendar date or timestamp that may be empty. The zero value is
// written as "" so that "date or empty" fields survive a round trip.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("storage.ParseDate: unsupported date %q", s)
}

func (d Date) IsSet() bool {
	return !d.Time.IsZero()
}

// Ptr returns nil for an empty date.
func (d Date) Ptr() *time.Time {
	if !d.IsSet() {
		return nil
	}
	t := d.Time
	return &t
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.IsSet() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("storage.Date: %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Hours is a duration in hours. Anything that is not a finite number
// (missing, empty, garbage) decodes as 0.
type Hours float64

func (h *Hours) UnmarshalJSON(b []byte) error {
	v, _ := looseNumber(b)
	*h = Hours(v)
	return nil
}

// looseNumber reads a JSON number or a numeric string. Old records were
// written by hand as often as by the client, so ok is false instead of an
// error for anything else.
func looseNumber(b []byte) (float64, bool) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// loosePercent rounds to a whole percent within 0..100.
func loosePercent(b []byte) int {
	v, _ := looseNumber(b)
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// looseRating is nil for a missing or unreadable rating, never 0.
func looseRating(b []byte) *float64 {
	v, ok := looseNumber(b)
	if !ok {
		return nil
	}
	return &v
}

// jsonKeys lists the JSON names of the fields of a struct type.
func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

// unknownFields returns the members of a JSON object that are not in known,
// or nil when there are none.
func unknownFields(b []byte, known map[string]bool) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k := range fields {
		if known[k] {
			delete(fields, k)
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// withExtra encodes v and adds the extra members it does not already have.
func withExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := fields[k]; !ok {
			fields[k] = raw
		}
	}
	return json.Marshal(fields)
}
