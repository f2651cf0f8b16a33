package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCleanList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"case-sensitive duplicates", []string{"Go", "go", "Go"}, []string{"Go", "go"}},
		{"trims and drops blanks", []string{"  Python ", "", "   ", "Python"}, []string{"Python"}},
		{"keeps first-occurrence order", []string{"b", "a", "b", "c", "a"}, []string{"b", "a", "c"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CleanList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw        string
		want       Role
		wantKnown  bool
		registrble bool
	}{
		{"admin", RoleAdmin, true, true},
		{" Manager ", RoleManager, true, true},
		{"bd", RoleBD, true, false},
		{"superuser", Role("superuser"), false, false},
	}

	for _, tt := range tests {
		got, known := ParseRole(tt.raw)
		if got != tt.want || known != tt.wantKnown {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.raw, got, known, tt.want, tt.wantKnown)
		}
		if got.Registrable() != tt.registrble {
			t.Errorf("%q.Registrable() = %v, want %v", got, got.Registrable(), tt.registrble)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Deadline Date `json:"deadline"`
	}

	if err := json.Unmarshal([]byte(`{"deadline":"2026-03-15"}`), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := payload.Deadline.String(); got != "2026-03-15" {
		t.Errorf("Deadline = %q, want 2026-03-15", got)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"deadline":"2026-03-15"}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestDate_JSONAcceptsTimestamp(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2026-03-15T10:20:30Z"`), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d.String() != "2026-03-15" {
		t.Errorf("d = %q, want 2026-03-15", d.String())
	}
}

func TestDate_JSONRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"15/03/2026"`), &d); err == nil {
		t.Error("Unmarshal() of dd/mm/yyyy should fail")
	}
	if err := json.Unmarshal([]byte(`20260315`), &d); err == nil {
		t.Error("Unmarshal() of a number should fail")
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if d.String() != "2025-12-31" {
		t.Errorf("Scan() = %q, want 2025-12-31", d.String())
	}

	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan(nil) = %v, %v; want zero date", d, err)
	}
}

func TestDate_ValueIsMidnight(t *testing.T) {
	d := NewDate(time.Date(2026, 3, 15, 17, 45, 0, 0, time.UTC))

	v, err := d.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	got, ok := v.(time.Time)
	if !ok {
		t.Fatalf("Value() = %T, want time.Time", v)
	}
	if !got.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Value() = %v, want 2026-03-15 midnight", got)
	}
	if d.GormDataType() != "date" {
		t.Errorf("GormDataType() = %q, want date", d.GormDataType())
	}
}

func TestDate_Before(t *testing.T) {
	yesterday := NewDate(time.Now().AddDate(0, 0, -1))
	today := NewDate(time.Now())

	if !yesterday.Before(today) {
		t.Error("yesterday.Before(today) = false")
	}
	if today.Before(today) {
		t.Error("today.Before(today) = true")
	}

	// A scanned row may carry a time of day; it is still the same day.
	var evening Date
	if err := evening.Scan(time.Now().Truncate(24 * time.Hour).Add(20 * time.Hour)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if NewDate(evening.Time()).Before(evening) || evening.Before(NewDate(evening.Time())) {
		t.Error("Before() compared times of day, not calendar days")
	}
}

func TestBD_ApplyDefaults(t *testing.T) {
	b := BD{Phone: "0123456789"}
	b.ApplyDefaults()

	if b.Phone != "0123456789" {
		t.Errorf("Phone = %q, want untouched", b.Phone)
	}
	if b.Location != NotAvailable || b.Education != NotAvailable {
		t.Errorf("Location/Education = %q/%q, want N/A", b.Location, b.Education)
	}
	if b.Experience != ExperienceZeroToOne {
		t.Errorf("Experience = %q, want %q", b.Experience, ExperienceZeroToOne)
	}
	if b.Availability != AvailabilityFullTime {
		t.Errorf("Availability = %q, want %q", b.Availability, AvailabilityFullTime)
	}
}
