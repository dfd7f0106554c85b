package domain

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-06-10", Date("2024-06-10"), false},
		{"2024-02-29", Date("2024-02-29"), false},
		{"2023-02-29", "", true},
		{"10-06-2024", "", true},
		{"2024-6-1", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateAddDays(t *testing.T) {
	d := Date("2024-06-10")
	if got := d.AddDays(7); got != Date("2024-06-17") {
		t.Errorf("AddDays(7) = %q, want 2024-06-17", got)
	}
	if got := d.AddDays(-7); got != Date("2024-06-03") {
		t.Errorf("AddDays(-7) = %q, want 2024-06-03", got)
	}
	// Month boundary.
	if got := Date("2024-06-28").AddDays(5); got != Date("2024-07-03") {
		t.Errorf("AddDays over month boundary = %q, want 2024-07-03", got)
	}
}

func TestDateStartOfWeek(t *testing.T) {
	tests := []struct {
		in   Date
		want Date
	}{
		{"2024-06-10", "2024-06-10"}, // Monday anchors itself
		{"2024-06-12", "2024-06-10"}, // Wednesday
		{"2024-06-16", "2024-06-10"}, // Sunday belongs to the preceding Monday
		{"2024-06-17", "2024-06-17"}, // next Monday
	}
	for _, tt := range tests {
		if got := tt.in.StartOfWeek(); got != tt.want {
			t.Errorf("StartOfWeek(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateWithinRange(t *testing.T) {
	start, end := Date("2024-06-01"), Date("2024-06-30")
	if !Date("2024-06-10").WithinRange(start, end) {
		t.Error("2024-06-10 should be within June")
	}
	if !start.WithinRange(start, end) || !end.WithinRange(start, end) {
		t.Error("range bounds are inclusive")
	}
	if Date("2024-05-31").WithinRange(start, end) {
		t.Error("2024-05-31 should be outside June")
	}
	if Date("2024-07-01").WithinRange(start, end) {
		t.Error("2024-07-01 should be outside June")
	}
}
