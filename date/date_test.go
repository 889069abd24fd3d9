package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	got := New(2024, 12, 32)
	if want := New(2025, 1, 1); got != want {
		t.Errorf("New(2024, 12, 32) = %v want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, 7, 1), false},
		{"2025-7-1", New(2025, 7, 1), false},
		{"01/07/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMonday(t *testing.T) {
	testCases := []struct {
		in, want Date
	}{
		{New(2024, 1, 1), New(2024, 1, 1)}, // a Monday
		{New(2024, 1, 3), New(2024, 1, 1)},
		{New(2024, 1, 7), New(2024, 1, 1)}, // Sunday
		{New(2024, 1, 8), New(2024, 1, 8)},
	}
	for _, tc := range testCases {
		if got := tc.in.Monday(); got != tc.want {
			t.Errorf("%v.Monday() = %v want %v", tc.in, got, tc.want)
		}
		if got := tc.in.Monday().Weekday(); got != time.Monday {
			t.Errorf("%v.Monday().Weekday() = %v", tc.in, got)
		}
	}
}

func TestJSON(t *testing.T) {
	d := New(2023, 2, 5)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `"2023-02-05"` {
		t.Errorf("json.Marshal() = %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if back != d {
		t.Errorf("json.Unmarshal() = %v want %v", back, d)
	}
}

func TestRange(t *testing.T) {
	r, err := ParseRange("2024-01-03", "2024-01-22")
	if err != nil {
		t.Fatalf("ParseRange() error = %v", err)
	}
	if !r.Contains(New(2024, 1, 3)) || !r.Contains(New(2024, 1, 22)) {
		t.Errorf("Range %v must contain its boundaries", r)
	}
	if r.Contains(New(2024, 1, 23)) {
		t.Errorf("Range %v must not contain 2024-01-23", r)
	}

	if _, err := ParseRange("2024-02-01", "2024-01-01"); err == nil {
		t.Error("ParseRange() with end before start must fail")
	}
}
