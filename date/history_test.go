package date

import (
	"math"
	"testing"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Appending two values in reverse order keeps the history sorted.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v want [%v %v]", h.days, d2, d1)
	}
	if h.values[0] != v2 || h.values[1] != v1 {
		t.Errorf("history values = %v want [%v %v]", h.values, v2, v1)
	}

	// overwrite
	h.Append(d1, "new")
	if got, _ := h.Get(d1); got != "new" || h.Len() != 2 {
		t.Errorf("Append() on existing day: Get() = %q, Len() = %d", got, h.Len())
	}
}

func TestChanges(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 1), 100)
	h.Append(New(2024, 1, 8), 110)
	h.Append(New(2024, 1, 15), 99)
	h.Append(New(2024, 1, 22), 0)
	h.Append(New(2024, 1, 29), 5)

	changes := h.Changes()
	want := []float64{0, 0.1, -0.1, -1, 0}
	if changes.Len() != len(want) {
		t.Fatalf("Changes().Len() = %d want %d", changes.Len(), len(want))
	}
	i := 0
	for day, got := range changes.Values() {
		if day != h.days[i] {
			t.Errorf("Changes() day[%d] = %v want %v", i, day, h.days[i])
		}
		if math.Abs(got-want[i]) > 1e-12 {
			t.Errorf("Changes() value[%d] = %v want %v", i, got, want[i])
		}
		i++
	}
}

func TestIterate(t *testing.T) {
	a := new(History[float64])
	a.Append(New(2024, 1, 1), 1)
	a.Append(New(2024, 1, 15), 1)
	b := new(History[float64])
	b.Append(New(2024, 1, 8), 1)
	b.Append(New(2024, 1, 15), 1)
	b.Append(New(2024, 1, 22), 1)

	var got []Date
	for d := range Iterate(a, b) {
		got = append(got, d)
	}
	want := []Date{New(2024, 1, 1), New(2024, 1, 8), New(2024, 1, 15), New(2024, 1, 22)}
	if len(got) != len(want) {
		t.Fatalf("Iterate() = %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}
