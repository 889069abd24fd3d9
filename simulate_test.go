package basket

import (
	"math"
	"testing"
)

func TestSimulate(t *testing.T) {
	m := scenarioMatrix(t)
	values := Simulate(m, map[string]float64{"A": 0.5, "B": 0.5}, 1000)

	want := []float64{1000, 1050, 1076.25, 1087.0125}
	if len(values) != len(want) {
		t.Fatalf("Simulate() = %v want %v", values, want)
	}
	if values[0] != 1000 {
		t.Errorf("Simulate()[0] = %v want exactly 1000", values[0])
	}
	for i := range want {
		if !almostEqual(values[i], want[i], 1e-9) {
			t.Errorf("Simulate()[%d] = %v want %v", i, values[i], want[i])
		}
	}
}

func TestSimulateMissingObservationIsZero(t *testing.T) {
	m := newMatrix(t,
		column{"C", []float64{0, 0.1, math.NaN(), 0.1}},
	)
	values := Simulate(m, map[string]float64{"C": 1}, 100)
	want := []float64{100, 110, 110, 121}
	for i := range want {
		if !almostEqual(values[i], want[i], 1e-9) {
			t.Errorf("Simulate()[%d] = %v want %v", i, values[i], want[i])
		}
	}
}

func TestSimulateIgnoresBaselineRow(t *testing.T) {
	m := newMatrix(t, column{"A", []float64{0.5, 0.1}})
	values := Simulate(m, map[string]float64{"A": 1}, 100)
	if values[0] != 100 || !almostEqual(values[1], 110, 1e-9) {
		t.Errorf("Simulate() = %v want [100 110]", values)
	}
}

func TestSimulateDoesNotMutateInputs(t *testing.T) {
	m := scenarioMatrix(t)
	weights := map[string]float64{"A": 0.25, "E": 0.75}
	before := m.Column("A")
	Simulate(m, weights, 1000)
	after := m.Column("A")
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Simulate() changed A[%d] from %v to %v", i, before[i], after[i])
		}
	}
	if len(weights) != 2 || weights["A"] != 0.25 || weights["E"] != 0.75 {
		t.Errorf("Simulate() changed weights: %v", weights)
	}
}

func TestSimulateEmpty(t *testing.T) {
	m := newMatrix(t)
	if got := Simulate(m, map[string]float64{"A": 1}, 100); len(got) != 0 {
		t.Errorf("Simulate() on an empty matrix = %v want empty", got)
	}
}
