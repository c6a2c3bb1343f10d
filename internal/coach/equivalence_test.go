package coach

import (
	"slices"
	"testing"
)

func TestAreEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "same class variants", a: "Incline Bench Press", b: "bench press", want: true},
		{name: "pulldown counts as pullup work", a: "Lat Pulldown", b: "chin-up", want: true},
		{name: "different classes", a: "squat", b: "bench press", want: false},
		{name: "substring fallback", a: "paused bench press", b: "bench press", want: true},
		{name: "identical unknown names", a: "sled push", b: "Sled Push", want: true},
		{name: "unrelated unknown names", a: "sled push", b: "farmer carry", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreEquivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("AreEquivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Equivalence is symmetric.
			if got := AreEquivalent(tt.b, tt.a); got != tt.want {
				t.Errorf("AreEquivalent(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCanonicalClass(t *testing.T) {
	class, ok := CanonicalClass("  Romanian Deadlift ")
	if !ok || class != "romanian_deadlift" {
		t.Errorf("CanonicalClass() = %q, %v", class, ok)
	}
	if _, ok = CanonicalClass("sled push"); ok {
		t.Error("CanonicalClass() resolved an unknown movement")
	}
}

func TestEquivalentNames(t *testing.T) {
	names := EquivalentNames("Front Squat")
	if !slices.Contains(names, "back squat") {
		t.Errorf("EquivalentNames() = %v, missing back squat", names)
	}

	names = EquivalentNames("Sled Push")
	if len(names) != 1 || names[0] != "sled push" {
		t.Errorf("EquivalentNames() = %v, want singleton", names)
	}
}
