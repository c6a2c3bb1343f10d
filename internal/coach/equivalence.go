package coach

import (
	"context"
	"fmt"
	"strings"
)

// MovementClass is a canonical exercise category. Two differently-named
// exercises in the same class count as the same lift for progress crediting.
type MovementClass string

// Canonical movement classes and their known name variants. The table is
// read-only after init.
//
//nolint:gochecknoglobals // immutable lookup table initialised at process start.
var movementClassVariants = map[MovementClass][]string{
	"bench_press": {
		"bench press", "barbell bench press", "flat bench press",
		"incline bench press", "decline bench press", "dumbbell bench press",
		"close grip bench press",
	},
	"squat": {
		"squat", "back squat", "front squat", "box squat",
		"high bar squat", "low bar squat", "safety bar squat",
	},
	"deadlift": {
		"deadlift", "conventional deadlift", "sumo deadlift", "trap bar deadlift",
	},
	"romanian_deadlift": {
		"romanian deadlift", "rdl", "stiff leg deadlift",
	},
	"overhead_press": {
		"overhead press", "ohp", "military press", "shoulder press",
		"seated shoulder press", "dumbbell shoulder press", "push press",
	},
	"row": {
		"row", "barbell row", "bent over row", "pendlay row",
		"dumbbell row", "seated cable row", "t-bar row",
	},
	"curl": {
		"curl", "bicep curl", "barbell curl", "dumbbell curl",
		"hammer curl", "ez bar curl", "preacher curl",
	},
	"pullup": {
		"pull-up", "pull up", "pullup", "chin-up", "chin up", "chinup",
		"weighted pull-up", "lat pulldown",
	},
	"tricep_extension": {
		"tricep extension", "overhead tricep extension", "tricep pushdown",
		"cable pushdown", "skull crusher",
	},
	"leg_curl": {
		"leg curl", "lying leg curl", "seated leg curl", "hamstring curl",
	},
	"leg_extension": {
		"leg extension", "seated leg extension",
	},
	"leg_press": {
		"leg press", "45 degree leg press",
	},
	"hip_thrust": {
		"hip thrust", "barbell hip thrust", "glute bridge",
	},
	"lateral_raise": {
		"lateral raise", "side raise", "dumbbell lateral raise", "cable lateral raise",
	},
	"face_pull": {
		"face pull", "cable face pull",
	},
	"calf_raise": {
		"calf raise", "standing calf raise", "seated calf raise",
	},
	"fly": {
		"fly", "chest fly", "dumbbell fly", "cable fly", "pec deck",
	},
	"dip": {
		"dip", "dips", "weighted dip", "chest dip",
	},
	"lunge": {
		"lunge", "walking lunge", "reverse lunge", "bulgarian split squat",
	},
	"shrug": {
		"shrug", "barbell shrug", "dumbbell shrug",
	},
}

//nolint:gochecknoglobals // inverted index over movementClassVariants.
var variantToClass = func() map[string]MovementClass {
	index := make(map[string]MovementClass)
	for class, variants := range movementClassVariants {
		for _, variant := range variants {
			index[variant] = class
		}
	}
	return index
}()

// normalizeExerciseName lower-cases and trims an exercise name for lookups.
func normalizeExerciseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanonicalClass maps an exercise name to its movement class. The boolean
// reports whether the name is a known variant.
func CanonicalClass(name string) (MovementClass, bool) {
	class, ok := variantToClass[normalizeExerciseName(name)]
	return class, ok
}

// EquivalentNames returns every known name variant for the exercise. Unknown
// names return a singleton with the normalized name so the result is always
// usable for lookups.
func EquivalentNames(name string) []string {
	normalized := normalizeExerciseName(name)
	if class, ok := variantToClass[normalized]; ok {
		variants := movementClassVariants[class]
		return append([]string(nil), variants...)
	}
	return []string{normalized}
}

// AreEquivalent reports whether two exercise names count as the same lift.
// When either name is unmapped it falls back to substring containment, which
// is deliberately loose so custom exercises still credit sensibly.
func AreEquivalent(a, b string) bool {
	normalizedA := normalizeExerciseName(a)
	normalizedB := normalizeExerciseName(b)

	classA, okA := variantToClass[normalizedA]
	classB, okB := variantToClass[normalizedB]
	if okA && okB {
		return classA == classB
	}

	return strings.Contains(normalizedA, normalizedB) || strings.Contains(normalizedB, normalizedA)
}

// equivalentExerciseIDs resolves every catalog exercise interchangeable with
// the given one. The original id is always included, even when the exercise
// is unmapped or missing from the catalog.
func equivalentExerciseIDs(ctx context.Context, catalog Catalog, exerciseID int64) ([]int64, error) {
	ids := []int64{exerciseID}

	exercise, err := catalog.ResolveByID(ctx, exerciseID)
	if err != nil {
		// An unresolvable id still credits itself.
		return ids, nil
	}

	matches, err := catalog.FindByNames(ctx, EquivalentNames(exercise.Name))
	if err != nil {
		return nil, fmt.Errorf("find equivalent exercises: %w", err)
	}
	for _, match := range matches {
		if match.ID != exerciseID {
			ids = append(ids, match.ID)
		}
	}
	return ids, nil
}
