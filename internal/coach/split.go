package coach

import (
	"sort"
	"strings"
)

// muscleGroupKeywords maps name fragments to the coarse muscle-group
// classification. Longer keywords are matched first so that e.g. "leg curl"
// classifies as legs before the generic "curl" classifies as pull.
//
//nolint:gochecknoglobals // immutable lookup table.
var muscleGroupKeywords = map[string]MuscleGroup{
	"bench press":           GroupPush,
	"bench":                 GroupPush,
	"chest press":           GroupPush,
	"overhead press":        GroupPush,
	"shoulder press":        GroupPush,
	"military press":        GroupPush,
	"push press":            GroupPush,
	"push-up":               GroupPush,
	"push up":               GroupPush,
	"dip":                   GroupPush,
	"tricep":                GroupPush,
	"pushdown":              GroupPush,
	"skull crusher":         GroupPush,
	"lateral raise":         GroupPush,
	"front raise":           GroupPush,
	"fly":                   GroupPush,
	"pec deck":              GroupPush,
	"row":                   GroupPull,
	"pull-up":               GroupPull,
	"pull up":               GroupPull,
	"pullup":                GroupPull,
	"chin-up":               GroupPull,
	"chin up":               GroupPull,
	"chinup":                GroupPull,
	"pulldown":              GroupPull,
	"curl":                  GroupPull,
	"face pull":             GroupPull,
	"shrug":                 GroupPull,
	"rear delt":             GroupPull,
	"squat":                 GroupLegs,
	"deadlift":              GroupLegs,
	"romanian deadlift":     GroupLegs,
	"leg press":             GroupLegs,
	"leg curl":              GroupLegs,
	"leg extension":         GroupLegs,
	"lunge":                 GroupLegs,
	"hip thrust":            GroupLegs,
	"glute bridge":          GroupLegs,
	"calf raise":            GroupLegs,
	"hamstring":             GroupLegs,
	"good morning":          GroupLegs,
	"bulgarian split squat": GroupLegs,
}

//nolint:gochecknoglobals // keywords ordered longest-first for matching.
var orderedMuscleGroupKeywords = func() []string {
	keywords := make([]string, 0, len(muscleGroupKeywords))
	for keyword := range muscleGroupKeywords {
		keywords = append(keywords, keyword)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
	return keywords
}()

// classifyMuscleGroup maps an exercise name to push, pull, legs or full_body.
// Unrecognized names classify as full_body.
func classifyMuscleGroup(exerciseName string) MuscleGroup {
	normalized := normalizeExerciseName(exerciseName)
	for _, keyword := range orderedMuscleGroupKeywords {
		if strings.Contains(normalized, keyword) {
			return muscleGroupKeywords[keyword]
		}
	}
	return GroupFullBody
}

// plannedGoal bundles a goal with the catalog data plan building needs.
type plannedGoal struct {
	goal         Goal
	exerciseName string
	group        MuscleGroup
}

// selectSplit picks the weekly training-split strategy for a set of active
// goals. First matching rule wins.
func selectSplit(goals []plannedGoal) SplitType {
	if len(goals) == 1 {
		return SplitSingleFocus
	}

	var hasPush, hasPull, hasLegs, hasFullBody bool
	firstGroup := goals[0].group
	sameGroup := true
	for _, pg := range goals {
		if pg.group != firstGroup {
			sameGroup = false
		}
		switch pg.group {
		case GroupPush:
			hasPush = true
		case GroupPull:
			hasPull = true
		case GroupLegs:
			hasLegs = true
		case GroupFullBody:
			hasFullBody = true
		}
	}

	switch {
	case sameGroup:
		return SplitSameGroup
	case hasPush && hasPull && hasLegs:
		return SplitPPL
	case (hasPush || hasPull) && !hasLegs && !hasFullBody:
		return SplitUpperLower
	case hasLegs && !hasPush && !hasPull && !hasFullBody:
		return SplitUpperLower
	case len(goals) >= 4: //nolint:mnd // four or more goals need full weekly coverage.
		return SplitPPL
	default:
		return SplitFullBody
	}
}
