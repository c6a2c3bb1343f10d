package coach

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	heavySets        = 4
	heavyReps        = 5
	pplReps          = 6
	moderateReps     = 8
	volumeReps       = 10
	supportSets      = 2
	accessoryDaySets = 3
)

// dayTemplate is a planned workout day before it is persisted. IDs are
// assigned on insert.
type dayTemplate struct {
	dayNumber     int
	focus         string
	primaryLift   *string
	prescriptions []Prescription
}

// planner assembles the week's workout days for a chosen training split.
type planner struct {
	catalog Catalog
}

// buildPlan selects a split for the goals and produces the day templates.
func (p planner) buildPlan(ctx context.Context, goals []plannedGoal, now time.Time) (SplitType, []dayTemplate, error) {
	split := selectSplit(goals)

	var (
		days []dayTemplate
		err  error
	)
	switch split {
	case SplitSingleFocus:
		days, err = p.buildSingleFocus(ctx, goals[0], now)
	case SplitSameGroup:
		days, err = p.buildSameGroup(ctx, goals, now)
	case SplitPPL:
		days, err = p.buildPPL(ctx, goals, now)
	case SplitUpperLower:
		days, err = p.buildUpperLower(ctx, goals, now)
	case SplitFullBody:
		days, err = p.buildFullBody(ctx, goals, now)
	default:
		return split, nil, fmt.Errorf("unknown training split %q", split)
	}
	if err != nil {
		return split, nil, err
	}
	return split, days, nil
}

// goalPrescription builds the prescription for one goal lift at the given
// rep scheme.
func goalPrescription(pg plannedGoal, orderIndex, sets, reps int, now time.Time) Prescription {
	return Prescription{
		ExerciseID: pg.goal.ExerciseID,
		OrderIndex: orderIndex,
		Sets:       sets,
		Reps:       reps,
		Weight:     prescribedWeight(pg.goal, reps, now),
		WeightUnit: pg.goal.WeightUnit,
		Notes:      intensityNote(reps),
	}
}

// accessoryPrescriptions resolves up to limit accessory movements for a
// muscle group against the catalog. Accessories whose names are missing from
// the catalog are skipped. Weights scale off base, the primary lift's
// prescribed weight for the day, and are nil when no base is known.
func (p planner) accessoryPrescriptions(
	ctx context.Context,
	group MuscleGroup,
	volume bool,
	limit int,
	base *float64,
	unit WeightUnit,
	startIndex int,
) ([]Prescription, error) {
	var out []Prescription
	orderIndex := startIndex
	for _, tmpl := range accessoriesFor(group, volume) {
		if len(out) == limit {
			break
		}
		exercise, found, err := p.catalog.FindByName(ctx, tmpl.name)
		if err != nil {
			return nil, fmt.Errorf("find accessory exercise: %w", err)
		}
		if !found {
			continue
		}
		var weight *float64
		if base != nil {
			rounded := roundToIncrement(*base*tmpl.weightFraction, unit.roundingIncrement())
			if rounded > 0 {
				weight = &rounded
			}
		}
		out = append(out, Prescription{
			ExerciseID: exercise.ID,
			OrderIndex: orderIndex,
			Sets:       tmpl.sets,
			Reps:       tmpl.reps,
			Weight:     weight,
			WeightUnit: unit,
			Notes:      fmt.Sprintf("accessory at ~%d%% of primary lift", int(tmpl.weightFraction*100+0.5)),
		})
		orderIndex++
	}
	return out, nil
}

// buildSingleFocus plans three days around the lone goal lift: a heavy day,
// a moderate accessory day and a volume day.
func (p planner) buildSingleFocus(ctx context.Context, pg plannedGoal, now time.Time) ([]dayTemplate, error) {
	type daySpec struct {
		focus  string
		sets   int
		reps   int
		volume bool
		limit  int
	}
	specs := []daySpec{
		{focus: "Heavy", sets: heavySets, reps: heavyReps, volume: false, limit: 3},
		{focus: "Accessory", sets: accessoryDaySets, reps: moderateReps, volume: false, limit: 4},
		{focus: "Volume", sets: accessoryDaySets, reps: volumeReps, volume: true, limit: 3},
	}

	days := make([]dayTemplate, 0, len(specs))
	for i, spec := range specs {
		primary := goalPrescription(pg, 0, spec.sets, spec.reps, now)
		accessories, err := p.accessoryPrescriptions(ctx, pg.group, spec.volume, spec.limit, primary.Weight, pg.goal.WeightUnit, 1)
		if err != nil {
			return nil, err
		}
		name := pg.exerciseName
		days = append(days, dayTemplate{
			dayNumber:     i + 1,
			focus:         spec.focus,
			primaryLift:   &name,
			prescriptions: append([]Prescription{primary}, accessories...),
		})
	}
	return days, nil
}

// buildSameGroup alternates which goal lift leads. The two alphabetically
// first lifts each get a heavy day with the rest as support work, then a
// shared volume day closes the week.
func (p planner) buildSameGroup(_ context.Context, goals []plannedGoal, now time.Time) ([]dayTemplate, error) {
	ordered := make([]plannedGoal, len(goals))
	copy(ordered, goals)
	sort.Slice(ordered, func(i, j int) bool {
		a := strings.ToLower(ordered[i].exerciseName)
		b := strings.ToLower(ordered[j].exerciseName)
		if a != b {
			return a < b
		}
		return ordered[i].goal.ID < ordered[j].goal.ID
	})

	leadDay := func(dayNumber int, lead plannedGoal) dayTemplate {
		prescriptions := []Prescription{goalPrescription(lead, 0, heavySets, heavyReps, now)}
		for _, pg := range ordered {
			if pg.goal.ID == lead.goal.ID {
				continue
			}
			prescriptions = append(prescriptions, goalPrescription(pg, len(prescriptions), supportSets, moderateReps, now))
		}
		name := lead.exerciseName
		return dayTemplate{
			dayNumber:     dayNumber,
			focus:         fmt.Sprintf("%s heavy", lead.exerciseName),
			primaryLift:   &name,
			prescriptions: prescriptions,
		}
	}

	volumeDay := dayTemplate{dayNumber: 3, focus: "Volume"}
	for i, pg := range ordered {
		volumeDay.prescriptions = append(volumeDay.prescriptions, goalPrescription(pg, i, accessoryDaySets, volumeReps, now))
	}

	return []dayTemplate{leadDay(1, ordered[0]), leadDay(2, ordered[1]), volumeDay}, nil
}

// pplBuckets partitions goals into push, pull and legs days. Goals that do
// not classify cleanly land in the currently smallest bucket.
func pplBuckets(goals []plannedGoal) map[MuscleGroup][]plannedGoal {
	buckets := map[MuscleGroup][]plannedGoal{}
	var unclassified []plannedGoal
	for _, pg := range goals {
		switch pg.group {
		case GroupPush, GroupPull, GroupLegs:
			buckets[pg.group] = append(buckets[pg.group], pg)
		default:
			unclassified = append(unclassified, pg)
		}
	}
	for _, pg := range unclassified {
		smallest := GroupPush
		for _, group := range []MuscleGroup{GroupPull, GroupLegs} {
			if len(buckets[group]) < len(buckets[smallest]) {
				smallest = group
			}
		}
		buckets[smallest] = append(buckets[smallest], pg)
	}
	return buckets
}

// buildPPL emits one day per non-empty push, pull and legs bucket, numbered
// contiguously from one.
func (p planner) buildPPL(ctx context.Context, goals []plannedGoal, now time.Time) ([]dayTemplate, error) {
	buckets := pplBuckets(goals)
	focusNames := map[MuscleGroup]string{GroupPush: "Push", GroupPull: "Pull", GroupLegs: "Legs"}

	var days []dayTemplate
	for _, group := range []MuscleGroup{GroupPush, GroupPull, GroupLegs} {
		bucket := buckets[group]
		if len(bucket) == 0 {
			continue
		}
		var prescriptions []Prescription
		for i, pg := range bucket {
			prescriptions = append(prescriptions, goalPrescription(pg, i, heavySets, pplReps, now))
		}
		accessories, err := p.accessoryPrescriptions(
			ctx, group, false, 3, prescriptions[0].Weight, bucket[0].goal.WeightUnit, len(prescriptions))
		if err != nil {
			return nil, err
		}
		name := bucket[0].exerciseName
		days = append(days, dayTemplate{
			dayNumber:     len(days) + 1,
			focus:         focusNames[group],
			primaryLift:   &name,
			prescriptions: append(prescriptions, accessories...),
		})
	}
	return days, nil
}

// buildUpperLower plans a heavy upper day, a lower day and an upper volume
// day. One of the halves may carry no goal lifts, in which case its day is
// accessory-only.
func (p planner) buildUpperLower(ctx context.Context, goals []plannedGoal, now time.Time) ([]dayTemplate, error) {
	var upper, lower []plannedGoal
	for _, pg := range goals {
		if pg.group == GroupLegs {
			lower = append(lower, pg)
		} else {
			upper = append(upper, pg)
		}
	}

	upperDay := func(dayNumber int, focus string, sets, reps int, volume bool) (dayTemplate, error) {
		var prescriptions []Prescription
		for i, pg := range upper {
			prescriptions = append(prescriptions, goalPrescription(pg, i, sets, reps, now))
		}
		var base *float64
		unit := UnitPounds
		var primaryLift *string
		if len(upper) > 0 {
			base = prescriptions[0].Weight
			unit = upper[0].goal.WeightUnit
			if !volume {
				name := upper[0].exerciseName
				primaryLift = &name
			}
		}
		for _, group := range []MuscleGroup{GroupPush, GroupPull} {
			accessories, err := p.accessoryPrescriptions(ctx, group, volume, 1, base, unit, len(prescriptions))
			if err != nil {
				return dayTemplate{}, err
			}
			prescriptions = append(prescriptions, accessories...)
		}
		return dayTemplate{dayNumber: dayNumber, focus: focus, primaryLift: primaryLift, prescriptions: prescriptions}, nil
	}

	day1, err := upperDay(1, "Upper heavy", heavySets, heavyReps, false)
	if err != nil {
		return nil, err
	}

	var lowerPrescriptions []Prescription
	for i, pg := range lower {
		lowerPrescriptions = append(lowerPrescriptions, goalPrescription(pg, i, heavySets, heavyReps, now))
	}
	var lowerBase *float64
	lowerUnit := UnitPounds
	var lowerPrimary *string
	if len(lower) > 0 {
		lowerBase = lowerPrescriptions[0].Weight
		lowerUnit = lower[0].goal.WeightUnit
		name := lower[0].exerciseName
		lowerPrimary = &name
	}
	lowerAccessories, err := p.accessoryPrescriptions(ctx, GroupLegs, false, 3, lowerBase, lowerUnit, len(lowerPrescriptions))
	if err != nil {
		return nil, err
	}
	day2 := dayTemplate{
		dayNumber:     2,
		focus:         "Lower",
		primaryLift:   lowerPrimary,
		prescriptions: append(lowerPrescriptions, lowerAccessories...),
	}

	day3, err := upperDay(3, "Upper volume", accessoryDaySets, volumeReps, true)
	if err != nil {
		return nil, err
	}
	return []dayTemplate{day1, day2, day3}, nil
}

// buildFullBody trains every goal lift each day at descending intensity,
// with a small accessory block rotating through the muscle groups.
func (p planner) buildFullBody(ctx context.Context, goals []plannedGoal, now time.Time) ([]dayTemplate, error) {
	type daySpec struct {
		focus  string
		reps   int
		group  MuscleGroup
		volume bool
	}
	specs := []daySpec{
		{focus: "Heavy", reps: heavyReps, group: GroupPush, volume: false},
		{focus: "Moderate", reps: moderateReps, group: GroupPull, volume: false},
		{focus: "Volume", reps: volumeReps, group: GroupLegs, volume: true},
	}

	days := make([]dayTemplate, 0, len(specs))
	for i, spec := range specs {
		var prescriptions []Prescription
		for j, pg := range goals {
			prescriptions = append(prescriptions, goalPrescription(pg, j, accessoryDaySets, spec.reps, now))
		}
		accessories, err := p.accessoryPrescriptions(
			ctx, spec.group, spec.volume, 2, prescriptions[0].Weight, goals[0].goal.WeightUnit, len(prescriptions))
		if err != nil {
			return nil, err
		}
		days = append(days, dayTemplate{
			dayNumber:     i + 1,
			focus:         spec.focus,
			prescriptions: append(prescriptions, accessories...),
		})
	}
	return days, nil
}
