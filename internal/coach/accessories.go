package coach

// accessoryTemplate describes one accessory movement slotted into a planned
// day. weightFraction scales off the day's primary-lift prescribed weight.
type accessoryTemplate struct {
	name           string
	sets           int
	reps           int
	weightFraction float64
}

// Heavy-day accessory templates per muscle group.
//
//nolint:gochecknoglobals // immutable lookup table.
var heavyAccessories = map[MuscleGroup][]accessoryTemplate{
	GroupPush: {
		{name: "Close Grip Bench Press", sets: 3, reps: 8, weightFraction: 0.60},
		{name: "Overhead Press", sets: 3, reps: 8, weightFraction: 0.50},
		{name: "Tricep Pushdown", sets: 3, reps: 10, weightFraction: 0.30},
		{name: "Weighted Dip", sets: 3, reps: 8, weightFraction: 0.40},
	},
	GroupPull: {
		{name: "Barbell Row", sets: 3, reps: 8, weightFraction: 0.55},
		{name: "Lat Pulldown", sets: 3, reps: 10, weightFraction: 0.45},
		{name: "Barbell Curl", sets: 3, reps: 10, weightFraction: 0.30},
		{name: "Face Pull", sets: 3, reps: 12, weightFraction: 0.20},
	},
	GroupLegs: {
		{name: "Romanian Deadlift", sets: 3, reps: 8, weightFraction: 0.55},
		{name: "Leg Press", sets: 3, reps: 10, weightFraction: 0.70},
		{name: "Leg Curl", sets: 3, reps: 10, weightFraction: 0.30},
		{name: "Walking Lunge", sets: 3, reps: 10, weightFraction: 0.25},
	},
}

// Volume-day accessory templates: higher reps, lower intensity.
//
//nolint:gochecknoglobals // immutable lookup table.
var volumeAccessories = map[MuscleGroup][]accessoryTemplate{
	GroupPush: {
		{name: "Chest Fly", sets: 3, reps: 12, weightFraction: 0.25},
		{name: "Lateral Raise", sets: 3, reps: 15, weightFraction: 0.15},
		{name: "Tricep Extension", sets: 3, reps: 12, weightFraction: 0.25},
	},
	GroupPull: {
		{name: "Dumbbell Row", sets: 3, reps: 12, weightFraction: 0.30},
		{name: "Hammer Curl", sets: 3, reps: 12, weightFraction: 0.20},
		{name: "Face Pull", sets: 3, reps: 15, weightFraction: 0.15},
	},
	GroupLegs: {
		{name: "Leg Extension", sets: 3, reps: 15, weightFraction: 0.25},
		{name: "Seated Calf Raise", sets: 3, reps: 15, weightFraction: 0.30},
		{name: "Glute Bridge", sets: 3, reps: 12, weightFraction: 0.40},
	},
}

// accessoriesFor returns the templates for a muscle group. Goals classified
// as full body borrow the push templates so single-focus days still get
// supporting movements.
func accessoriesFor(group MuscleGroup, volume bool) []accessoryTemplate {
	table := heavyAccessories
	if volume {
		table = volumeAccessories
	}
	if templates, ok := table[group]; ok {
		return templates
	}
	return table[GroupPush]
}
