// Package workout defines the canonical nested workout structure attached to
// training sessions, plus the parsing, normalization, and validation pipeline
// that produces and checks it.
package workout

// Unit values accepted by the schema. Time units and distance units are
// disjoint sets used for type-consistency checks.
const (
	UnitSeconds    = "seconds"
	UnitMinutes    = "minutes"
	UnitHours      = "hours"
	UnitMeters     = "meters"
	UnitKilometers = "kilometers"
)

// Interval type discriminators.
const (
	IntervalTime     = "time"
	IntervalDistance = "distance"
)

// Zone types describe the metric basis for an intensity percentage.
const (
	ZoneHR  = "HR"  // heart rate
	ZoneMAS = "MAS" // maximum aerobic speed
	ZoneFPP = "FPP" // functional power profile
	ZoneCSS = "CSS" // critical swim speed
)

var (
	TimeUnits     = []string{UnitSeconds, UnitMinutes, UnitHours}
	DistanceUnits = []string{UnitMeters, UnitKilometers}
	ZoneTypes     = []string{ZoneHR, ZoneMAS, ZoneFPP, ZoneCSS}
)

// Structure is the persisted training_data payload. All four members are
// optional; interval and rest ordering is meaningful (session order).
// Field names are the wire format and must stay stable for historical records.
type Structure struct {
	Warmup      *Phase     `json:"warmup,omitempty" bson:"warmup,omitempty"`
	Cooldown    *Phase     `json:"cooldown,omitempty" bson:"cooldown,omitempty"`
	Intervals   []Interval `json:"intervals,omitempty" bson:"intervals,omitempty"`
	RestPeriods []Phase    `json:"rest_periods,omitempty" bson:"rest_periods,omitempty"`
}

// IsZero reports whether the structure carries no workout content at all.
func (s Structure) IsZero() bool {
	return s.Warmup == nil && s.Cooldown == nil && len(s.Intervals) == 0 && len(s.RestPeriods) == 0
}

// Phase is a named segment: warmup, cooldown, or a standalone rest period.
// Duration and Unit must be present together; absence of a numeric field is
// represented by a nil pointer, absence of a string field by "".
type Phase struct {
	Name      string   `json:"name" bson:"name"`
	Duration  *float64 `json:"duration,omitempty" bson:"duration,omitempty"`
	Unit      string   `json:"unit,omitempty" bson:"unit,omitempty"`
	ZoneType  string   `json:"zone_type,omitempty" bson:"zone_type,omitempty"`
	Intensity *float64 `json:"intensity,omitempty" bson:"intensity,omitempty"`
}

// Interval is a tagged variant discriminated by SubIntervals: a nil slice
// means a simple timed/distance interval and requires Type,
// DurationOrDistance, and Unit; a non-nil slice means a "repeat set" and
// forbids all three of those fields.
type Interval struct {
	Name               string        `json:"name" bson:"name"`
	Type               string        `json:"type,omitempty" bson:"type,omitempty"`
	DurationOrDistance *float64      `json:"duration_or_distance,omitempty" bson:"duration_or_distance,omitempty"`
	Unit               string        `json:"unit,omitempty" bson:"unit,omitempty"`
	Repetitions        *int          `json:"repetitions,omitempty" bson:"repetitions,omitempty"`
	ZoneType           string        `json:"zone_type,omitempty" bson:"zone_type,omitempty"`
	Intensity          *float64      `json:"intensity,omitempty" bson:"intensity,omitempty"`
	SubIntervals       []SubInterval `json:"sub_intervals,omitempty" bson:"sub_intervals,omitempty"`
}

// IsRepeatSet reports whether the interval carries sub-intervals. An empty
// but non-nil slice still counts as carrying the field; the validator rejects
// that case explicitly.
func (iv Interval) IsRepeatSet() bool {
	return iv.SubIntervals != nil
}

// SubInterval is one work+rest pair nested inside a repeat set. Both members
// are optional; the schema deliberately does not enforce that at least one is
// present.
type SubInterval struct {
	Work *WorkPhase `json:"work,omitempty" bson:"work,omitempty"`
	Rest *RestPhase `json:"rest,omitempty" bson:"rest,omitempty"`
}

// WorkPhase is the effort portion of a sub-interval.
type WorkPhase struct {
	Name               string   `json:"name" bson:"name"`
	Type               string   `json:"type" bson:"type"`
	DurationOrDistance *float64 `json:"duration_or_distance" bson:"duration_or_distance"`
	Unit               string   `json:"unit" bson:"unit"`
	ZoneType           string   `json:"zone_type,omitempty" bson:"zone_type,omitempty"`
	Intensity          *float64 `json:"intensity,omitempty" bson:"intensity,omitempty"`
}

// RestPhase is the recovery portion of a sub-interval.
type RestPhase struct {
	Name     string   `json:"name" bson:"name"`
	Duration *float64 `json:"duration" bson:"duration"`
	Unit     string   `json:"unit" bson:"unit"`
}

func isTimeUnit(unit string) bool {
	return unit == UnitSeconds || unit == UnitMinutes || unit == UnitHours
}

func isDistanceUnit(unit string) bool {
	return unit == UnitMeters || unit == UnitKilometers
}

func isKnownUnit(unit string) bool {
	return isTimeUnit(unit) || isDistanceUnit(unit)
}

func isZoneType(zone string) bool {
	for _, z := range ZoneTypes {
		if zone == z {
			return true
		}
	}
	return false
}
