package workout

import (
	"fmt"
	"strings"
)

// SchemaError reports one or more violations of the workout schema. Each
// violation message is qualified with the path of the offending entity, e.g.
// "intervals[2].sub_intervals[0].work type must be one of: time, distance".
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0]
	}
	return "training data validation errors: " + strings.Join(e.Violations, "; ")
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Violations: []string{fmt.Sprintf(format, args...)}}
}

// Intensity percentage bounds. The two validation modes deliberately
// disagree here; see the mode docs.
const (
	maxIntensityStrict = 100
	maxIntensityLoose  = 150
)

var (
	allUnits      = strings.Join(append(append([]string{}, TimeUnits...), DistanceUnits...), ", ")
	timeUnitList  = strings.Join(TimeUnits, ", ")
	distUnitList  = strings.Join(DistanceUnits, ", ")
	zoneTypeList  = strings.Join(ZoneTypes, ", ")
	intervalTypes = IntervalTime + ", " + IntervalDistance
)

// Validate checks a Structure against the schema invariants and fails fast
// with the first violation found. This is the persistence-path mode: phase
// duration/unit are only mutually required, and intensity may range up to
// 150. Returns nil or a *SchemaError with exactly one violation.
func Validate(s Structure) error {
	if s.Warmup != nil {
		if err := validatePhase(*s.Warmup, "warmup"); err != nil {
			return err
		}
	}
	for i, interval := range s.Intervals {
		if err := validateInterval(interval, fmt.Sprintf("intervals[%d]", i)); err != nil {
			return err
		}
	}
	for i, rest := range s.RestPeriods {
		if err := validatePhase(rest, fmt.Sprintf("rest_periods[%d]", i)); err != nil {
			return err
		}
	}
	if s.Cooldown != nil {
		if err := validatePhase(*s.Cooldown, "cooldown"); err != nil {
			return err
		}
	}
	return nil
}

func validatePhase(phase Phase, path string) error {
	if phase.Name == "" {
		return schemaErrorf("%s must have name", path)
	}
	if phase.Duration != nil && phase.Unit == "" {
		return schemaErrorf("%s must have unit when duration is specified", path)
	}
	if phase.Unit != "" && phase.Duration == nil {
		return schemaErrorf("%s must have duration when unit is specified", path)
	}
	if phase.Unit != "" && !isKnownUnit(phase.Unit) {
		return schemaErrorf("%s unit must be one of: %s", path, allUnits)
	}
	if phase.ZoneType != "" && !isZoneType(phase.ZoneType) {
		return schemaErrorf("%s zone_type must be one of: %s", path, zoneTypeList)
	}
	if phase.Intensity != nil {
		if v := *phase.Intensity; v < 0 || v > maxIntensityLoose {
			return schemaErrorf("%s intensity must be between 0 and %d percent", path, maxIntensityLoose)
		}
	}
	return nil
}

func validateInterval(iv Interval, path string) error {
	if iv.Name == "" {
		return schemaErrorf("%s must have name", path)
	}

	if iv.IsRepeatSet() {
		if len(iv.SubIntervals) == 0 {
			return schemaErrorf("%s has sub_intervals but the array is empty; either add work/rest phases to sub_intervals or remove the field to create a simple interval", path)
		}
		if iv.Repetitions == nil {
			return schemaErrorf("%s must have repetitions when sub_intervals are specified", path)
		}
		if *iv.Repetitions <= 0 {
			return schemaErrorf("%s repetitions must be a positive integer (got: %d)", path, *iv.Repetitions)
		}

		// A repeat set must not carry simple-interval fields; all offenders
		// are reported together.
		var forbidden []string
		if iv.Type != "" {
			forbidden = append(forbidden, "type")
		}
		if iv.DurationOrDistance != nil {
			forbidden = append(forbidden, "duration_or_distance")
		}
		if iv.Unit != "" {
			forbidden = append(forbidden, "unit")
		}
		if len(forbidden) > 0 {
			return schemaErrorf("%s has sub_intervals but also contains parent-level fields: %s; only name, repetitions, and sub_intervals should be present",
				path, strings.Join(forbidden, ", "))
		}

		for i, sub := range iv.SubIntervals {
			if err := validateSubInterval(sub, fmt.Sprintf("%s.sub_intervals[%d]", path, i)); err != nil {
				return err
			}
		}
	} else {
		if iv.Type == "" {
			return schemaErrorf("%s must have type when sub_intervals are not specified", path)
		}
		if iv.DurationOrDistance == nil {
			return schemaErrorf("%s must have duration_or_distance when sub_intervals are not specified", path)
		}
		if iv.Unit == "" {
			return schemaErrorf("%s must have unit when sub_intervals are not specified", path)
		}
		if !isKnownUnit(iv.Unit) {
			return schemaErrorf("%s unit must be one of: %s", path, allUnits)
		}
		if iv.Type == IntervalTime && !isTimeUnit(iv.Unit) {
			return schemaErrorf("%s with type %q must use time units: %s", path, IntervalTime, timeUnitList)
		}
		if iv.Type == IntervalDistance && !isDistanceUnit(iv.Unit) {
			return schemaErrorf("%s with type %q must use distance units: %s", path, IntervalDistance, distUnitList)
		}
	}

	if iv.ZoneType != "" && !isZoneType(iv.ZoneType) {
		return schemaErrorf("%s zone_type must be one of: %s", path, zoneTypeList)
	}
	if iv.Intensity != nil {
		if v := *iv.Intensity; v < 0 || v > maxIntensityLoose {
			return schemaErrorf("%s intensity must be between 0 and %d percent", path, maxIntensityLoose)
		}
	}
	return nil
}

func validateSubInterval(sub SubInterval, path string) error {
	if sub.Work != nil {
		if err := validateWorkPhase(*sub.Work, path+".work"); err != nil {
			return err
		}
	}
	if sub.Rest != nil {
		if err := validateRestPhase(*sub.Rest, path+".rest"); err != nil {
			return err
		}
	}
	return nil
}

func validateWorkPhase(work WorkPhase, path string) error {
	if work.Name == "" {
		return schemaErrorf("%s must have name", path)
	}
	if work.Type == "" {
		return schemaErrorf("%s must have type", path)
	}
	if work.Type != IntervalTime && work.Type != IntervalDistance {
		return schemaErrorf("%s type must be one of: %s", path, intervalTypes)
	}
	if work.DurationOrDistance == nil {
		return schemaErrorf("%s must have duration_or_distance", path)
	}
	if *work.DurationOrDistance <= 0 {
		return schemaErrorf("%s duration_or_distance must be a positive number", path)
	}
	if work.Unit == "" {
		return schemaErrorf("%s must have unit", path)
	}
	if work.Type == IntervalTime && !isTimeUnit(work.Unit) {
		return schemaErrorf("%s with type %q must use time units: %s", path, IntervalTime, timeUnitList)
	}
	if work.Type == IntervalDistance && !isDistanceUnit(work.Unit) {
		return schemaErrorf("%s with type %q must use distance units: %s", path, IntervalDistance, distUnitList)
	}
	if work.ZoneType != "" && !isZoneType(work.ZoneType) {
		return schemaErrorf("%s zone_type must be one of: %s", path, zoneTypeList)
	}
	if work.Intensity != nil {
		if v := *work.Intensity; v < 0 || v > maxIntensityLoose {
			return schemaErrorf("%s intensity must be between 0 and %d percent", path, maxIntensityLoose)
		}
	}
	return nil
}

func validateRestPhase(rest RestPhase, path string) error {
	if rest.Name == "" {
		return schemaErrorf("%s must have name", path)
	}
	if rest.Duration == nil {
		return schemaErrorf("%s must have duration", path)
	}
	if *rest.Duration <= 0 {
		return schemaErrorf("%s duration must be a positive number", path)
	}
	if rest.Unit == "" {
		return schemaErrorf("%s must have unit", path)
	}
	if !isKnownUnit(rest.Unit) {
		return schemaErrorf("%s unit must be one of: %s", path, allUnits)
	}
	return nil
}

// ValidateAll checks a Structure in the API-write mode: every violation is
// collected into a single combined *SchemaError instead of failing fast.
// This mode additionally requires a duration on warmup/cooldown/rest phases
// and repetitions on simple intervals, and caps intensity at 100. The two
// modes intentionally diverge; call sites pick one, never both.
func ValidateAll(s Structure) error {
	var violations []string

	if s.Warmup != nil {
		violations = append(violations, collectPhase(*s.Warmup, "warmup")...)
	}
	for i, interval := range s.Intervals {
		violations = append(violations, collectInterval(interval, fmt.Sprintf("intervals[%d]", i))...)
	}
	for i, rest := range s.RestPeriods {
		violations = append(violations, collectRest(rest.Name, rest.Duration, rest.Unit, fmt.Sprintf("rest_periods[%d]", i))...)
	}
	if s.Cooldown != nil {
		violations = append(violations, collectPhase(*s.Cooldown, "cooldown")...)
	}

	if len(violations) > 0 {
		return &SchemaError{Violations: violations}
	}
	return nil
}

func collectPhase(phase Phase, path string) []string {
	var errs []string
	if phase.Name == "" {
		errs = append(errs, path+".name is required")
	}
	if phase.Duration == nil {
		errs = append(errs, path+".duration is required")
	} else if *phase.Duration <= 0 {
		errs = append(errs, path+".duration must be a positive number")
	}
	if phase.Unit != "" && !isKnownUnit(phase.Unit) {
		errs = append(errs, fmt.Sprintf("%s.unit must be one of: %s", path, allUnits))
	}
	if phase.ZoneType != "" && !isZoneType(phase.ZoneType) {
		errs = append(errs, fmt.Sprintf("%s.zone_type must be one of: %s", path, zoneTypeList))
	}
	if phase.Intensity != nil {
		if v := *phase.Intensity; v < 0 || v > maxIntensityStrict {
			errs = append(errs, fmt.Sprintf("%s.intensity must be a number between 0 and %d", path, maxIntensityStrict))
		}
	}
	return errs
}

func collectInterval(iv Interval, path string) []string {
	var errs []string
	if iv.Name == "" {
		errs = append(errs, path+".name is required")
	}

	if iv.IsRepeatSet() {
		if len(iv.SubIntervals) == 0 {
			errs = append(errs, path+".sub_intervals array is empty - either add work/rest phases or remove the sub_intervals field")
		}
		if iv.Repetitions == nil {
			errs = append(errs, path+".repetitions is required when sub_intervals are specified")
		} else if *iv.Repetitions <= 0 {
			errs = append(errs, path+".repetitions must be a positive integer")
		}

		var forbidden []string
		if iv.Type != "" {
			forbidden = append(forbidden, "type")
		}
		if iv.DurationOrDistance != nil {
			forbidden = append(forbidden, "duration_or_distance")
		}
		if iv.Unit != "" {
			forbidden = append(forbidden, "unit")
		}
		if len(forbidden) > 0 {
			errs = append(errs, fmt.Sprintf("%s has sub_intervals but also contains parent-level fields: %s; only name, repetitions, and sub_intervals should be present",
				path, strings.Join(forbidden, ", ")))
		}

		for i, sub := range iv.SubIntervals {
			subPath := fmt.Sprintf("%s.sub_intervals[%d]", path, i)
			if sub.Work != nil {
				errs = append(errs, collectWork(*sub.Work, subPath+".work")...)
			}
			if sub.Rest != nil {
				errs = append(errs, collectRest(sub.Rest.Name, sub.Rest.Duration, sub.Rest.Unit, subPath+".rest")...)
			}
		}
	} else {
		if iv.Type == "" {
			errs = append(errs, path+".type is required")
		} else if iv.Type != IntervalTime && iv.Type != IntervalDistance {
			errs = append(errs, fmt.Sprintf("%s.type must be one of: %s", path, intervalTypes))
		}
		if iv.DurationOrDistance == nil {
			errs = append(errs, path+".duration_or_distance is required")
		} else if *iv.DurationOrDistance <= 0 {
			errs = append(errs, path+".duration_or_distance must be a positive number")
		}
		if iv.Unit == "" {
			errs = append(errs, path+".unit is required")
		} else {
			if !isKnownUnit(iv.Unit) {
				errs = append(errs, fmt.Sprintf("%s.unit must be one of: %s", path, allUnits))
			} else if iv.Type == IntervalTime && !isTimeUnit(iv.Unit) {
				errs = append(errs, fmt.Sprintf("%s.unit must be a time unit (%s) for type %q", path, timeUnitList, IntervalTime))
			} else if iv.Type == IntervalDistance && !isDistanceUnit(iv.Unit) {
				errs = append(errs, fmt.Sprintf("%s.unit must be a distance unit (%s) for type %q", path, distUnitList, IntervalDistance))
			}
		}
		if iv.Repetitions == nil {
			errs = append(errs, path+".repetitions is required")
		} else if *iv.Repetitions <= 0 {
			errs = append(errs, path+".repetitions must be a positive integer")
		}
	}
	return errs
}

func collectWork(work WorkPhase, path string) []string {
	var errs []string
	if work.Name == "" {
		errs = append(errs, path+".name is required")
	}
	if work.Type == "" {
		errs = append(errs, path+".type is required")
	} else if work.Type != IntervalTime && work.Type != IntervalDistance {
		errs = append(errs, fmt.Sprintf("%s.type must be one of: %s", path, intervalTypes))
	}
	if work.DurationOrDistance == nil {
		errs = append(errs, path+".duration_or_distance is required")
	} else if *work.DurationOrDistance <= 0 {
		errs = append(errs, path+".duration_or_distance must be a positive number")
	}
	if work.Intensity != nil {
		if v := *work.Intensity; v < 0 || v > maxIntensityStrict {
			errs = append(errs, fmt.Sprintf("%s.intensity must be a number between 0 and %d", path, maxIntensityStrict))
		}
	}
	return errs
}

func collectRest(name string, duration *float64, unit, path string) []string {
	var errs []string
	if name == "" {
		errs = append(errs, path+".name is required")
	}
	if duration == nil {
		errs = append(errs, path+".duration is required")
	} else if *duration <= 0 {
		errs = append(errs, path+".duration must be a positive number")
	}
	if unit != "" && !isKnownUnit(unit) {
		errs = append(errs, fmt.Sprintf("%s.unit must be one of: %s", path, allUnits))
	}
	return errs
}
