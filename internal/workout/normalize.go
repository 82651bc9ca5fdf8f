package workout

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Block is one row of the flat, UI-authored workout builder list. Numeric
// fields arrive as either JSON numbers or strings depending on the client,
// so they are held loosely and coerced during normalization.
type Block struct {
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	Duration      any     `json:"duration"`
	DurationUnit  string  `json:"durationUnit"`
	Distance      any     `json:"distance"`
	DistanceUnit  string  `json:"distanceUnit"`
	IntervalType  string  `json:"intervalType"`
	Repetitions   any     `json:"repetitions"`
	Intensity     any     `json:"intensity"`
	IntensityUnit string  `json:"intensityUnit"`
	Children      []Block `json:"children"`
}

// NormalizeBlocks converts an ordered list of UI blocks into the canonical
// nested Structure. Blocks with missing or non-positive magnitudes contribute
// nothing; warmup and cooldown are single slots where the last occurrence
// wins; unknown block types are ignored. The output always passes Validate
// and ValidateAll.
func NormalizeBlocks(blocks []Block) Structure {
	var out Structure
	var intervals []Interval
	var rests []Phase

	for _, block := range blocks {
		blockType := strings.ToLower(strings.TrimSpace(block.Type))
		name := blockName(block.Name, blockType)

		switch blockType {
		case "warmup", "cooldown":
			duration, ok := positiveNumber(block.Duration)
			if !ok {
				continue
			}
			unit := MapDurationUnit(block.DurationUnit)
			if unit == "" {
				unit = UnitMinutes
			}
			phase := &Phase{Name: name, Duration: &duration, Unit: unit}
			if blockType == "warmup" {
				out.Warmup = phase
			} else {
				out.Cooldown = phase
			}

		case "interval":
			if len(block.Children) > 0 {
				if iv, ok := normalizeRepeatSet(name, block); ok {
					intervals = append(intervals, iv)
				}
			} else if iv, ok := normalizeSimpleInterval(name, block); ok {
				intervals = append(intervals, iv)
			}

		case "rest":
			duration, ok := positiveNumber(block.Duration)
			if !ok {
				continue
			}
			unit := MapDurationUnit(block.DurationUnit)
			if unit == "" {
				unit = UnitMinutes
			}
			rests = append(rests, Phase{Name: name, Duration: &duration, Unit: unit})
		}
	}

	if len(intervals) > 0 {
		out.Intervals = intervals
	}
	if len(rests) > 0 {
		out.RestPeriods = rests
	}
	return out
}

// normalizeSimpleInterval builds a simple interval payload. The magnitude is
// read from duration first, falling back to distance; which unit table
// applies is decided by the interval type.
func normalizeSimpleInterval(name string, block Block) (Interval, bool) {
	intervalType := strings.TrimSpace(block.IntervalType)
	if intervalType == "" {
		intervalType = IntervalTime
	}

	value, ok := positiveNumber(block.Duration)
	if !ok {
		value, ok = positiveNumber(block.Distance)
	}
	if !ok {
		return Interval{}, false
	}

	var unit string
	if intervalType == IntervalTime {
		unit = MapDurationUnit(block.DurationUnit)
		if unit == "" {
			unit = UnitMinutes
		}
	} else {
		unit = MapDistanceUnit(block.DistanceUnit)
		if unit == "" {
			unit = UnitMeters
		}
	}

	reps := positiveInt(block.Repetitions, 1)
	return Interval{
		Name:               name,
		Type:               intervalType,
		DurationOrDistance: &value,
		Unit:               unit,
		Repetitions:        &reps,
	}, true
}

// normalizeRepeatSet assembles a complex interval from a block's children.
// Each qualifying child interval opens a new sub-interval as its work phase;
// a child rest attaches to the most recently opened sub-interval and is
// dropped silently when none exists yet. The parent's type, magnitude, and
// unit never carry through.
func normalizeRepeatSet(name string, block Block) (Interval, bool) {
	var subs []SubInterval

	for _, child := range block.Children {
		switch strings.ToLower(strings.TrimSpace(child.Type)) {
		case "interval":
			childType := strings.TrimSpace(child.IntervalType)
			if childType == "" {
				childType = IntervalTime
			}
			var raw any
			if childType == IntervalDistance {
				raw = child.Distance
			} else {
				raw = child.Duration
			}
			value, ok := positiveNumber(raw)
			if !ok {
				continue
			}

			var unit string
			if childType == IntervalTime {
				unit = MapDurationUnit(child.DurationUnit)
				if unit == "" {
					unit = UnitMinutes
				}
			} else {
				unit = MapDistanceUnit(child.DistanceUnit)
				if unit == "" {
					unit = UnitMeters
				}
			}

			work := &WorkPhase{
				Name:               blockName(child.Name, "work"),
				Type:               childType,
				DurationOrDistance: &value,
				Unit:               unit,
			}
			// Only in-range intensities and recognized zone types are
			// copied through, so normalizer output always validates.
			if intensity, ok := numericValue(child.Intensity); ok && intensity >= 0 && intensity <= 100 {
				work.Intensity = &intensity
				if zone := MapIntensityUnit(child.IntensityUnit); isZoneType(zone) {
					work.ZoneType = zone
				}
			}
			subs = append(subs, SubInterval{Work: work})

		case "rest":
			duration, ok := positiveNumber(child.Duration)
			if !ok || len(subs) == 0 {
				continue
			}
			unit := MapDurationUnit(child.DurationUnit)
			if unit == "" {
				unit = UnitSeconds
			}
			subs[len(subs)-1].Rest = &RestPhase{
				Name:     blockName(child.Name, "rest"),
				Duration: &duration,
				Unit:     unit,
			}
		}
	}

	if len(subs) == 0 {
		return Interval{}, false
	}
	reps := positiveInt(block.Repetitions, 1)
	return Interval{Name: name, Repetitions: &reps, SubIntervals: subs}, true
}

func blockName(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	if fallback != "" {
		return titleCase(fallback)
	}
	return "Segment"
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// numericValue coerces a loosely typed JSON value to a float64. Empty
// strings, "null", and unparsable values report ok=false.
func numericValue(v any) (float64, bool) {
	switch value := v.(type) {
	case nil:
		return 0, false
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || trimmed == "null" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func positiveNumber(v any) (float64, bool) {
	f, ok := numericValue(v)
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}

func positiveInt(v any, def int) int {
	f, ok := numericValue(v)
	if !ok {
		return def
	}
	n := int(f)
	if n <= 0 {
		return def
	}
	return n
}
