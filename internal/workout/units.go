package workout

import "strings"

var durationUnitMap = map[string]string{
	"sec": UnitSeconds, "secs": UnitSeconds, "second": UnitSeconds, "seconds": UnitSeconds,
	"min": UnitMinutes, "mins": UnitMinutes, "minute": UnitMinutes, "minutes": UnitMinutes,
	"hr": UnitHours, "hrs": UnitHours, "hour": UnitHours, "hours": UnitHours,
}

var distanceUnitMap = map[string]string{
	"m": UnitMeters, "meter": UnitMeters, "meters": UnitMeters,
	"k": UnitKilometers, "km": UnitKilometers, "kilometer": UnitKilometers, "kilometers": UnitKilometers,
}

var intensityUnitMap = map[string]string{
	"heart_rate": ZoneHR,
	"hr":         ZoneHR,
	"mas":        ZoneMAS,
	"fpp":        ZoneFPP,
	"css":        ZoneCSS,
}

var colorHexMap = map[string]string{
	"#ef4444": "red",
	"#3b82f6": "blue",
	"#22c55e": "green",
	"#eab308": "yellow",
	"#8b5cf6": "purple",
	"#f97316": "orange",
}

// MapDurationUnit translates a user-facing duration unit label ("min", "hrs",
// ...) to the canonical unit, or "" when unrecognized.
func MapDurationUnit(label string) string {
	return durationUnitMap[strings.ToLower(strings.TrimSpace(label))]
}

// MapDistanceUnit translates a user-facing distance unit label to the
// canonical unit, or "" when unrecognized.
func MapDistanceUnit(label string) string {
	return distanceUnitMap[strings.ToLower(strings.TrimSpace(label))]
}

// MapIntensityUnit translates a user-facing intensity unit to a zone type.
// Unlike its siblings it echoes the original input when unrecognized; the
// validator is what rejects unknown zone types downstream.
func MapIntensityUnit(label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	if zone, ok := intensityUnitMap[strings.ToLower(strings.TrimSpace(label))]; ok {
		return zone
	}
	return label
}

// MapEventColor translates a hex color string to a named calendar color, or
// "" when the hex value is not one of the six known choices.
func MapEventColor(hex string) string {
	return colorHexMap[strings.ToLower(strings.TrimSpace(hex))]
}
