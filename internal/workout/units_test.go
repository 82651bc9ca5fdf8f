package workout

import "testing"

func TestMapDurationUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "sec", want: UnitSeconds},
		{input: "Seconds", want: UnitSeconds},
		{input: "min", want: UnitMinutes},
		{input: "MINUTES", want: UnitMinutes},
		{input: " hrs ", want: UnitHours},
		{input: "hour", want: UnitHours},
		{input: "fortnight", want: ""},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		if got := MapDurationUnit(tt.input); got != tt.want {
			t.Errorf("MapDurationUnit(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMapDistanceUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "m", want: UnitMeters},
		{input: "Meters", want: UnitMeters},
		{input: "k", want: UnitKilometers},
		{input: "KM", want: UnitKilometers},
		{input: "kilometers", want: UnitKilometers},
		{input: "miles", want: ""},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		if got := MapDistanceUnit(tt.input); got != tt.want {
			t.Errorf("MapDistanceUnit(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMapIntensityUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "hr", want: ZoneHR},
		{input: "heart_rate", want: ZoneHR},
		{input: "MAS", want: ZoneMAS},
		{input: "fpp", want: ZoneFPP},
		{input: "css", want: ZoneCSS},
		// Unrecognized labels pass through untouched for the validator to judge.
		{input: "watts", want: "watts"},
		{input: "", want: ""},
		{input: "   ", want: ""},
	}
	for _, tt := range tests {
		if got := MapIntensityUnit(tt.input); got != tt.want {
			t.Errorf("MapIntensityUnit(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMapEventColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "#ef4444", want: "red"},
		{input: "#EF4444", want: "red"},
		{input: "#3b82f6", want: "blue"},
		{input: "#22c55e", want: "green"},
		{input: "#eab308", want: "yellow"},
		{input: "#8b5cf6", want: "purple"},
		{input: "#f97316", want: "orange"},
		{input: "#000000", want: ""},
		{input: "red", want: ""},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		if got := MapEventColor(tt.input); got != tt.want {
			t.Errorf("MapEventColor(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
