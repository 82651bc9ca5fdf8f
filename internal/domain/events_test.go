package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"promethia/training-api/internal/workout"
)

func dptr(d time.Duration) *time.Duration { return &d }

func TestParseDistanceKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "10k", want: 10, ok: true},
		{input: "21.1km", want: 21.1, ok: true},
		{input: "5 miles", want: 8.0467, ok: true},
		{input: "1 mile", want: 1.60934, ok: true},
		{input: "800m", want: 0.8, ok: true},
		{input: "42.195", want: 42.195, ok: true},
		{input: "Marathon 42 km", want: 42, ok: true},
		{input: "", ok: false},
		{input: "sprint", ok: false},
		{input: "0k", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseDistanceKm(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDistanceKm(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("ParseDistanceKm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRacePacePerKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		race Race
		want string
	}{
		{
			name: "ten k in fifty minutes",
			race: Race{Distance: "10k", FinishTime: dptr(50 * time.Minute)},
			want: "5:00/km",
		},
		{
			name: "uneven pace",
			race: Race{Distance: "5km", FinishTime: dptr(23*time.Minute + 45*time.Second)},
			want: "4:45/km",
		},
		{
			name: "not completed",
			race: Race{Distance: "10k"},
			want: "",
		},
		{
			name: "unparsable distance",
			race: Race{Distance: "around the lake", FinishTime: dptr(time.Hour)},
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.race.PacePerKm(); got != tt.want {
				t.Errorf("PacePerKm() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRaceTargetVsActual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		race Race
		want string
	}{
		{
			name: "slower than target",
			race: Race{FinishTime: dptr(52 * time.Minute), TargetTime: dptr(50 * time.Minute)},
			want: "+2m0s (slower)",
		},
		{
			name: "faster than target",
			race: Race{FinishTime: dptr(48 * time.Minute), TargetTime: dptr(50 * time.Minute)},
			want: "2m0s (faster)",
		},
		{
			name: "exactly on target reads as faster",
			race: Race{FinishTime: dptr(50 * time.Minute), TargetTime: dptr(50 * time.Minute)},
			want: "0s (faster)",
		},
		{
			name: "no target",
			race: Race{FinishTime: dptr(50 * time.Minute)},
			want: "",
		},
		{
			name: "no finish",
			race: Race{TargetTime: dptr(50 * time.Minute)},
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.race.TargetVsActual(); got != tt.want {
				t.Errorf("TargetVsActual() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCustomEventDurationDays(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	single := CustomEvent{Date: start}
	if got := single.DurationDays(); got != 1 {
		t.Errorf("DurationDays() = %d, want 1", got)
	}
	if single.IsMultiDay() {
		t.Error("IsMultiDay() = true for single-day event")
	}

	end := time.Date(2026, 7, 5, 18, 0, 0, 0, time.UTC)
	camp := CustomEvent{Date: start, DateEnd: &end}
	if got := camp.DurationDays(); got != 5 {
		t.Errorf("DurationDays() = %d, want 5", got)
	}
	if !camp.IsMultiDay() {
		t.Error("IsMultiDay() = false for five-day event")
	}

	// Same calendar day with a later clock time is still one day.
	sameDay := time.Date(2026, 7, 1, 23, 0, 0, 0, time.UTC)
	evt := CustomEvent{Date: start, DateEnd: &sameDay}
	if got := evt.DurationDays(); got != 1 {
		t.Errorf("DurationDays() = %d, want 1", got)
	}
}

func TestTrainingWorkoutSummary(t *testing.T) {
	t.Parallel()

	tr := Training{}
	if got := tr.WorkoutSummary(); got != "No workout data" {
		t.Errorf("WorkoutSummary() = %q, want %q", got, "No workout data")
	}
}

func TestTrainingValidateData(t *testing.T) {
	t.Parallel()

	duration := 15.0
	intensity := 200.0

	empty := Training{}
	if err := empty.ValidateData(); err != nil {
		t.Errorf("empty payload should be valid, got %v", err)
	}

	valid := Training{Data: workout.Structure{
		Warmup: &workout.Phase{Name: "Warmup", Duration: &duration, Unit: workout.UnitMinutes},
	}}
	if err := valid.ValidateData(); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	// An out-of-range intensity never reaches the store.
	invalid := Training{Data: workout.Structure{
		Warmup: &workout.Phase{Name: "Warmup", Duration: &duration, Unit: workout.UnitMinutes, Intensity: &intensity},
	}}
	err := invalid.ValidateData()
	if err == nil {
		t.Fatal("expected a validation error for intensity 200")
	}
	var schemaErr *workout.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("err = %T, want *workout.SchemaError", err)
	}
}
