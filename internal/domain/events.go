package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promethia/training-api/internal/workout"
)

// EventKind discriminates the three calendar entity kinds.
type EventKind string

const (
	EventTraining EventKind = "training"
	EventRace     EventKind = "race"
	EventCustom   EventKind = "custom"
)

// Training is a planned or completed training session. It belongs to exactly
// one athlete (never a coach) and optionally carries the nested
// workout-builder structure as its training_data payload.
type Training struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Title     string             `bson:"title" json:"title"`
	Date      time.Time          `bson:"date" json:"date"`
	Time      string             `bson:"time,omitempty" json:"time,omitempty"` // HH:MM:SS, optional
	Duration  *time.Duration     `bson:"duration,omitempty" json:"duration,omitempty"`
	Sport     string             `bson:"sport" json:"sport"`
	Data      workout.Structure  `bson:"training_data" json:"training_data"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidateData checks the workout payload with the fail-fast model-level
// rules before persistence. An empty payload is always valid.
func (t *Training) ValidateData() error {
	if t.Data.IsZero() {
		return nil
	}
	return workout.Validate(t.Data)
}

// WorkoutSummary renders a short human-readable description of the workout.
func (t *Training) WorkoutSummary() string {
	var parts []string
	if w := t.Data.Warmup; w != nil && w.Duration != nil {
		parts = append(parts, fmt.Sprintf("Warmup: %g %s", *w.Duration, w.Unit))
	}
	if n := len(t.Data.Intervals); n > 0 {
		parts = append(parts, fmt.Sprintf("Intervals: %d sets", n))
	}
	if c := t.Data.Cooldown; c != nil && c.Duration != nil {
		parts = append(parts, fmt.Sprintf("Cooldown: %g %s", *c.Duration, c.Unit))
	}
	if len(parts) == 0 {
		if t.Data.IsZero() {
			return "No workout data"
		}
		return "Basic training"
	}
	return strings.Join(parts, " | ")
}

// Race is a race event with optional target and actual finish times.
type Race struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID   primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Title       string             `bson:"title" json:"title"`
	Date        time.Time          `bson:"date" json:"date"`
	Sport       string             `bson:"sport" json:"sport"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Distance    string             `bson:"distance,omitempty" json:"distance,omitempty"` // free-text, e.g. "10k"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	FinishTime  *time.Duration     `bson:"finishTime,omitempty" json:"finishTime,omitempty"`
	TargetTime  *time.Duration     `bson:"targetTime,omitempty" json:"targetTime,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsCompleted reports whether a finish time has been recorded.
func (r *Race) IsCompleted() bool {
	return r.FinishTime != nil
}

var distancePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)(?:\s?(km|k|mi|mile|m))?`)

// ParseDistanceKm attempts to read a free-text distance ("10k", "5 miles",
// "21.1km") as kilometers. Returns ok=false for blank or non-positive input.
func ParseDistanceKm(distance string) (float64, bool) {
	text := strings.ToLower(strings.TrimSpace(distance))
	if text == "" {
		return 0, false
	}
	match := distancePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	unit := match[2]
	switch {
	case unit == "mi" || unit == "mile" || strings.Contains(text, "mile"):
		return value * 1.60934, true
	case unit == "m":
		return value / 1000, true
	default: // k, km, or unitless all read as kilometers
		return value, true
	}
}

// PacePerKm renders the finish pace as "M:SS/km" for completed races with a
// parsable distance, or "" otherwise.
func (r *Race) PacePerKm() string {
	if !r.IsCompleted() {
		return ""
	}
	km, ok := ParseDistanceKm(r.Distance)
	if !ok {
		return ""
	}
	paceSeconds := r.FinishTime.Seconds() / km
	return fmt.Sprintf("%d:%02d/km", int(paceSeconds)/60, int(paceSeconds)%60)
}

// TargetVsActual compares finish time against target, or "" when either is
// missing.
func (r *Race) TargetVsActual() string {
	if !r.IsCompleted() || r.TargetTime == nil {
		return ""
	}
	diff := *r.FinishTime - *r.TargetTime
	if diff > 0 {
		return fmt.Sprintf("+%s (slower)", diff)
	}
	return fmt.Sprintf("%s (faster)", -diff)
}

// Calendar colors for custom events.
var EventColors = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// CustomEvent is a flexible calendar entry (camp, rest week, appointment).
type CustomEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID   primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Title       string             `bson:"title" json:"title"`
	Date        time.Time          `bson:"date" json:"date"`
	DateEnd     *time.Time         `bson:"dateEnd,omitempty" json:"dateEnd,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Color       string             `bson:"eventColor" json:"eventColor"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DurationDays counts the calendar days the event spans (minimum 1).
func (e *CustomEvent) DurationDays() int {
	if e.DateEnd == nil {
		return 1
	}
	start := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(e.DateEnd.Year(), e.DateEnd.Month(), e.DateEnd.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

func (e *CustomEvent) IsMultiDay() bool {
	return e.DurationDays() > 1
}

// SavedTraining is a reusable workout template. Unlike a Training it is not
// attached to a calendar date and is owned by its creator (coach or athlete).
type SavedTraining struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID   primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	Name        string             `bson:"name" json:"name"`
	Sport       string             `bson:"sport" json:"sport"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Data        workout.Structure  `bson:"training_data" json:"training_data"`
	IsPublic    bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
