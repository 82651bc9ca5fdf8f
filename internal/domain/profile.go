package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sports selectable on profiles and events.
const (
	SportRunning   = "running"
	SportCycling   = "cycling"
	SportSwimming  = "swimming"
	SportTriathlon = "triathlon"
	SportStrength  = "strength"
	SportOther     = "other"
)

// AthleticProfile holds a user's athlete-facing data. Exactly one exists per
// user; it is created by the registration workflow alongside the
// ProfessionalProfile and never deleted independently.
type AthleticProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ExperienceYears *int               `bson:"experienceYears,omitempty" json:"experienceYears,omitempty"`
	AboutNotes      string             `bson:"aboutNotes,omitempty" json:"aboutNotes,omitempty"`
	SportsInvolved  []string           `bson:"sportsInvolved" json:"sportsInvolved"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfessionalProfile holds a user's coach-facing data, one per user.
type ProfessionalProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ExperienceYears *int               `bson:"experienceYears,omitempty" json:"experienceYears,omitempty"`
	AboutNotes      string             `bson:"aboutNotes,omitempty" json:"aboutNotes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Achievement categories shared by athlete and coach achievements.
const (
	CategoryRaceAchievement    = "race_achievement"
	CategoryPersonalRecord     = "personal_record"
	CategoryCompetitionResults = "competition_results"
	CategoryTrainingMilestone  = "training_milestone"
	CategoryOther              = "other"
)

// Achievement is an athlete accomplishment attached to an AthleticProfile.
type Achievement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID   primitive.ObjectID `bson:"profileId" json:"profileId"`
	Category    string             `bson:"category" json:"category"`
	Year        int                `bson:"year" json:"year"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CoachAchievement mirrors Achievement but hangs off a ProfessionalProfile.
type CoachAchievement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID   primitive.ObjectID `bson:"profileId" json:"profileId"`
	Category    string             `bson:"category" json:"category"`
	Year        int                `bson:"year" json:"year"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Certification is a coaching credential attached to a ProfessionalProfile.
type Certification struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID           primitive.ObjectID `bson:"profileId" json:"profileId"`
	Sport               string             `bson:"sport" json:"sport"`
	Year                int                `bson:"year" json:"year"`
	Title               string             `bson:"title" json:"title"`
	IssuingOrganization string             `bson:"issuingOrganization,omitempty" json:"issuingOrganization,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsRecent reports whether the certification is from the last five years.
func (c *Certification) IsRecent(now time.Time) bool {
	return c.Year >= now.Year()-4
}

// YearError reports an out-of-range year on an achievement or certification.
type YearError struct {
	Year int
	Max  int
}

func (e *YearError) Error() string {
	return fmt.Sprintf("year must be between 1900 and %d (got %d)", e.Max, e.Year)
}

// ValidateYear enforces the shared 1900..current-year rule used by
// achievements, coach achievements, and certifications alike.
func ValidateYear(year int, now time.Time) error {
	if year < 1900 || year > now.Year() {
		return &YearError{Year: year, Max: now.Year()}
	}
	return nil
}
