package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles. The role is advisory (it
// selects which UI view a user sees); calendar access is governed by
// CoachAssignment grants, not by role.
type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
)

// User represents an account holder. Every user is potentially both an
// athlete and a coach; both profile kinds are created at registration.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Role         Role               `bson:"role" json:"role"`

	// Phone is stored split so clients can render the country code separately.
	CountryNumber string `bson:"countryNumber,omitempty" json:"countryNumber,omitempty"` // e.g. "+1", "+44"
	PhoneNumber   string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`     // local number, no country code

	DateOfBirth     *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	ProfileImageKey string     `bson:"profileImageKey,omitempty" json:"-"` // S3 object key

	// CoachID is the unique shareable code used to grant calendar access
	// (3 letters + 3 digits + 2 symbols, e.g. "ABC123@#").
	CoachID string `bson:"coachId" json:"coachId"`

	// Performance metrics, available regardless of role.
	MAS *float64 `bson:"mas,omitempty" json:"mas,omitempty"` // maximum aerobic speed, km/h
	FPP *float64 `bson:"fpp,omitempty" json:"fpp,omitempty"` // functional power profile, watts
	CSS *float64 `bson:"css,omitempty" json:"css,omitempty"` // critical swim speed, total seconds

	IsVerified bool      `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// FullPhoneNumber returns the complete phone number with country code.
func (u *User) FullPhoneNumber() string {
	return u.CountryNumber + u.PhoneNumber
}

// Age computes the user's age from date of birth, or -1 when unknown.
func (u *User) Age(now time.Time) int {
	if u.DateOfBirth == nil {
		return -1
	}
	dob := *u.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// Metric validation bounds: generous sanity limits, not physiology.
var (
	ErrInvalidMAS = errors.New("mas must be a positive value in km/h no greater than 50")
	ErrInvalidFPP = errors.New("fpp must be a positive value in watts no greater than 2000")
	ErrInvalidCSS = errors.New("css must be a positive time value no greater than 3600 seconds")
)

// ValidateMetrics checks the optional performance metrics.
func (u *User) ValidateMetrics() error {
	if u.MAS != nil && (*u.MAS <= 0 || *u.MAS > 50) {
		return ErrInvalidMAS
	}
	if u.FPP != nil && (*u.FPP <= 0 || *u.FPP > 2000) {
		return ErrInvalidFPP
	}
	if u.CSS != nil && (*u.CSS <= 0 || *u.CSS > 3600) {
		return ErrInvalidCSS
	}
	return nil
}

// CSSDisplay renders a CSS value in mm:ss form, or "" when unset.
func CSSDisplay(seconds *float64) string {
	if seconds == nil {
		return ""
	}
	total := int(*seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// CSSParse parses a mm:ss string (or a bare number of seconds) into total
// seconds for storage.
func CSSParse(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, errors.New("css value is empty")
	}
	if strings.Contains(trimmed, ":") {
		parts := strings.SplitN(trimmed, ":", 2)
		minutes, err1 := strconv.Atoi(parts[0])
		seconds, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return 0, errors.New(`css must be in mm:ss format (e.g. "05:30")`)
		}
		return float64(minutes*60 + seconds), nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, errors.New(`css must be in mm:ss format (e.g. "05:30")`)
	}
	return v, nil
}
