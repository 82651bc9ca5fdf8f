package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachAssignment is an access grant: the mentee has given the coach
// permission to view and manage their calendar and profile data. A user can
// hold many active grants in both directions; only one active grant may
// exist per (mentee, coach) pair.
type CoachAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MenteeID  primitive.ObjectID `bson:"menteeId" json:"menteeId"` // data owner
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`   // grantee
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var (
	ErrSelfAssignment       = errors.New("a user cannot be assigned as their own coach")
	ErrAssignmentDates      = errors.New("end date must be after start date")
	ErrAssignmentDuplicated = errors.New("an active assignment already exists for this mentee and coach")
)

// Validate checks the structural invariants of the grant.
func (a *CoachAssignment) Validate() error {
	if a.MenteeID == a.CoachID {
		return ErrSelfAssignment
	}
	if a.EndDate != nil && !a.EndDate.After(a.StartDate) {
		return ErrAssignmentDates
	}
	return nil
}
