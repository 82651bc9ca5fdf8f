package domain

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCoachAssignmentValidate(t *testing.T) {
	t.Parallel()

	mentee := primitive.NewObjectID()
	coach := primitive.NewObjectID()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		assignment CoachAssignment
		want       error
	}{
		{
			name:       "valid open-ended grant",
			assignment: CoachAssignment{MenteeID: mentee, CoachID: coach, StartDate: start},
			want:       nil,
		},
		{
			name: "valid bounded grant",
			assignment: CoachAssignment{
				MenteeID: mentee, CoachID: coach, StartDate: start,
				EndDate: tptr(start.AddDate(0, 6, 0)),
			},
			want: nil,
		},
		{
			name:       "self grant",
			assignment: CoachAssignment{MenteeID: mentee, CoachID: mentee, StartDate: start},
			want:       ErrSelfAssignment,
		},
		{
			name: "end before start",
			assignment: CoachAssignment{
				MenteeID: mentee, CoachID: coach, StartDate: start,
				EndDate: tptr(start.AddDate(0, 0, -1)),
			},
			want: ErrAssignmentDates,
		},
		{
			name: "end equal to start",
			assignment: CoachAssignment{
				MenteeID: mentee, CoachID: coach, StartDate: start,
				EndDate: tptr(start),
			},
			want: ErrAssignmentDates,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.assignment.Validate(); !errors.Is(got, tt.want) {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
