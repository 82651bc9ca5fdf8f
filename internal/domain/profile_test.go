package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		year    int
		wantErr bool
	}{
		{year: 1900, wantErr: false},
		{year: 2026, wantErr: false},
		{year: 2010, wantErr: false},
		{year: 1899, wantErr: true},
		{year: 2027, wantErr: true},
		{year: 0, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateYear(tt.year, now)
		if tt.wantErr {
			var yearErr *YearError
			if !errors.As(err, &yearErr) {
				t.Errorf("ValidateYear(%d) = %v, want *YearError", tt.year, err)
				continue
			}
			if yearErr.Year != tt.year || yearErr.Max != 2026 {
				t.Errorf("ValidateYear(%d) carries %+v", tt.year, yearErr)
			}
		} else if err != nil {
			t.Errorf("ValidateYear(%d) unexpected error: %v", tt.year, err)
		}
	}
}

func TestCertificationIsRecent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if c := (&Certification{Year: 2022}); !c.IsRecent(now) {
		t.Error("certification from 2022 should be recent in 2026")
	}
	if c := (&Certification{Year: 2021}); c.IsRecent(now) {
		t.Error("certification from 2021 should not be recent in 2026")
	}
}
