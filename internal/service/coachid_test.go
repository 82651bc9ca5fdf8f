package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

// fakeOracle reports taken codes from a set and counts lookups.
type fakeOracle struct {
	taken   map[string]bool
	all     bool
	calls   int
	lastErr error
}

func (f *fakeOracle) CoachIDExists(_ context.Context, coachID string) (bool, error) {
	f.calls++
	if f.lastErr != nil {
		return false, f.lastErr
	}
	if f.all {
		return true, nil
	}
	return f.taken[coachID], nil
}

var coachIDPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}[!@#$%&*+=-]{2}$`)

func TestAllocateCoachIDFormat(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	for i := 0; i < 50; i++ {
		code, err := AllocateCoachID(context.Background(), oracle)
		if err != nil {
			t.Fatalf("AllocateCoachID: %v", err)
		}
		if !coachIDPattern.MatchString(code) {
			t.Fatalf("code %q does not match 3 letters + 3 digits + 2 symbols", code)
		}
	}
}

func TestAllocateCoachIDFallsBackWhenExhausted(t *testing.T) {
	t.Parallel()

	// Every random candidate reads as taken; the fallback check is the one
	// lookup allowed to succeed.
	fallbackOracle := &exhaustedOracle{}
	code, err := AllocateCoachID(context.Background(), fallbackOracle)
	if err != nil {
		t.Fatalf("AllocateCoachID: %v", err)
	}
	if fallbackOracle.calls != coachIDMaxAttempts+1 {
		t.Errorf("expected %d lookups, got %d", coachIDMaxAttempts+1, fallbackOracle.calls)
	}
	if matched := regexp.MustCompile(`^[A-Z]{3}[0-9]{3}@#$`).MatchString(code); !matched {
		t.Errorf("fallback code %q does not match letters + digits + @#", code)
	}

	// When even the fallback is taken, allocation gives up.
	if _, err := AllocateCoachID(context.Background(), &fakeOracle{all: true}); err == nil {
		t.Error("expected an error when every code is taken")
	}
}

// exhaustedOracle rejects exactly the first coachIDMaxAttempts candidates.
type exhaustedOracle struct {
	calls int
}

func (f *exhaustedOracle) CoachIDExists(context.Context, string) (bool, error) {
	f.calls++
	return f.calls <= coachIDMaxAttempts, nil
}

func TestAllocateCoachIDPropagatesOracleError(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{lastErr: errors.New("db down")}
	if _, err := AllocateCoachID(context.Background(), oracle); err == nil {
		t.Fatal("expected oracle error to propagate")
	}
	if oracle.calls != 1 {
		t.Errorf("expected allocation to stop after the first failed lookup, got %d calls", oracle.calls)
	}
}
