package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Coach code alphabet: 3 uppercase letters, 3 digits, 2 symbols.
const (
	coachIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	coachIDDigits  = "0123456789"
	coachIDSymbols = "!@#$%&*+-="

	coachIDMaxAttempts = 100
)

// CoachIDOracle answers whether a candidate coach code is already taken.
// The user repository satisfies this interface.
type CoachIDOracle interface {
	CoachIDExists(ctx context.Context, coachID string) (bool, error)
}

func randomFrom(alphabet string, n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// generateCoachID builds one random candidate code, e.g. "KXT402@=".
func generateCoachID() (string, error) {
	letters, err := randomFrom(coachIDLetters, 3)
	if err != nil {
		return "", err
	}
	digits, err := randomFrom(coachIDDigits, 3)
	if err != nil {
		return "", err
	}
	symbols, err := randomFrom(coachIDSymbols, 2)
	if err != nil {
		return "", err
	}
	return letters + digits + symbols, nil
}

// AllocateCoachID returns a coach code not yet known to the oracle. It
// retries on collisions and, if the attempt budget runs out, falls back to a
// timestamp-suffixed code that cannot realistically collide.
func AllocateCoachID(ctx context.Context, oracle CoachIDOracle) (string, error) {
	for i := 0; i < coachIDMaxAttempts; i++ {
		candidate, err := generateCoachID()
		if err != nil {
			return "", err
		}
		taken, err := oracle.CoachIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	// Attempt budget exhausted. Derive a code from the clock instead.
	letters, err := randomFrom(coachIDLetters, 3)
	if err != nil {
		return "", err
	}
	suffix := time.Now().UnixNano() % 1000
	fallback := fmt.Sprintf("%s%03d@#", letters, suffix)
	taken, err := oracle.CoachIDExists(ctx, fallback)
	if err != nil {
		return "", err
	}
	if taken {
		return "", errors.New("unable to allocate a unique coach code")
	}
	return fallback, nil
}
