package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// eventAlphabet keeps event ids short and easy to grep in log output.
const (
	eventAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	eventLength   = 10
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "evt-k3f9x2m1qa")
//
// Ids exist purely for log correlation: every line a single pipeline event
// produces carries the same id, so one grep reconstructs its lifecycle.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(eventAlphabet, eventLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
