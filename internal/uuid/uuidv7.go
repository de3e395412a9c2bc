package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a time-ordered UUIDv7, falling back to a random v4 if the
// clock sequence cannot be read.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Resolve returns the canonical form of a client-supplied id, or a fresh
// UUIDv7 when none was supplied.
func Resolve(supplied string) (string, error) {
	if supplied == "" {
		return New(), nil
	}
	parsed, err := googleuuid.Parse(supplied)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
