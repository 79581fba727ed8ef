package uuid

import (
	googleuuid "github.com/google/uuid"
)

// Uncategorized is the id of the synthetic bucket for items without a
// category. Generated ids are UUIDs and can never collide with it.
const Uncategorized = "uncategorized"

// New generates a new UUIDv7 based on the current timestamp.
// UUIDv7 is time-ordered and suitable for use as database primary keys.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to standard UUIDv4 if the random source fails
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and parses a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
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

// IsReserved reports whether s is an id the application reserves for
// synthetic records.
func IsReserved(s string) bool {
	return s == Uncategorized
}
