// Package id generates entity identifiers.
package id

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// localPrefix marks identifiers minted while the backend was unreachable.
const localPrefix = "local"

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "note-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
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

// Local creates a timestamp-based identifier for an entity created while the
// backend is unreachable. A short random suffix keeps IDs unique when several
// entities are created within the same millisecond.
// Format: local-<unix-millis>-<suffix> (e.g., "local-1714503274851-x3Kp9a").
func Local() string {
	suffix, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", 6)
	if err != nil {
		// Entropy exhaustion is effectively unreachable; the timestamp alone
		// still yields a usable identifier.
		suffix = "000000"
	}
	return fmt.Sprintf("%s-%d-%s", localPrefix, time.Now().UnixMilli(), suffix)
}

// IsLocal reports whether the identifier was generated offline by Local.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, localPrefix+"-")
}
