// Package id names running processes so snapshot events can tell who
// published them.
package id

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Instance kinds, used as the prefix of an instance ID.
const (
	PrefixServer = "srv"
	PrefixWorker = "wrk"
	PrefixCLI    = "cli"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the length of the random part of an instance ID.
	DefaultLength = 12

	// largest multiple of 62 below 256; bytes above it are redrawn
	maxUnbiased = 248
)

// Generate returns length random base62 characters.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// NewInstanceID returns "<prefix>_<random>", e.g. "srv_xK9mP2vL3nQa".
func NewInstanceID(prefix string) string {
	random, err := Generate(DefaultLength)
	if err != nil {
		panic(err)
	}
	return prefix + "_" + random
}

// ParsePrefixedID splits an instance ID into its prefix and random part.
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	prefix, shortID, ok := strings.Cut(prefixedID, "_")
	if !ok || prefix == "" || shortID == "" {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return prefix, shortID, nil
}

// Kind returns the process kind of an instance ID: "server", "worker",
// "cli", or "unknown".
func Kind(instanceID string) string {
	prefix, _, err := ParsePrefixedID(instanceID)
	if err != nil {
		return "unknown"
	}
	switch prefix {
	case PrefixServer:
		return "server"
	case PrefixWorker:
		return "worker"
	case PrefixCLI:
		return "cli"
	}
	return "unknown"
}
