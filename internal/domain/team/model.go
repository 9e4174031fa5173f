package team

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KeyPrefix is the canonical prefix for competition-results team keys.
const KeyPrefix = "frc"

var ErrInvalidKey = errors.New("invalid team key")

// Team is an immutable snapshot of a team as reported by the upstream
// competition-results provider.
type Team struct {
	Key        string
	Number     int
	Nickname   string
	City       string
	StateProv  string
	Country    string
	RookieYear int
	SchoolName string
}

// Media is one media entry attached to a team for a season.
type Media struct {
	Type        string
	Base64Image string
}

// Avatar returns a data URI for the team avatar, or "" when none is present.
func Avatar(media []Media) string {
	for _, m := range media {
		if m.Type == "avatar" && m.Base64Image != "" {
			return "data:image/png;base64," + m.Base64Image
		}
	}
	return ""
}

// Key converts a team number into its canonical key, e.g. 254 -> "frc254".
func Key(number int) string {
	return KeyPrefix + strconv.Itoa(number)
}

// Number parses a canonical team key back into its number. The key↔number
// mapping is a bijection; malformed keys fail instead of defaulting.
func Number(key string) (int, error) {
	trimmed := strings.TrimSpace(key)
	if !strings.HasPrefix(trimmed, KeyPrefix) {
		return 0, fmt.Errorf("%w: %q missing %q prefix", ErrInvalidKey, key, KeyPrefix)
	}
	number, err := strconv.Atoi(strings.TrimPrefix(trimmed, KeyPrefix))
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: %q has non-numeric suffix", ErrInvalidKey, key)
	}
	return number, nil
}
