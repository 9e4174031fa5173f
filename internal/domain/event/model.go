package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidKey = errors.New("invalid event key")

// Type is the upstream classification of an event.
type Type int

const (
	TypeRegional                     Type = 0
	TypeDistrict                     Type = 1
	TypeDistrictChampionship         Type = 2
	TypeChampionshipDivision         Type = 3
	TypeChampionshipFinal            Type = 4
	TypeDistrictChampionshipDivision Type = 5
	TypeFestivalOfChampions          Type = 6
	TypeOffseason                    Type = 99
	TypePreseason                    Type = 100
	TypeUnknown                      Type = -1
)

// IsOfficial reports whether the type counts for trophies and history.
// Offseason, preseason and unknown events are excluded everywhere.
func (t Type) IsOfficial() bool {
	switch t {
	case TypeOffseason, TypePreseason, TypeUnknown:
		return false
	default:
		return true
	}
}

// Rank orders event types by competitive weight, championship last.
func (t Type) Rank() int {
	switch t {
	case TypeRegional, TypeDistrict:
		return 1
	case TypeDistrictChampionshipDivision:
		return 2
	case TypeDistrictChampionship:
		return 3
	case TypeChampionshipDivision:
		return 4
	case TypeChampionshipFinal:
		return 5
	default:
		return 0
	}
}

func (t Type) Label() string {
	switch t {
	case TypeRegional:
		return "Regional"
	case TypeDistrict:
		return "District"
	case TypeDistrictChampionship:
		return "District Championship"
	case TypeDistrictChampionshipDivision:
		return "District Championship Division"
	case TypeChampionshipDivision:
		return "FIRST Championship Division"
	case TypeChampionshipFinal:
		return "FIRST Championship (Einstein)"
	case TypeFestivalOfChampions:
		return "Festival of Champions"
	case TypeOffseason:
		return "Offseason"
	case TypePreseason:
		return "Preseason"
	default:
		return "Unknown"
	}
}

// District identifies the district an event belongs to, when any.
type District struct {
	Abbreviation string
	DisplayName  string
}

// Event is an immutable snapshot of one competition event.
type Event struct {
	Key            string
	Name           string
	ShortName      string
	Year           int
	Type           Type
	City           string
	StateProv      string
	Country        string
	District       *District
	StartDate      string
	EndDate        string
	FirstEventCode string
}

// Code returns the location code portion of the event key ("2024casj" -> "casj").
func (e Event) Code() string {
	if len(e.Key) <= 4 {
		return e.Key
	}
	return e.Key[4:]
}

// DisplayName prefers the short name when present.
func (e Event) DisplayName() string {
	if e.ShortName != "" {
		return e.ShortName
	}
	if e.Name != "" {
		return e.Name
	}
	return e.Key
}

// SplitKey parses a canonical event key into its 4-digit year prefix and
// location code. Keys without a valid year prefix fail explicitly.
func SplitKey(key string) (int, string, error) {
	trimmed := strings.TrimSpace(key)
	if len(trimmed) < 5 {
		return 0, "", fmt.Errorf("%w: %q is too short", ErrInvalidKey, key)
	}
	year, err := strconv.Atoi(trimmed[:4])
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q has no 4-digit year prefix", ErrInvalidKey, key)
	}
	return year, trimmed[4:], nil
}
