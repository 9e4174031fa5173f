package resolver

import (
	"strings"

	"github.com/kleium/casters-tool/internal/domain/event"
)

// US state groupings for non-district events.
var regionStates = map[string][]string{
	"New England":  {"NH", "MA", "CT", "RI", "VT", "ME"},
	"Mid-Atlantic": {"NY", "NJ", "PA", "DE", "MD", "DC"},
	"Southeast":    {"VA", "NC", "SC", "GA", "FL", "AL", "MS", "TN", "KY", "WV", "LA", "AR"},
	"Midwest":      {"OH", "IN", "IL", "MI", "WI", "MN", "IA", "MO", "ND", "SD", "NE", "KS"},
	"Texas":        {"TX"},
	"Mountain":     {"MT", "WY", "CO", "NM", "AZ", "UT", "ID", "NV"},
	"Pacific":      {"WA", "OR", "CA", "HI", "AK"},
}

var stateToRegion = func() map[string]string {
	idx := make(map[string]string)
	for region, states := range regionStates {
		for _, s := range states {
			idx[s] = region
		}
	}
	return idx
}()

// countryLabels are the display names used for non-US regions. Matching is
// substring-based in both directions so "Taiwan" and "Chinese Taipei"
// variants land on one label.
var countryLabels = []string{
	"Türkiye", "Israel", "Canada", "China", "Australia", "Brazil", "Mexico",
	"Chinese Taipei", "India", "Japan", "Chile", "Colombia", "Egypt", "Poland",
	"Dominican Republic", "Paraguay", "Morocco", "United Kingdom", "Netherlands",
	"Croatia", "Romania", "Kazakhstan", "France", "Germany", "Switzerland",
	"Argentina", "South Korea", "Czech Republic", "Denmark", "Ethiopia",
	"Finland", "Georgia", "Hungary", "Indonesia", "Ireland", "Italy",
	"Jordan", "Kenya", "Lebanon", "Lithuania", "Malaysia", "Malta",
	"New Zealand", "Nigeria", "Norway", "Pakistan", "Peru", "Philippines",
	"Portugal", "Puerto Rico", "Qatar", "Rwanda", "Saudi Arabia", "Singapore",
	"Slovakia", "Slovenia", "South Africa", "Spain", "Sweden", "Taiwan",
	"Thailand", "Tunisia", "Ukraine", "United Arab Emirates", "Vietnam",
	"Kosovo", "Bosnia and Herzegovina", "Serbia", "Montenegro",
	"North Macedonia", "Albania", "Ecuador", "Bolivia", "Guatemala",
	"Honduras", "Nicaragua", "Costa Rica", "Panama", "Cuba", "Bahrain",
	"Oman", "Kuwait", "Korea",
}

// regionMerge folds pre-district regions into the district that replaced
// them: Israel regionals 2005-2016 became the FIRST Israel district in 2017,
// Texas regionals became FIRST In Texas in 2019.
var regionMerge = map[string]string{
	"Israel": "FIRST Israel",
	"Texas":  "FIRST In Texas",
}

var countryNormalize = map[string]string{
	"turkey":  "Türkiye",
	"türkiye": "Türkiye",
	"turkiye": "Türkiye",
}

// NormalizeCountry canonicalizes country spellings that vary across sources.
func NormalizeCountry(country string) string {
	if c, ok := countryNormalize[strings.ToLower(strings.TrimSpace(country))]; ok {
		return c
	}
	return country
}

// RegionDefault is the bucket for events no rule can place.
const RegionDefault = "Other"

// EventRegion resolves an event into a region name. District events take
// the district's display name; international events map onto a country
// label; US non-district events group by state. Merged pre-district regions
// land on their district's name.
func EventRegion(ev event.Event) string {
	if ev.District != nil && ev.District.Abbreviation != "" {
		if ev.District.DisplayName != "" {
			return ev.District.DisplayName
		}
		return strings.ToUpper(ev.District.Abbreviation)
	}

	country := NormalizeCountry(ev.Country)
	if country != "" && country != "USA" {
		lc := strings.ToLower(country)
		for _, label := range countryLabels {
			ll := strings.ToLower(label)
			if strings.Contains(lc, ll) || strings.Contains(ll, lc) {
				return merged(label)
			}
		}
		return country
	}

	if region, ok := stateToRegion[ev.StateProv]; ok {
		return merged(region)
	}
	return RegionDefault
}

// TeamRegion resolves a team's home region from its registered address,
// following the same precedence as events: country label first for
// international teams, state grouping for US teams.
func TeamRegion(country, stateProv string) string {
	country = NormalizeCountry(country)
	if country != "" && country != "USA" {
		lc := strings.ToLower(country)
		for _, label := range countryLabels {
			ll := strings.ToLower(label)
			if strings.Contains(lc, ll) || strings.Contains(ll, lc) {
				return merged(label)
			}
		}
		return country
	}
	if region, ok := stateToRegion[stateProv]; ok {
		return merged(region)
	}
	return RegionDefault
}

func merged(region string) string {
	if m, ok := regionMerge[region]; ok {
		return m
	}
	return region
}
