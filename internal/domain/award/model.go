// Package award models competition awards and which of them count as blue
// banners.
package award

// Award type codes from the results source.
const (
	TypeImpact                 = 0 // Chairman's / FIRST Impact Award
	TypeWinner                 = 1 // Event Winner
	TypeFinalist               = 2 // Event Finalist
	TypeWoodieFlowers          = 3 // Woodie Flowers Finalist Award
	TypeEngineeringInspiration = 9
	TypeRookieAllStar          = 10
)

// Award is one award instance at an event. Recipients holds the team keys
// on the recipient list; team-scoped fetches return awards with a single
// implicit recipient.
type Award struct {
	Name       string   `json:"name"`
	Type       int      `json:"awardType"`
	EventKey   string   `json:"eventKey"`
	EventName  string   `json:"eventName,omitempty"`
	Year       int      `json:"year"`
	Recipients []string `json:"recipients,omitempty"`
}

// blueBannerTypes are the award types that hang a banner. Type 71
// (Autonomous Award) reuses a retired district-winner code and is excluded.
var blueBannerTypes = map[int]bool{
	TypeImpact:        true,
	TypeWinner:        true,
	TypeWoodieFlowers: true,
}

// IsBlueBanner reports whether the award earns a blue banner. Offseason and
// preseason awards never do, so callers must also check the hosting event.
func (a Award) IsBlueBanner() bool {
	return blueBannerTypes[a.Type]
}
