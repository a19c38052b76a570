package matching

import "time"

// Profile is a candidate snapshot as stored in the document store.
// Field names mirror the store's camelCase attributes.
type Profile struct {
	UserID       string     `json:"userId"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	HeightCm     int        `json:"heightCm"`
	HairColor    string     `json:"hairColor"`
	Gender       string     `json:"gender"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	IsVerified   *bool      `json:"isVerified,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
	IsTimeout    *bool      `json:"isTimeout,omitempty"`
	ImageFileIDs []string   `json:"imageFileIds,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Sports       []string   `json:"sportsPreferences,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// Verified reports the verification flag, defaulting to false when unset.
func (p *Profile) Verified() bool {
	return p.IsVerified != nil && *p.IsVerified
}

// Active defaults to true when the store omits the flag.
func (p *Profile) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// Timeout defaults to false when unset.
func (p *Profile) Timeout() bool {
	return p.IsTimeout != nil && *p.IsTimeout
}

// Preferences holds a user's matching preferences. Latitude/Longitude are
// populated from the requester's own profile before matching runs.
type Preferences struct {
	UserID              string   `json:"userId"`
	PreferredGenders    []string `json:"preferredGenders"`
	MinAge              int      `json:"minAge"`
	MaxAge              int      `json:"maxAge"`
	MinHeightCm         int      `json:"minHeightCm"`
	MaxHeightCm         int      `json:"maxHeightCm"`
	PreferredHairColors []string `json:"preferredHairColors"`
	PreferredSports     []string `json:"preferredSports"`
	MaxDistanceKm       float64  `json:"maxDistanceKm"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
}

// BoundingBox is an axis-aligned lat/lon rectangle used as a cheap
// geospatial pre-filter. Derived per request, never persisted.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// CandidateQuery aggregates everything the pre-filter needs for one
// matching call.
type CandidateQuery struct {
	Box              BoundingBox
	PreferredGenders []string
	MinAge           int
	MaxAge           int
	MinHeightCm      int
	MaxHeightCm      int
	ExcludeUserIDs   []string
	Limit            int
}

// ScoringWeights are the five scoring coefficients. They are not required
// to sum to one; scores simply scale with the total.
type ScoringWeights struct {
	Distance float64 `json:"distance"`
	Age      float64 `json:"age"`
	Sports   float64 `json:"sports"`
	Verified float64 `json:"verified"`
	Height   float64 `json:"height"`
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Distance: 0.35,
		Age:      0.20,
		Sports:   0.25,
		Verified: 0.10,
		Height:   0.10,
	}
}

// ScoredMatch is one ranked result. DistanceKm is the exact haversine
// distance, not the bounding-box approximation.
type ScoredMatch struct {
	UserID       string   `json:"userId"`
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	HeightCm     int      `json:"heightCm"`
	HairColor    string   `json:"hairColor"`
	Gender       string   `json:"gender"`
	DistanceKm   float64  `json:"distanceKm"`
	MatchScore   float64  `json:"matchScore"`
	SharedSports []string `json:"sharedSports"`
	IsVerified   bool     `json:"isVerified"`
	ImageFileIDs []string `json:"imageFileIds"`
	Description  *string  `json:"description,omitempty"`
}

// MatchResult is the output of one matching call. The filter counts record
// how many candidates each pipeline stage removed.
type MatchResult struct {
	Matches            []ScoredMatch
	TotalCandidates    int
	FilteredByQuery    int
	FilteredByPrefs    int
	FilteredByDistance int
	FilteredByCutoff   int
}

// EventType classifies a match interaction event.
type EventType string

const (
	EventViewed  EventType = "viewed"
	EventLiked   EventType = "liked"
	EventPassed  EventType = "passed"
	EventMatched EventType = "matched"
)

// ParseEventType validates a raw event type string.
func ParseEventType(s string) (EventType, bool) {
	switch EventType(s) {
	case EventViewed, EventLiked, EventPassed, EventMatched:
		return EventType(s), true
	}
	return "", false
}

// MatchEvent records one user interaction with a candidate.
type MatchEvent struct {
	UserID       string    `json:"user_id"`
	TargetUserID string    `json:"target_user_id"`
	EventType    EventType `json:"event_type"`
	CreatedAt    time.Time `json:"created_at"`
}
