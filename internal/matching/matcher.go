package matching

import (
	"math"
	"sort"
)

// DefaultMinimumScore is the cutoff below which a scored candidate is
// dropped from results. It suppresses degenerate near-zero matches.
const DefaultMinimumScore = 5.0

// Matcher runs the multi-stage filter/score/rank pipeline. Its only state
// is the immutable weights and cutoff, so a single Matcher is safe for
// concurrent use.
type Matcher struct {
	weights  ScoringWeights
	minScore float64
}

// NewMatcher creates a matcher with the given weights and the default
// minimum-score cutoff.
func NewMatcher(weights ScoringWeights) *Matcher {
	return &Matcher{weights: weights, minScore: DefaultMinimumScore}
}

// NewMatcherWithMinScore creates a matcher with an explicit cutoff.
func NewMatcherWithMinScore(weights ScoringWeights, minScore float64) *Matcher {
	return &Matcher{weights: weights, minScore: minScore}
}

// Weights returns the configured scoring weights.
func (m *Matcher) Weights() ScoringWeights {
	return m.weights
}

// FindMatches filters, scores, ranks, and truncates the candidate list
// against the given preferences. Pure: no I/O, no retained state.
//
// Pipeline:
//  1. Bounding box + coarse query pre-filter
//  2. Demographic filter against the preference object
//  3. Score survivors, drop those below the cutoff
//  4. Sort by score descending, distance ascending, stable for the rest
//  5. Truncate to limit
func (m *Matcher) FindMatches(prefs *Preferences, candidates []*Profile, limit int) MatchResult {
	totalCandidates := len(candidates)

	box := BoundingBoxFor(prefs.Latitude, prefs.Longitude, prefs.MaxDistanceKm)
	query := &CandidateQuery{
		Box:              box,
		PreferredGenders: prefs.PreferredGenders,
		MinAge:           prefs.MinAge,
		MaxAge:           prefs.MaxAge,
		MinHeightCm:      prefs.MinHeightCm,
		MaxHeightCm:      prefs.MaxHeightCm,
		ExcludeUserIDs:   []string{prefs.UserID},
		Limit:            limit,
	}

	result := MatchResult{TotalCandidates: totalCandidates}

	matches := make([]ScoredMatch, 0, limit)
	for _, profile := range candidates {
		if !MatchesQuery(profile, query) {
			result.FilteredByQuery++
			continue
		}
		if !MatchesDemographics(profile, prefs) {
			result.FilteredByPrefs++
			continue
		}

		// The box only approximates: its corners reach further than the
		// radius, so the exact distance gates here and is also what the
		// caller sees.
		distanceKm := HaversineDistance(prefs.Latitude, prefs.Longitude, profile.Latitude, profile.Longitude)
		if distanceKm >= prefs.MaxDistanceKm {
			result.FilteredByDistance++
			continue
		}

		score, sharedSports := MatchScore(profile, prefs, m.weights)
		if score < m.minScore {
			result.FilteredByCutoff++
			continue
		}

		matches = append(matches, ScoredMatch{
			UserID:       profile.UserID,
			Name:         profile.Name,
			Age:          profile.Age,
			HeightCm:     profile.HeightCm,
			HairColor:    profile.HairColor,
			Gender:       profile.Gender,
			DistanceKm:   distanceKm,
			MatchScore:   score,
			SharedSports: sharedSports,
			IsVerified:   profile.Verified(),
			ImageFileIDs: profile.ImageFileIDs,
			Description:  profile.Description,
		})
	}

	// Stable sort: equal (score, distance) pairs keep input order, so
	// identical input produces identical output.
	sort.SliceStable(matches, func(i, j int) bool {
		return rankLess(&matches[i], &matches[j])
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	result.Matches = matches
	return result
}

// rankLess defines the total ranking order: higher score first, then
// shorter distance. Non-finite scores or distances sort last so that NaN
// never breaks comparator transitivity.
func rankLess(a, b *ScoredMatch) bool {
	aFinite := isFinite(a.MatchScore)
	bFinite := isFinite(b.MatchScore)
	if aFinite != bFinite {
		return aFinite
	}
	if aFinite && a.MatchScore != b.MatchScore {
		return a.MatchScore > b.MatchScore
	}

	aFinite = isFinite(a.DistanceKm)
	bFinite = isFinite(b.DistanceKm)
	if aFinite != bFinite {
		return aFinite
	}
	return aFinite && a.DistanceKm < b.DistanceKm
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
