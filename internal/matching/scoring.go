package matching

import "math"

// SportsOverlapCap bounds how many shared sports count towards the
// preference score. Overlap beyond the cap earns nothing extra.
const SportsOverlapCap = 5

// PreferenceScore computes the soft-preference alignment in [0,1] plus the
// sports both sides share. Hair color contributes 1 of 3 possible points
// (granted when the accepted set is empty or contains the candidate's
// color); shared sports contribute up to 2 of 3 with diminishing returns
// capped at SportsOverlapCap.
func PreferenceScore(p *Profile, prefs *Preferences) (float64, []string) {
	var score float64

	if len(prefs.PreferredHairColors) == 0 || containsString(prefs.PreferredHairColors, p.HairColor) {
		score += 1.0
	}

	shared := make([]string, 0, len(p.Sports))
	for _, sport := range p.Sports {
		if containsString(prefs.PreferredSports, sport) {
			shared = append(shared, sport)
		}
	}

	if len(shared) > 0 {
		score += math.Min(float64(len(shared)), SportsOverlapCap) / SportsOverlapCap * 2.0
	}

	return score / 3.0, shared
}

// MatchScore combines the five sub-scores into a single score in [0,100]
// and returns the shared sports for display.
func MatchScore(p *Profile, prefs *Preferences, w ScoringWeights) (float64, []string) {
	distanceKm := HaversineDistance(prefs.Latitude, prefs.Longitude, p.Latitude, p.Longitude)
	distanceScore := scoreDistance(distanceKm, prefs.MaxDistanceKm)

	ageScore := scoreWithinRange(float64(p.Age), float64(prefs.MinAge), float64(prefs.MaxAge))
	heightScore := scoreWithinRange(float64(p.HeightCm), float64(prefs.MinHeightCm), float64(prefs.MaxHeightCm))

	prefScore, sharedSports := PreferenceScore(p, prefs)

	verifiedScore := 0.0
	if p.Verified() {
		verifiedScore = 1.0
	}

	total := (distanceScore*w.Distance +
		ageScore*w.Age +
		prefScore*w.Sports +
		verifiedScore*w.Verified +
		heightScore*w.Height) * 100.0

	return math.Min(100.0, math.Max(0.0, total)), sharedSports
}

// scoreDistance decays exponentially so nearby candidates are strongly
// favored. At or beyond the cap the score snaps to exactly zero.
func scoreDistance(distanceKm, maxDistanceKm float64) float64 {
	if distanceKm >= maxDistanceKm {
		return 0.0
	}
	return math.Exp(-distanceKm / (maxDistanceKm * 0.5))
}

// scoreWithinRange is a triangular score peaking at the range midpoint and
// reaching zero at the edges. A degenerate range (min >= max) treats every
// value as equally ideal.
func scoreWithinRange(value, min, max float64) float64 {
	halfRange := (max - min) / 2.0
	if halfRange <= 0 {
		return 1.0
	}

	mid := (min + max) / 2.0
	deviation := math.Abs(value-mid) / halfRange

	return 1.0 - math.Min(1.0, deviation)
}
