package matching

// MatchesQuery is the cheap pre-filter: bounding-box containment, exclusion
// list, and the coarse demographic bounds baked into the query.
func MatchesQuery(p *Profile, q *CandidateQuery) bool {
	if !q.Box.Contains(p.Latitude, p.Longitude) {
		return false
	}

	for _, id := range q.ExcludeUserIDs {
		if id == p.UserID {
			return false
		}
	}

	if p.Age < q.MinAge || p.Age > q.MaxAge {
		return false
	}

	if p.HeightCm < q.MinHeightCm || p.HeightCm > q.MaxHeightCm {
		return false
	}

	// Empty gender set means any gender matches.
	if len(q.PreferredGenders) > 0 && !containsString(q.PreferredGenders, p.Gender) {
		return false
	}

	return true
}

// MatchesDemographics re-checks the candidate against the preference object
// itself. The query above is built once per request; the preferences carry
// semantics the query does not encode (active and timeout flags).
func MatchesDemographics(p *Profile, prefs *Preferences) bool {
	if !p.Active() || p.Timeout() {
		return false
	}

	if len(prefs.PreferredGenders) > 0 && !containsString(prefs.PreferredGenders, p.Gender) {
		return false
	}

	if p.Age < prefs.MinAge || p.Age > prefs.MaxAge {
		return false
	}

	if p.HeightCm < prefs.MinHeightCm || p.HeightCm > prefs.MaxHeightCm {
		return false
	}

	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
