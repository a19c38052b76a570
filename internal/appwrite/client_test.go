package appwrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeapp/lume-algo/internal/matching"
)

func testCollections() Collections {
	return Collections{
		UserProfiles:    "user_profiles",
		UserPreferences: "user_preferences",
		MatchEvents:     "match_events",
		UserMatches:     "user_matches",
	}
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "test-key", "test-project", "test-db", testCollections())
	return client, server
}

func TestGetProfileParsesDocument(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Appwrite-Key"))
		assert.Equal(t, "test-project", r.Header.Get("X-Appwrite-Project"))
		assert.Contains(t, r.URL.Path, "user_profiles")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 1,
			"documents": []map[string]interface{}{
				{
					"userId":    "user-1",
					"name":      "Ada",
					"age":       29,
					"heightCm":  168,
					"hairColor": "black",
					"gender":    "female",
					"latitude":  51.5074,
					"longitude": -0.1278,
				},
			},
		})
	})
	defer server.Close()

	profile, err := client.GetProfile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, 29, profile.Age)
	assert.True(t, profile.Active(), "missing isActive defaults to active")
	assert.False(t, profile.Verified())
}

func TestGetProfileUnwrapsDataField(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 1,
			"documents": []map[string]interface{}{
				{
					"$id": "doc-1",
					"data": map[string]interface{}{
						"userId": "user-1",
						"name":   "Ada",
					},
				},
			},
		})
	})
	defer server.Close()

	profile, err := client.GetProfile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
}

func TestGetProfileNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"total": 0, "documents": []interface{}{}})
	})
	defer server.Close()

	_, err := client.GetProfile(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPreferencesUnauthorized(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := client.GetPreferences(context.Background(), "user-1")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestQueryCandidatesFiltersExcludedIDs(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// The bounding box and demographic filters ride in the query param.
		assert.Contains(t, r.URL.RawQuery, "query=")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 3,
			"documents": []map[string]interface{}{
				{"userId": "keep", "name": "Keep", "age": 25},
				{"userId": "excluded", "name": "Excluded", "age": 25},
				{"userId": "requester", "name": "Self", "age": 25},
			},
		})
	})
	defer server.Close()

	prefs := &matching.Preferences{
		UserID:        "requester",
		MinAge:        21,
		MaxAge:        35,
		MaxDistanceKm: 50,
		Latitude:      40.7128,
		Longitude:     -74.0060,
	}

	profiles, err := client.QueryCandidates(context.Background(), "requester", prefs, []string{"excluded"}, 100)

	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "keep", profiles[0].UserID)
}

func TestRecordEventPostsDocument(t *testing.T) {
	var posted map[string]interface{}

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "match_events")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	event := &matching.MatchEvent{
		UserID:       "user-1",
		TargetUserID: "user-2",
		EventType:    matching.EventLiked,
		CreatedAt:    time.Now(),
	}

	err := client.RecordEvent(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, "user-1", posted["user_id"])
	assert.Equal(t, "user-2", posted["target_user_id"])
	assert.Equal(t, "liked", posted["event_type"])
	assert.NotEmpty(t, posted["$id"])
}

func TestRecordEventServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	event := &matching.MatchEvent{UserID: "a", TargetUserID: "b", EventType: matching.EventViewed, CreatedAt: time.Now()}

	assert.Error(t, client.RecordEvent(context.Background(), event))
}
