// internal/appwrite/client.go
// HTTP client for the Appwrite document store that owns profiles,
// preferences, and match events.

package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumeapp/lume-algo/internal/matching"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnauthorized = errors.New("unauthorized: invalid API key or project")
)

// Collections holds the collection IDs this service reads and writes.
type Collections struct {
	UserProfiles    string
	UserPreferences string
	MatchEvents     string
	UserMatches     string
}

// Client talks to the Appwrite REST API. Safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	projectID   string
	databaseID  string
	collections Collections
	http        *http.Client
}

// NewClient builds a client with a 30 second request timeout.
func NewClient(baseURL, apiKey, projectID, databaseID string, collections Collections) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		projectID:   projectID,
		databaseID:  databaseID,
		collections: collections,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

// documentList is the shape of an Appwrite list-documents response.
type documentList struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

// GetProfile fetches a single profile by user ID.
func (c *Client) GetProfile(ctx context.Context, userID string) (*matching.Profile, error) {
	doc, err := c.firstDocument(ctx, c.collections.UserProfiles, userID)
	if err != nil {
		return nil, err
	}

	var profile matching.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// GetPreferences fetches the matching preferences for a user.
func (c *Client) GetPreferences(ctx context.Context, userID string) (*matching.Preferences, error) {
	doc, err := c.firstDocument(ctx, c.collections.UserPreferences, userID)
	if err != nil {
		return nil, err
	}

	var prefs matching.Preferences
	if err := json.Unmarshal(doc, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &prefs, nil
}

// QueryCandidates pulls plausible candidates for the given preferences. The
// store-side query pushes down active/timeout flags, gender, age, and the
// bounding box; ids are re-checked here in case the store returns stale rows.
func (c *Client) QueryCandidates(ctx context.Context, userID string, prefs *matching.Preferences, excludeIDs []string, limit int) ([]*matching.Profile, error) {
	queries := []string{
		`equal("isActive", true)`,
		`equal("isTimeout", false)`,
		fmt.Sprintf(`notEqual("userId", %q)`, userID),
	}

	if len(prefs.PreferredGenders) > 0 {
		quoted := make([]string, 0, len(prefs.PreferredGenders))
		for _, g := range prefs.PreferredGenders {
			quoted = append(quoted, strconv.Quote(g))
		}
		queries = append(queries, fmt.Sprintf(`in("gender", [%s])`, strings.Join(quoted, ",")))
	}

	queries = append(queries,
		fmt.Sprintf(`greaterThan("age", %d)`, prefs.MinAge-1),
		fmt.Sprintf(`lessThan("age", %d)`, prefs.MaxAge+1),
	)

	box := matching.BoundingBoxFor(prefs.Latitude, prefs.Longitude, prefs.MaxDistanceKm)
	queries = append(queries,
		fmt.Sprintf(`greaterThan("latitude", %g)`, box.MinLat),
		fmt.Sprintf(`lessThan("latitude", %g)`, box.MaxLat),
		fmt.Sprintf(`greaterThan("longitude", %g)`, box.MinLon),
		fmt.Sprintf(`lessThan("longitude", %g)`, box.MaxLon),
	)

	for _, id := range excludeIDs {
		queries = append(queries, fmt.Sprintf(`notEqual("userId", %q)`, id))
	}

	if limit > 0 {
		queries = append(queries, fmt.Sprintf(`limit(%d)`, limit))
	}

	list, err := c.listDocuments(ctx, c.collections.UserProfiles, queries)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(excludeIDs)+1)
	excluded[userID] = struct{}{}
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	profiles := make([]*matching.Profile, 0, len(list.Documents))
	for _, doc := range list.Documents {
		var p matching.Profile
		if err := json.Unmarshal(unwrapDocument(doc), &p); err != nil {
			// Skip malformed rows rather than failing the whole query.
			continue
		}
		if _, skip := excluded[p.UserID]; skip {
			continue
		}
		profiles = append(profiles, &p)
	}

	log.Printf("appwrite: queried %d candidates (total: %d)", len(profiles), list.Total)

	return profiles, nil
}

// RecordEvent writes a match event document. The caller treats failures as
// best-effort.
func (c *Client) RecordEvent(ctx context.Context, event *matching.MatchEvent) error {
	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents",
		c.baseURL, c.databaseID, c.collections.MatchEvents)

	payload := map[string]interface{}{
		"$id":            uuid.New().String(),
		"user_id":        event.UserID,
		"target_user_id": event.TargetUserID,
		"event_type":     string(event.EventType),
		"created_at":     event.CreatedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("event request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// firstDocument queries a collection by userId and returns the first hit.
func (c *Client) firstDocument(ctx context.Context, collection, userID string) (json.RawMessage, error) {
	list, err := c.listDocuments(ctx, collection, []string{fmt.Sprintf(`equal("userId", %q)`, userID)})
	if err != nil {
		return nil, err
	}
	if len(list.Documents) == 0 {
		return nil, fmt.Errorf("%w: user %s in %s", ErrNotFound, userID, collection)
	}
	return unwrapDocument(list.Documents[0]), nil
}

func (c *Client) listDocuments(ctx context.Context, collection string, queries []string) (*documentList, error) {
	queriesJSON, err := json.Marshal(queries)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents?query=%s",
		c.baseURL, c.databaseID, collection, url.QueryEscape(string(queriesJSON)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collection, err)
	}

	var list documentList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}
	return &list, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Appwrite-Key", c.apiKey)
	req.Header.Set("X-Appwrite-Project", c.projectID)
}

// unwrapDocument handles both bare documents and documents nested under a
// "data" field.
func unwrapDocument(doc json.RawMessage) json.RawMessage {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(doc, &wrapper); err == nil && len(wrapper.Data) > 0 {
		return wrapper.Data
	}
	return doc
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("API returned status %d", code)
	}
}
