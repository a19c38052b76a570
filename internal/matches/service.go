// internal/matches/service.go

package matches

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lumeapp/lume-algo/internal/appwrite"
	"github.com/lumeapp/lume-algo/internal/cache"
	"github.com/lumeapp/lume-algo/internal/matching"
	"github.com/lumeapp/lume-algo/internal/seen"
)

var (
	ErrProfileNotFound     = errors.New("user profile not found")
	ErrPreferencesNotFound = errors.New("user preferences not found")
	ErrInvalidEventType    = errors.New("event type must be one of: viewed, liked, passed, matched")
)

// ProfileStore is the document-store contract the service depends on.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*matching.Profile, error)
	GetPreferences(ctx context.Context, userID string) (*matching.Preferences, error)
	QueryCandidates(ctx context.Context, userID string, prefs *matching.Preferences, excludeIDs []string, limit int) ([]*matching.Profile, error)
	RecordEvent(ctx context.Context, event *matching.MatchEvent) error
}

// ResultCache is the slice of the cache the service uses.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// Config carries the request-shaping knobs.
type Config struct {
	DefaultLimit    int
	MaxLimit        int
	CandidateFanout int // store query fetches limit * fanout candidates
}

type Service interface {
	FindMatches(ctx context.Context, req *FindMatchesRequest) (*FindMatchesResponse, error)
	RecordEvent(ctx context.Context, req *RecordEventRequest) (*RecordEventResponse, error)
	GetSeenProfiles(ctx context.Context, userID string) (*SeenProfilesResponse, error)
	GetSeenStats(ctx context.Context, userID string) (*seen.Stats, error)
	ClearSeen(ctx context.Context, userID string) (*ClearSeenResponse, error)
	HealthCheck(ctx context.Context) error
}

type service struct {
	store   ProfileStore
	seen    seen.Repository
	cache   ResultCache
	matcher *matching.Matcher
	cfg     Config
}

func NewService(store ProfileStore, seenRepo seen.Repository, resultCache ResultCache, matcher *matching.Matcher, cfg Config) Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.CandidateFanout <= 0 {
		cfg.CandidateFanout = 5
	}

	return &service{
		store:   store,
		seen:    seenRepo,
		cache:   resultCache,
		matcher: matcher,
		cfg:     cfg,
	}
}

// FindMatches runs the full flow: seen-profile exclusion, profile and
// preference lookup, candidate query, and the ranking pipeline.
func (s *service) FindMatches(ctx context.Context, req *FindMatchesRequest) (*FindMatchesResponse, error) {
	started := time.Now()

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	// Only default-shaped requests hit the result cache; a custom limit or
	// client-side exclusion list would make the cached set wrong for them.
	cacheable := limit == s.cfg.DefaultLimit && len(req.ExcludeUserIDs) == 0
	if cacheable {
		var cached FindMatchesResponse
		if err := s.cache.Get(ctx, cache.MatchesKey(req.UserID), &cached); err == nil {
			recordFindMatches(len(cached.Matches), time.Since(started))
			return &cached, nil
		}
	}

	// Seen profiles come from Postgres. When that lookup fails we proceed
	// with client-provided exclusions only rather than failing the request.
	excludeIDs, err := s.seen.GetSeenProfileIDs(ctx, req.UserID)
	if err != nil {
		log.Printf("matches: seen lookup failed for %s, proceeding without: %v", req.UserID, err)
		excludeIDs = nil
	}
	excludeIDs = append(excludeIDs, req.ExcludeUserIDs...)

	profile, err := s.store.GetProfile(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, appwrite.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	prefs, err := s.store.GetPreferences(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, appwrite.ErrNotFound) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("fetch preferences: %w", err)
	}

	// The engine does not fetch the requester's location itself.
	prefs.Latitude = profile.Latitude
	prefs.Longitude = profile.Longitude

	candidates, err := s.store.QueryCandidates(ctx, req.UserID, prefs, excludeIDs, limit*s.cfg.CandidateFanout)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	result := s.matcher.FindMatches(prefs, candidates, limit)

	matching.RecordPipelineMetrics(result)
	recordFindMatches(len(result.Matches), time.Since(started))

	log.Printf("matches: returning %d matches for %s (from %d candidates)",
		len(result.Matches), req.UserID, result.TotalCandidates)

	resp := &FindMatchesResponse{
		Matches:      result.Matches,
		NextCursor:   nil,
		TotalResults: result.TotalCandidates,
	}

	if cacheable {
		if err := s.cache.Set(ctx, cache.MatchesKey(req.UserID), resp); err != nil {
			log.Printf("matches: failed to cache results for %s: %v", req.UserID, err)
		}
	}

	return resp, nil
}

// RecordEvent persists a match interaction. The Postgres write is the
// critical one; the document-store copy is analytics-only and failures
// there are logged, not surfaced. On success the requester's cached result
// set is invalidated so the next find reflects the interaction.
func (s *service) RecordEvent(ctx context.Context, req *RecordEventRequest) (*RecordEventResponse, error) {
	eventType, ok := matching.ParseEventType(req.EventType)
	if !ok {
		return nil, ErrInvalidEventType
	}

	if err := s.seen.RecordSeen(ctx, req.UserID, req.TargetUserID, eventType); err != nil {
		return nil, fmt.Errorf("record seen: %w", err)
	}

	event := &matching.MatchEvent{
		UserID:       req.UserID,
		TargetUserID: req.TargetUserID,
		EventType:    eventType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.RecordEvent(ctx, event); err != nil {
		log.Printf("matches: event stored in Postgres but document store write failed: %v", err)
	}

	if err := s.cache.Delete(ctx, cache.MatchesKey(req.UserID)); err != nil {
		log.Printf("matches: cache invalidation failed for %s: %v", req.UserID, err)
	}

	recordEvent(string(eventType))

	return &RecordEventResponse{
		Success: true,
		EventID: uuid.New().String(),
	}, nil
}

func (s *service) GetSeenProfiles(ctx context.Context, userID string) (*SeenProfilesResponse, error) {
	ids, err := s.seen.GetSeenProfileIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch seen profiles: %w", err)
	}

	return &SeenProfilesResponse{
		UserID:       userID,
		SeenProfiles: ids,
		Count:        len(ids),
	}, nil
}

func (s *service) GetSeenStats(ctx context.Context, userID string) (*seen.Stats, error) {
	return s.seen.GetStats(ctx, userID)
}

func (s *service) ClearSeen(ctx context.Context, userID string) (*ClearSeenResponse, error) {
	removed, err := s.seen.ClearSeen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("clear seen profiles: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.MatchesKey(userID)); err != nil {
		log.Printf("matches: cache invalidation failed for %s: %v", userID, err)
	}

	return &ClearSeenResponse{UserID: userID, Removed: removed}, nil
}

func (s *service) HealthCheck(ctx context.Context) error {
	return s.seen.HealthCheck(ctx)
}
