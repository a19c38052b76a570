// internal/matches/dto.go
package matches

import "github.com/lumeapp/lume-algo/internal/matching"

// DTOs for the matching API. Field names mirror the mobile client's
// camelCase payloads.

type FindMatchesRequest struct {
	UserID         string   `json:"userId" validate:"required"`
	Limit          int      `json:"limit" validate:"omitempty,min=1"`
	ExcludeUserIDs []string `json:"excludeUserIds,omitempty"`
	Cursor         *string  `json:"cursor,omitempty"`
}

type FindMatchesResponse struct {
	Matches []matching.ScoredMatch `json:"matches"`
	// Cursor continuation is not implemented; clients paginate by growing
	// excludeUserIds instead.
	NextCursor   *string `json:"nextCursor"`
	TotalResults int     `json:"totalResults"`
}

type RecordEventRequest struct {
	UserID       string `json:"userId" validate:"required"`
	TargetUserID string `json:"targetUserId" validate:"required"`
	EventType    string `json:"eventType" validate:"required"`
}

type RecordEventResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId"`
}

type SeenProfilesResponse struct {
	UserID       string   `json:"userId"`
	SeenProfiles []string `json:"seenProfiles"`
	Count        int      `json:"count"`
}

type ClearSeenResponse struct {
	UserID  string `json:"userId"`
	Removed int64  `json:"removed"`
}
