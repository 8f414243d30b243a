package domain

import "time"

// PendingLink records a link request that waits for confirmation from the target platform.
// It is keyed by (HolderUserID, TargetPlatform); a newer request replaces an older one.
type PendingLink struct {
	ID             string    `json:"id" bson:"_id"`
	HolderUserID   string    `json:"holder_user_id" bson:"holder_user_id"`
	OriginPlatform string    `json:"origin_platform" bson:"origin_platform"`
	OriginID       string    `json:"origin_id,omitempty" bson:"origin_id,omitempty"`
	OriginUsername string    `json:"origin_username" bson:"origin_username"`
	TargetPlatform string    `json:"target_platform" bson:"target_platform"`
	TargetUsername string    `json:"target_username" bson:"target_username"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt      time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether the link can no longer be confirmed
func (p *PendingLink) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}
