package sse

// BeeNamePayload is the payload of every beename.* stream event
type BeeNamePayload struct {
	Name string `json:"name"`
}

// LinkPendingPayload is sent when a Discord link waits for confirmation
type LinkPendingPayload struct {
	TargetPlatform string `json:"target_platform"`
	TargetUsername string `json:"target_username"`
	OriginUsername string `json:"origin_username"`
}

// LinkMergedPayload is sent when two user records were merged
type LinkMergedPayload struct {
	SurvivorID string `json:"survivor_id"`
	RemovedID  string `json:"removed_id"`
}
