package beename

// Log messages
const (
	LogMsgNameUploaded       = "Bee name uploaded"
	LogMsgNameDeleted        = "Bee name deleted"
	LogMsgSuggestionReceived = "Bee name suggestion received"
	LogMsgSuggestionAccepted = "Bee name suggestion accepted"
	LogMsgSuggestionRejected = "Bee name suggestion rejected"
	LogMsgPublishFailed      = "Failed to publish bee name event"
)

// Error contexts
const (
	ErrContextRandom      = "failed to pick bee name: %w"
	ErrContextUpload      = "failed to upload bee name %q: %w"
	ErrContextDelete      = "failed to delete bee name %q: %w"
	ErrContextSubmit      = "failed to submit bee name %q: %w"
	ErrContextSuggestions = "failed to list suggestions: %w"
	ErrContextAccept      = "failed to accept suggestion %q: %w"
	ErrContextReject      = "failed to reject suggestion %q: %w"
)
