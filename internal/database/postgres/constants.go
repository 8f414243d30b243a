package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when a pending link names a missing holder
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToCreateUser        = "failed to create user"
	ErrMsgFailedToUpdateUser        = "failed to update user"
	ErrMsgFailedToDeleteUser        = "failed to delete user"
	ErrMsgFailedToGetUser           = "failed to get user"
	ErrMsgFailedToSavePendingLink   = "failed to save pending link"
	ErrMsgFailedToGetPendingLink    = "failed to get pending link"
	ErrMsgFailedToDeletePendingLink = "failed to delete pending link"
	ErrMsgFailedToCleanupLinks      = "failed to cleanup expired pending links"
	ErrMsgFailedToGetBeeName        = "failed to get bee name"
	ErrMsgFailedToInsertBeeName     = "failed to insert bee name"
	ErrMsgFailedToDeleteBeeName     = "failed to delete bee name"
	ErrMsgFailedToCountBeeNames     = "failed to count bee names"
	ErrMsgFailedToListSuggestions   = "failed to list suggestions"
	ErrMsgFailedToAcceptSuggestion  = "failed to accept suggestion"
)

// userColumns is the select list shared by every user query
const userColumns = `user_id::text, discord, twitch, minecraft, steam, accounts, created_at, updated_at`

// platformColumns maps known platforms to their JSONB column
var platformColumns = map[string]string{
	"discord":   "discord",
	"twitch":    "twitch",
	"minecraft": "minecraft",
	"steam":     "steam",
}
