package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgMissingName           = "Request body is invalid"
	ErrMsgInvalidAmount         = "Invalid amount parameter"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgBeeNameNotFoundErr  = "Bee name not found"
	ErrMsgBeeNameExistsError  = "That bee name already exists"
	ErrMsgInvalidPlatformErr  = "Invalid platform"
	ErrMsgTimeoutError        = "Request timed out. Please try again."
)

// Log messages
const (
	LogMsgEncodeFailed       = "Failed to encode JSON response"
	LogMsgWriteFailed        = "Failed to write response buffer"
	LogMsgServiceError       = "Service call failed"
	LogMsgReadinessFailed    = "Readiness check failed"
	LogMsgRequestDecodeFail  = "Failed to decode request"
	LogMsgRequestDecoded     = "Request decoded"
	LogMsgMissingQueryParam  = "Missing query parameter"
	LogMsgLandingRenderFail  = "Failed to render landing page"
	LogMsgResolveUserFailed  = "Failed to resolve caller record"
	LogMsgLinkStatusNotFound = "Link status requested for unknown identity"
)
