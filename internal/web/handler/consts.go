package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of every JSON route.
	APIPath = RootPath + "api"

	// RequestIDKey is the fiber.Locals key of the request id.
	RequestIDKey = "requestid"

	// ErrNilAppFatalLogMsg is used if app, cfg or the orchestrator pointer is nil.
	ErrNilAppFatalLogMsg = "app, cfg or orchestrator is nil"

	// MsgInvalidBody is returned when a request body can not be decoded.
	MsgInvalidBody = "Invalid request body"
)
