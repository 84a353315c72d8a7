package errors

// Fixed messages per status. The 404 text matches what existing clients
// of the trivia API already check for.
const (
	MsgBadRequest       = "bad request"
	MsgNotFound         = "bad request"
	MsgMethodNotAllowed = "method not allowed"
	MsgUnprocessable    = "unprocessable"
	MsgUnauthorized     = "unauthorized"
	MsgInternalError    = "internal server error"
)
