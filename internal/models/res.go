package models

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error   string           `json:"error"`
	Details []FieldViolation `json:"details,omitempty"`
}

// MessageBody is returned by operations that have no row to hand back.
type MessageBody struct {
	Message string `json:"message"`
}

func ErrorResponse(err string) ErrorBody {
	return ErrorBody{Error: err}
}

func ValidationResponse(verr *ValidationError) ErrorBody {
	return ErrorBody{
		Error:   "Validation error",
		Details: verr.Violations,
	}
}

func MessageResponse(message string) MessageBody {
	return MessageBody{Message: message}
}
