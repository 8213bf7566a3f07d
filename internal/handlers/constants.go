package handlers

const (
	ErrInvalidFormData     = "Invalid form data"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrBackendUnavailable  = "Could not reach the server. Please try again."
)
