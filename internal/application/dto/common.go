package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreatedResponse ID del registro creado por una intención.
type CreatedResponse struct {
	ID string `json:"id"`
}
