package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse wraps data in the standard envelope.
func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

type PageLinks struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// PaginatedResponse is the review-list page envelope.
type PaginatedResponse struct {
	Links   PageLinks   `json:"links"`
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
