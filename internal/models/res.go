package models

type ApiResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Field     string      `json:"field,omitempty"`
	Total     int         `json:"total,omitempty"`
	RequestID interface{} `json:"request_id,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func ListResponse(data interface{}, total int) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Total:   total,
	}
}
