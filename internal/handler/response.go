package handler

import "github.com/gin-gonic/gin"

// Response is the envelope of every JSON API reply.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{Status: "success", Data: data}
}

// NewMessageResponse is a success carrying a user-facing message.
func NewMessageResponse(message string, data interface{}) *Response {
	return &Response{Status: "success", Message: message, Data: data}
}

// NewErrorResponse reports message. Per-field details, if any, are listed
// under data.errors.
func NewErrorResponse(message string, details ...string) *Response {
	resp := &Response{Status: "error", Message: message}
	if len(details) > 0 {
		resp.Data = gin.H{"errors": details}
	}
	return resp
}
