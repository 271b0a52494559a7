package helper

import "github.com/gin-gonic/gin"

const (
	ErrInvalidRequest   = "ERR_INVALID_REQUEST"
	ErrInvalidOperation = "ERR_INVALID_OPERATION"
	ErrUnauthorized     = "ERR_UNAUTHORIZED"
	ErrForbidden        = "ERR_FORBIDDEN"
	ErrNotFound         = "ERR_NOT_FOUND"
	ErrConflict         = "ERR_CONFLICT"
	ErrInvalidState     = "ERR_INVALID_STATE"
	ErrInternal         = "ERR_INTERNAL"
)

type APIResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func SendError(c *gin.Context, statusCode int, err error, errorCode string) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    "error",
		Error:      msg,
		ErrorCode:  errorCode,
	})
}

func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}
