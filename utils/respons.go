package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// JSONResponse is the envelope every handler answers with.
type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// fieldError is implemented by validation errors that name the offending input.
type fieldError interface {
	error
	FieldName() string
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes err as the message, plus the field when err names one.
func RespondError(c *gin.Context, code int, err error) {
	resp := JSONResponse{Status: false, Message: err.Error()}
	var fe fieldError
	if errors.As(err, &fe) {
		resp.Field = fe.FieldName()
	}
	c.AbortWithStatusJSON(code, resp)
}
