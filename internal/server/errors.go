package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutejaLucky/docExtract/internal/common"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrExtraction):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"request_id": GetRequestID(c)}

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		body["code"] = appErr.Code
		if status < http.StatusInternalServerError && appErr.Cause != nil {
			body["detail"] = appErr.Cause.Error()
		}
	} else {
		body["error"] = "Internal server error"
	}
	c.JSON(status, body)
}
