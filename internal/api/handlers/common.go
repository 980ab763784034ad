package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/ayuda/internal/services"
	"github.com/yoockh/ayuda/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
	Stage   string     `json:"stage,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		out := APIError{Code: ae.Code, Message: ae.Message}
		if stage, ok := services.FailedStage(err); ok {
			out.Stage = string(stage)
		}
		c.JSON(status, out)
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}
