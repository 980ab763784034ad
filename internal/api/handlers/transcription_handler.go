package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/ayuda/internal/services"
)

type TranscriptionHandler struct {
	svc services.TranscriptionService
}

func NewTranscriptionHandler(svc services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{svc: svc}
}

func (h *TranscriptionHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
