package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/ayuda/internal/services"
	"github.com/yoockh/ayuda/internal/utils"
)

type SummaryHandler struct {
	svc services.SummaryService
}

func NewSummaryHandler(svc services.SummaryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

type CreateSummaryRequest struct {
	Content         string `json:"content" binding:"required"`
	TranscriptionID string `json:"transcription_id"`
}

func (h *SummaryHandler) Create(c *gin.Context) {
	var req CreateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SummaryHandler.Create", "invalid request body", err))
		return
	}

	row, err := h.svc.Create(c.Request.Context(), req.TranscriptionID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *SummaryHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SummaryHandler) Get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
