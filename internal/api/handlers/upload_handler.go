package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/ayuda/internal/services"
	"github.com/yoockh/ayuda/internal/utils"
)

// multipartOverhead covers form boundaries and headers around the audio part.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	pipeline services.PipelineService
	maxBytes int64
}

func NewUploadHandler(pipeline services.PipelineService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 100 << 20
	}
	return &UploadHandler{pipeline: pipeline, maxBytes: maxBytes}
}

// Upload runs the whole pipeline for the multipart field "audio" and answers
// once the summary is saved.
func (h *UploadHandler) Upload(c *gin.Context) {
	const op = "UploadHandler.Upload"

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file too large", err))
			return
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'audio'", err))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is empty", nil))
		return
	}
	if fh.Size > h.maxBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file too large", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}

	res, err := h.pipeline.Run(c.Request.Context(), services.AudioUpload{
		Filename:    fh.Filename,
		ContentType: contentType(fh.Filename, fh.Header.Get("Content-Type")),
		Data:        data,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// contentType prefers the client's declared type and falls back to the
// file extension.
func contentType(filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
