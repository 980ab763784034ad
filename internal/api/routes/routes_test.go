package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/ayuda/internal/api/handlers"
	"github.com/yoockh/ayuda/internal/api/middleware"
	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/services"
	"github.com/yoockh/ayuda/internal/utils"
)

type noPipeline struct{}

func (noPipeline) Run(context.Context, services.AudioUpload) (*services.PipelineResult, error) {
	return nil, utils.E(utils.CodeInternal, "noPipeline", "unused", nil)
}

type noSummaries struct{}

func (noSummaries) Create(context.Context, string, string) (*models.Summary, error) { return nil, nil }
func (noSummaries) Get(context.Context, string) (*models.Summary, error)            { return nil, nil }
func (noSummaries) List(context.Context) ([]models.Summary, error)                  { return []models.Summary{}, nil }

type oneTranscription struct{}

func (oneTranscription) Create(context.Context, *models.Transcription) error { return nil }
func (oneTranscription) Get(_ context.Context, id string) (*models.Transcription, error) {
	if id != "tr-1" {
		return nil, utils.E(utils.CodeNotFound, "oneTranscription", "transcription not found", utils.ErrNotFound)
	}
	return &models.Transcription{ID: "tr-1", Text: "hello world"}, nil
}

func router(auth middleware.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Upload:        handlers.NewUploadHandler(noPipeline{}, 0),
		Summary:       handlers.NewSummaryHandler(noSummaries{}),
		Transcription: handlers.NewTranscriptionHandler(oneTranscription{}),
		Auth:          auth,
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPublicRoutes(t *testing.T) {
	r := router(middleware.JWTConfig{})

	if w := get(r, "/"); w.Code != http.StatusOK || w.Body.String() != "Hello World" {
		t.Fatalf("GET / = %d %q", w.Code, w.Body.String())
	}
	if w := get(r, "/ping"); w.Code != http.StatusOK {
		t.Fatalf("GET /ping = %d", w.Code)
	}
	if w := get(r, "/api/summaries"); w.Code != http.StatusOK {
		t.Fatalf("GET /api/summaries without auth configured = %d", w.Code)
	}
	if w := get(r, "/api/transcriptions/tr-1"); w.Code != http.StatusOK {
		t.Fatalf("GET transcription = %d", w.Code)
	}
	if w := get(r, "/api/transcriptions/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("GET missing transcription = %d", w.Code)
	}
}

func TestAPIRequiresTokenWhenConfigured(t *testing.T) {
	r := router(middleware.JWTConfig{Secret: "s3cret"})

	if w := get(r, "/api/summaries"); w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /api/summaries = %d, want 401", w.Code)
	}
	if w := get(r, "/ping"); w.Code != http.StatusOK {
		t.Fatalf("GET /ping must stay public, got %d", w.Code)
	}
}
