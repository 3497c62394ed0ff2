package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/ai-summarizer/pkg/errors"
	"github.com/yanqian/ai-summarizer/pkg/util"
)

const maxBodyBytes = 5 << 20

// Handler wires the HTTP transport to the summarizer domain.
type Handler struct {
	summarizerSvc summarizer.Service
	logger        *slog.Logger
	now           util.Clock
}

// NewHandler constructs the root HTTP handler.
func NewHandler(summarySvc summarizer.Service, logger *slog.Logger) *Handler {
	return &Handler{
		summarizerSvc: summarySvc,
		logger:        logger.With("component", "http.handler"),
		now:           util.NowUTC,
	}
}

// Index renders the single page frontend.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, gin.H{
		"Profiles": summarizer.Profiles(),
		"Default":  summarizer.ResolveProfile(nil).Name,
	})
}

// Summarize handles POST /summarize.
func (h *Handler) Summarize(c *gin.Context) {
	model := h.summarizerSvc.Model()
	if !model.Available() {
		abortWithError(c, fromDomainError(apperrors.Wrap(summarizer.CodeModelUnavailable, summarizer.MsgModelUnavailable, model.LoadError())))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large.", err))
			return
		}
		abortWithError(c, fromDomainError(apperrors.Wrap(summarizer.CodeMalformedRequest, summarizer.MsgSummaryFailed, err)))
		return
	}

	req, err := summarizer.DecodeRequest(raw)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	resp, err := h.summarizerSvc.Summarize(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HealthResponse reports whether the model loaded at startup.
type HealthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Provider  string `json:"provider"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	model := h.summarizerSvc.Model()
	resp := HealthResponse{
		Status:    "healthy",
		Model:     model.ID(),
		Provider:  model.Provider(),
		Timestamp: h.now().Format(time.RFC3339),
	}
	status := http.StatusOK
	if !model.Available() {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
