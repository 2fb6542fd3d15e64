package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prizewheel/internal/models"
	"prizewheel/internal/services"
)

// HTTPHandler holds the dependencies for the HTTP handlers: the spin
// session the routes read from and send intents to.
type HTTPHandler struct {
	session *services.Session
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(session *services.Session) *HTTPHandler {
	return &HTTPHandler{session: session}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/session", h.GetSession)
	router.POST("/session/disclaimer/accept", h.AcceptDisclaimer)
	router.POST("/session/start", h.Start)
	router.POST("/session/register", h.SubmitRegistration)
	router.POST("/session/spin", h.RequestSpin)
	router.POST("/session/result/dismiss", h.DismissResult)
	router.POST("/session/home", h.ReturnHome)
	router.POST("/session/reset", h.Reset)
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// GetSession returns the current phase, participant record and wheel
// layout.
func (h *HTTPHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// AcceptDisclaimer handles the disclaimer acceptance intent.
func (h *HTTPHandler) AcceptDisclaimer(c *gin.Context) {
	h.intent(c, h.session.AcceptDisclaimer)
}

// Start handles the "start playing" intent from the home page.
func (h *HTTPHandler) Start(c *gin.Context) {
	h.intent(c, h.session.Start)
}

// SubmitRegistration handles the registration form submission.
func (h *HTTPHandler) SubmitRegistration(c *gin.Context) {
	var form models.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorEnvelope{
			Error:   "VALIDATION_ERROR",
			Message: "Please check your input and try again.",
		})
		return
	}
	h.intent(c, func() error {
		return h.session.SubmitRegistration(c.Request.Context(), form)
	})
}

// RequestSpin handles the spin intent. Repeated requests while a spin is in
// flight are absorbed by the session as no-ops.
func (h *HTTPHandler) RequestSpin(c *gin.Context) {
	h.intent(c, func() error {
		return h.session.RequestSpin(c.Request.Context())
	})
}

// DismissResult handles dismissing the revealed result.
func (h *HTTPHandler) DismissResult(c *gin.Context) {
	h.intent(c, h.session.DismissResult)
}

// ReturnHome handles navigating back home from the lock-out page.
func (h *HTTPHandler) ReturnHome(c *gin.Context) {
	h.intent(c, h.session.ReturnHome)
}

// Reset handles the full local reset back to an unregistered visitor.
func (h *HTTPHandler) Reset(c *gin.Context) {
	h.intent(c, h.session.Reset)
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// intent runs a session event and renders the resulting snapshot, mapping
// machine errors onto HTTP statuses.
func (h *HTTPHandler) intent(c *gin.Context, event func() error) {
	if err := event(); err != nil {
		status := http.StatusBadGateway
		code := "GATEWAY_ERROR"
		switch {
		case errors.Is(err, services.ErrInvalidPhase):
			status = http.StatusConflict
			code = "INVALID_PHASE"
		case errors.Is(err, services.ErrConfigUnavailable):
			status = http.StatusServiceUnavailable
			code = "CONFIG_UNAVAILABLE"
		case errors.Is(err, services.ErrValidation):
			status = http.StatusBadRequest
			code = "VALIDATION_ERROR"
		}
		logger.Infof("intent rejected (%s): %v", code, err)
		snap := h.session.Snapshot()
		message := snap.Error
		if message == "" {
			message = err.Error()
		}
		c.JSON(status, models.ErrorEnvelope{Error: code, Message: message})
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}
