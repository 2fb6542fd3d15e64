package authority

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prizewheel/internal/models"
)

// HTTPHandler exposes the authority over the wire contract the session
// gateway consumes.
type HTTPHandler struct {
	service  *Service
	validate *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the authority API routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/users/register", h.Register)
	api.POST("/spin", h.Spin)
	api.GET("/wheel", h.WheelConfig)
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Register handles POST /api/users/register.
func (h *HTTPHandler) Register(c *gin.Context) {
	var form models.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorEnvelope{
			Error:   "VALIDATION_ERROR",
			Message: "All of first name, last name, email and phone are required.",
		})
		return
	}
	form.Normalize()
	if err := h.validate.Struct(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorEnvelope{
			Error:   "VALIDATION_ERROR",
			Message: "Please check your input and try again.",
		})
		return
	}
	c.JSON(http.StatusOK, h.service.Register(form))
}

// Spin handles POST /api/spin. A second spin for the same participant
// answers 409 with the ALREADY_SPUN envelope.
func (h *HTTPHandler) Spin(c *gin.Context) {
	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorEnvelope{
			Error:   "VALIDATION_ERROR",
			Message: "participantId is required.",
		})
		return
	}

	result, err := h.service.Spin(req.ParticipantID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySpun):
			c.JSON(http.StatusConflict, models.ErrorEnvelope{
				Error:   models.CodeAlreadySpun,
				Message: "You have already participated in this wheel spin.",
				HasSpun: true,
			})
		case errors.Is(err, ErrUnknownParticipant):
			c.JSON(http.StatusNotFound, models.ErrorEnvelope{
				Error:   "UNKNOWN_PARTICIPANT",
				Message: "Participant not found. Please register first.",
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorEnvelope{
				Error:   "INTERNAL_ERROR",
				Message: "An unexpected error occurred. Please try again.",
			})
		}
		return
	}
	c.JSON(http.StatusOK, models.SpinResponse{Result: *result, HasSpun: true})
}

// WheelConfig handles GET /api/wheel.
func (h *HTTPHandler) WheelConfig(c *gin.Context) {
	c.JSON(http.StatusOK, models.WheelConfig{Segments: h.service.Config()})
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
