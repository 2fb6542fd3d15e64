package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prizewheel/internal/models"
	"prizewheel/internal/services"
)

type memStore struct {
	mu     sync.Mutex
	record *models.ParticipantRecord
}

func (m *memStore) Load() (*models.ParticipantRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return nil, false
	}
	record := *m.record
	return &record, true
}

func (m *memStore) Save(record *models.ParticipantRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *record
	m.record = &saved
}

func (m *memStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
}

type stubGateway struct{}

func (stubGateway) WheelConfig(context.Context) ([]models.WheelSegment, error) {
	return []models.WheelSegment{
		{Key: "DISCOUNT_10", Label: "10% Off"},
		{Key: "TRY_AGAIN", Label: "Try Again"},
	}, nil
}

func (stubGateway) Register(_ context.Context, form models.RegistrationForm) (*models.RegistrationResponse, error) {
	return &models.RegistrationResponse{ParticipantID: "u1"}, nil
}

func (stubGateway) Spin(context.Context, string) (*models.SpinResult, error) {
	return &models.SpinResult{Key: "DISCOUNT_10", Label: "10% Off", IsWinner: true}, nil
}

type manualDriver struct {
	mu   sync.Mutex
	done func(int)
}

func (d *manualDriver) Spin(_, target int, done func(landed int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = done
}

func (d *manualDriver) fire() {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	done(0)
}

func newTestRouter(t *testing.T, driver *manualDriver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	session := services.NewSession(context.Background(), &memStore{}, stubGateway{}, driver)
	router := gin.New()
	NewHTTPHandler(session).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, services.Snapshot) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var snap services.Snapshot
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	}
	return w, snap
}

func TestRoutes_FullJourney(t *testing.T) {
	driver := &manualDriver{}
	router := newTestRouter(t, driver)

	w, snap := do(t, router, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.PhaseDisclaimer, snap.Phase)
	assert.Len(t, snap.Segments, 2)

	_, snap = do(t, router, http.MethodPost, "/session/disclaimer/accept", nil)
	assert.Equal(t, services.PhaseHome, snap.Phase)

	_, snap = do(t, router, http.MethodPost, "/session/start", nil)
	assert.Equal(t, services.PhaseRegistration, snap.Phase)

	form := models.RegistrationForm{
		FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "+97412345678",
	}
	w, snap = do(t, router, http.MethodPost, "/session/register", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.PhaseReadyToSpin, snap.Phase)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "u1", snap.Record.ParticipantID)

	_, snap = do(t, router, http.MethodPost, "/session/spin", nil)
	assert.Equal(t, services.PhaseSpinning, snap.Phase)

	driver.fire()
	_, snap = do(t, router, http.MethodGet, "/session", nil)
	assert.Equal(t, services.PhaseResultShown, snap.Phase)
	require.NotNil(t, snap.Record.Result)
	assert.Equal(t, "10% Off", snap.Record.Result.Label)

	_, snap = do(t, router, http.MethodPost, "/session/result/dismiss", nil)
	assert.Equal(t, services.PhaseAlreadyPlayed, snap.Phase)

	_, snap = do(t, router, http.MethodPost, "/session/home", nil)
	assert.Equal(t, services.PhaseHome, snap.Phase)
}

func TestRoutes_InvalidPhaseIsConflict(t *testing.T) {
	router := newTestRouter(t, &manualDriver{})

	w, _ := do(t, router, http.MethodPost, "/session/spin", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope models.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_PHASE", envelope.Error)
}

func TestRoutes_MalformedRegistrationBody(t *testing.T) {
	router := newTestRouter(t, &manualDriver{})
	do(t, router, http.MethodPost, "/session/disclaimer/accept", nil)
	do(t, router, http.MethodPost, "/session/start", nil)

	req := httptest.NewRequest(http.MethodPost, "/session/register", bytes.NewReader([]byte("{oops")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_Health(t *testing.T) {
	router := newTestRouter(t, &manualDriver{})
	w, _ := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
