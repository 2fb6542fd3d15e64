package authority

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prizewheel/internal/gateway"
)

// newTestServer serves the authority API and returns a gateway client
// pointed at it, exercising both sides of the wire contract.
func newTestServer(t *testing.T) *gateway.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHTTPHandler(NewService(nil)).RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return gateway.NewClient(server.URL+"/api", time.Second)
}

func TestWireContract_RegisterSpinConflict(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	resp, err := client.Register(ctx, testRegistration)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ParticipantID)

	result, err := client.Spin(ctx, resp.ParticipantID)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Key)
	assert.NotEmpty(t, result.Label)

	_, err = client.Spin(ctx, resp.ParticipantID)
	require.ErrorIs(t, err, gateway.ErrAlreadySpun)

	// Re-registration reports the authoritative prior-spin status.
	resp, err = client.Register(ctx, testRegistration)
	require.NoError(t, err)
	assert.True(t, resp.HasSpun)
	require.NotNil(t, resp.Result)
	assert.Equal(t, result.Key, resp.Result.Key)
}

func TestWireContract_WheelConfig(t *testing.T) {
	client := newTestServer(t)

	segments, err := client.WheelConfig(context.Background())
	require.NoError(t, err)
	require.Len(t, segments, len(DefaultPrizes))
	for i, p := range DefaultPrizes {
		assert.Equal(t, p.Key, segments[i].Key)
		assert.Equal(t, p.Label, segments[i].Label)
	}
}

func TestWireContract_RegistrationValidation(t *testing.T) {
	client := newTestServer(t)

	bad := testRegistration
	bad.Phone = "12345" // not E.164
	_, err := client.Register(context.Background(), bad)
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestWireContract_UnknownParticipant(t *testing.T) {
	client := newTestServer(t)

	_, err := client.Spin(context.Background(), "nobody")
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNKNOWN_PARTICIPANT", apiErr.Code)
	assert.NotErrorIs(t, err, gateway.ErrAlreadySpun)
}
