package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"

	"liyu1981.xyz/greenhouse-service/pkg/core/mocks"
	_ "liyu1981.xyz/greenhouse-service/pkg/testing"

	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/control"
	"liyu1981.xyz/greenhouse-service/pkg/control/controltest"
	"liyu1981.xyz/greenhouse-service/pkg/core"
	"liyu1981.xyz/greenhouse-service/pkg/db"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

func setupTestServer(t *testing.T) (*RestfulServer, *controltest.FakeClient) {
	common.SetTestLoggerNop()
	gin.SetMode(GinMode())

	database, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	coreObj := core.New(database)
	_, err = coreObj.Catalog.SeedTemplates(context.Background(), core.DefaultPlantTemplates())
	require.NoError(t, err)

	fake := controltest.NewFakeClient()
	publisher := control.NewPublisher(common.MqttConfig{
		TopicPrefix:    "greenhouse",
		QoS:            1,
		PublishTimeout: time.Second,
		OutboundQueue:  8,
	}, fake.Factory)
	require.NoError(t, publisher.Start())
	t.Cleanup(func() { _ = publisher.Close() })

	coreObj.WithServices(core.ServiceOpts{Publisher: publisher})

	rs := &RestfulServer{
		Server: gin.New(),
		Core:   coreObj,
		// no limiter by default, tests that need one assign rs.RateLimiterStore
	}
	rs.Setup()

	return rs, fake
}

func doRequest(rs *RestfulServer, method, path string, ownerID uuid.UUID, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ownerID != uuid.Nil {
		req.Header.Set(HeaderOwnerID, ownerID.String())
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createAlpha(t *testing.T, rs *RestfulServer, ownerID uuid.UUID) models.Provisioned {
	w := doRequest(rs, "POST", "/greenhouses", ownerID, CreateGreenhouseRequest{Name: "Alpha", PlantTemplate: "Tomato"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Provisioned](t, w)
}

func TestHealthCheck(t *testing.T) {
	rs, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGreenhouseLifecycle(t *testing.T) {
	rs, fake := setupTestServer(t)
	ownerID := uuid.New()

	p := createAlpha(t, rs, ownerID)
	assert.Equal(t, "Alpha", p.Greenhouse.Name)
	assert.Equal(t, ownerID, p.Greenhouse.OwnerID)
	assert.Equal(t, "Tomato", p.Setpoint.Plant)
	assert.Equal(t, 18.0, *p.Setpoint.TargetTempMin)
	assert.Equal(t, 26.0, *p.Setpoint.TargetTempMax)

	base := "/greenhouses/" + p.Greenhouse.ID.String()

	// no telemetry yet
	w := doRequest(rs, "GET", base, ownerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[models.GreenhouseStatus](t, w)
	assert.False(t, status.IsOnline)
	assert.Nil(t, status.LastReadingAt)
	for _, key := range []string{models.StatusTemperature, models.StatusHumidity, models.StatusLighting, models.StatusWaterLevel} {
		assert.Equal(t, models.Unknown, status.Parameters[key], key)
	}

	w = doRequest(rs, "PATCH", base+"/setpoint", ownerID, map[string]any{"target_temp_max": 28})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sp := decode[models.Setpoint](t, w)
	assert.Equal(t, 18.0, *sp.TargetTempMin)
	assert.Equal(t, 28.0, *sp.TargetTempMax)
	assert.Equal(t, 70.0, *sp.TargetHumAirMax)

	require.Eventually(t, func() bool { return len(fake.PublishedMessages()) == 1 }, time.Second, 5*time.Millisecond)
	published := fake.PublishedMessages()[0]
	assert.Equal(t, control.SetpointTopic("greenhouse", p.Greenhouse.ID), published.Topic)
	assert.JSONEq(t, `{
		"target_temp_min": 18,
		"target_temp_max": 28,
		"target_hum_air_max": 70,
		"target_light_intensity": 800,
		"irrigation_interval_minutes": 180,
		"irrigation_duration_seconds": 30
	}`, string(published.Payload))

	w = doRequest(rs, "GET", base+"/setpoint", ownerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 28.0, *decode[models.Setpoint](t, w).TargetTempMax)

	w = doRequest(rs, "PATCH", base, ownerID, RenameGreenhouseRequest{Name: "Beta"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Beta", decode[models.Greenhouse](t, w).Name)

	w = doRequest(rs, "GET", "/greenhouses", ownerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	statuses := decode[[]models.GreenhouseStatus](t, w)
	require.Len(t, statuses, 1)
	assert.Equal(t, "Beta", statuses[0].Name)

	w = doRequest(rs, "DELETE", base, ownerID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(rs, "GET", base, ownerID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnerRequired(t *testing.T) {
	rs, _ := setupTestServer(t)

	w := doRequest(rs, "GET", "/greenhouses", uuid.Nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/greenhouses", nil)
	req.Header.Set(HeaderOwnerID, "not-a-uuid")
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateGreenhouse_EdgeCases(t *testing.T) {
	rs, _ := setupTestServer(t)
	ownerID := uuid.New()

	{
		w := doRequest(rs, "POST", "/greenhouses", ownerID, CreateGreenhouseRequest{PlantTemplate: "Tomato"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"name"}, decode[errorBody](t, w).Fields)
	}

	{
		w := doRequest(rs, "POST", "/greenhouses", ownerID, CreateGreenhouseRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.ElementsMatch(t, []string{"name", "plant_template"}, decode[errorBody](t, w).Fields)
	}

	{
		w := doRequest(rs, "POST", "/greenhouses", ownerID, CreateGreenhouseRequest{Name: "Alpha", PlantTemplate: "Cactus"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	{
		w := doRequest(rs, "POST", "/greenhouses", ownerID, `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"body"}, decode[errorBody](t, w).Fields)
	}

	w := doRequest(rs, "GET", "/greenhouses", ownerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.GreenhouseStatus](t, w))
}

func TestGreenhouseOfAnotherOwner(t *testing.T) {
	rs, _ := setupTestServer(t)
	p := createAlpha(t, rs, uuid.New())
	stranger := uuid.New()
	base := "/greenhouses/" + p.Greenhouse.ID.String()

	assert.Equal(t, http.StatusNotFound, doRequest(rs, "GET", base, stranger, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(rs, "GET", base+"/setpoint", stranger, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(rs, "PATCH", base+"/setpoint", stranger, map[string]any{"target_temp_max": 30}).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(rs, "DELETE", base, stranger, nil).Code)

	w := doRequest(rs, "GET", "/greenhouses", stranger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.GreenhouseStatus](t, w))

	w = doRequest(rs, "GET", "/greenhouses/not-a-uuid", stranger, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"greenhouse_id"}, decode[errorBody](t, w).Fields)
}

func TestUpdateSetpoint_EdgeCases(t *testing.T) {
	rs, fake := setupTestServer(t)
	ownerID := uuid.New()
	p := createAlpha(t, rs, ownerID)
	path := "/greenhouses/" + p.Greenhouse.ID.String() + "/setpoint"

	{
		w := doRequest(rs, "PATCH", path, ownerID, map[string]any{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.ElementsMatch(t, models.SetpointPatchFields, decode[errorBody](t, w).Fields)
	}

	{
		// min above the stored max of 26
		w := doRequest(rs, "PATCH", path, ownerID, map[string]any{"target_temp_min": 30})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.ElementsMatch(t, []string{"target_temp_min", "target_temp_max"}, decode[errorBody](t, w).Fields)
	}

	{
		w := doRequest(rs, "PATCH", path, ownerID, map[string]any{"target_hum_air_max": 150})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"target_hum_air_max"}, decode[errorBody](t, w).Fields)
	}

	{
		w := doRequest(rs, "PATCH", path, ownerID, `{"target_temp_max": "warm"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := doRequest(rs, "GET", path, ownerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sp := decode[models.Setpoint](t, w)
	assert.Equal(t, 18.0, *sp.TargetTempMin)
	assert.Equal(t, 26.0, *sp.TargetTempMax)
	assert.Equal(t, 70.0, *sp.TargetHumAirMax)

	assert.Empty(t, fake.PublishedMessages())
}

func TestGetHistory(t *testing.T) {
	rs, _ := setupTestServer(t)
	ownerID := uuid.New()
	p := createAlpha(t, rs, ownerID)
	path := "/greenhouses/" + p.Greenhouse.ID.String() + "/history"

	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	for i := range 3 {
		_, err := rs.Core.Telemetry.AppendReading(context.Background(), &models.TelemetryReading{
			GreenhouseID: p.Greenhouse.ID,
			Time:         start.Add(time.Duration(i) * time.Minute),
			Sequence:     int64(i + 1),
			TempAir:      common.Ptr(20.0 + float64(i)),
		})
		require.NoError(t, err)
	}

	w := doRequest(rs, "GET", path+"?parameter=temperature&limit=2", ownerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	points := decode[[]models.HistoryPoint](t, w)
	require.Len(t, points, 2)
	assert.Equal(t, 21.0, points[0].Value)
	assert.Equal(t, 22.0, points[1].Value)
	assert.True(t, points[0].Time.Before(points[1].Time))

	w = doRequest(rs, "GET", path+"?parameter=co2", ownerID, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"parameter"}, decode[errorBody](t, w).Fields)

	w = doRequest(rs, "GET", path+"?parameter=temperature&limit=many", ownerID, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"limit"}, decode[errorBody](t, w).Fields)
}

func TestRateLimiter(t *testing.T) {
	rs, _ := setupTestServer(t)
	rs.RateLimiterStore = core.NewRateLimiterStore(rate.Every(time.Hour), 1)

	ownerID := uuid.New()
	p := createAlpha(t, rs, ownerID)
	base := "/greenhouses/" + p.Greenhouse.ID.String()

	assert.Equal(t, http.StatusOK, doRequest(rs, "GET", base, ownerID, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(rs, "GET", base, ownerID, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(rs, "GET", base+"/setpoint", ownerID, nil).Code)

	// the limiter endpoint itself is never throttled
	w := doRequest(rs, "POST", base+"/limiter", ownerID, LimiterRequest{Rate: 100, Burst: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, core.RateLimit{Rate: 100, Burst: 5}, decode[core.RateLimit](t, w))
	assert.Equal(t, core.RateLimit{Rate: 100, Burst: 5}, rs.RateLimiterStore.Limits(p.Greenhouse.ID))

	assert.Equal(t, http.StatusOK, doRequest(rs, "GET", base, ownerID, nil).Code)

	w = doRequest(rs, "POST", base+"/limiter", ownerID, map[string]any{"rate": 0, "burst": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// deleting the greenhouse drops its limiter
	assert.Equal(t, http.StatusNoContent, doRequest(rs, "DELETE", base, ownerID, nil).Code)
	assert.Equal(t, rate.Every(time.Hour), rs.RateLimiterStore.GetLimiter(p.Greenhouse.ID).Limit())
	assert.Empty(t, rs.RateLimiterStore.Overrides())
}

func TestStorageFailure(t *testing.T) {
	rs, _ := setupTestServer(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	mockIStatus := mocks.NewMockIStatus(ctrl)
	rs.Core.Status = mockIStatus
	mockIStatus.EXPECT().
		ListStatuses(gomock.Any(), gomock.Eq(ownerID)).
		Return(nil, common.StorageFailure("list statuses", assert.AnError)).
		Times(1)

	w := doRequest(rs, "GET", "/greenhouses", ownerID, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCors(t *testing.T) {
	common.SetTestLoggerNop()
	gin.SetMode(GinMode())

	rs := &RestfulServer{
		Server:      gin.New(),
		CorsOrigins: []string{"https://dashboard.example.com"},
	}
	rs.Setup()

	req := httptest.NewRequest("OPTIONS", "/greenhouses", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", HeaderOwnerID)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGinMode(t *testing.T) {
	t.Setenv(common.EnvKeyGoEnv, "production")
	assert.Equal(t, gin.ReleaseMode, GinMode())

	t.Setenv(common.EnvKeyGoEnv, "development")
	assert.Equal(t, gin.DebugMode, GinMode())

	t.Setenv(common.EnvKeyGoEnv, "")
	assert.Equal(t, gin.TestMode, GinMode())
}
