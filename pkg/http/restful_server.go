package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/core"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

const (
	HeaderOwnerID = "X-Owner-ID"

	ctxKeyOwnerID    = "owner_id"
	ctxKeyGreenhouse = "greenhouse"
)

// GinMode picks the gin mode for GO_ENV. Test binaries default to test mode.
func GinMode() string {
	switch {
	case common.IsProduction():
		return gin.ReleaseMode
	case common.IsDevelopment():
		return gin.DebugMode
	case common.IsTestEnv():
		return gin.TestMode
	}
	return gin.DebugMode
}

type RestfulServer struct {
	Server           *gin.Engine
	Core             *core.Core
	RateLimiterStore *core.RateLimiterStore
	CorsOrigins      []string
}

func (rs *RestfulServer) GetLimiter(greenhouseID uuid.UUID) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(greenhouseID)
	}
}

func (rs *RestfulServer) CheckGreenhouseLimiter(greenhouseID uuid.UUID) bool {
	limiter := rs.GetLimiter(greenhouseID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

// SetLimiter overrides the greenhouse limits and reports what is now applied.
// Without a store nothing is throttled and the request limits are echoed.
func (rs *RestfulServer) SetLimiter(greenhouseID uuid.UUID, greenhouseRate float64, greenhouseBurst int) core.RateLimit {
	limits := core.RateLimit{Rate: rate.Limit(greenhouseRate), Burst: greenhouseBurst}
	if rs.RateLimiterStore == nil {
		return limits
	}
	rs.RateLimiterStore.SetLimits(greenhouseID, limits)
	return rs.RateLimiterStore.Limits(greenhouseID)
}

func (rs *RestfulServer) forgetLimiter(greenhouseID uuid.UUID) {
	if rs.RateLimiterStore != nil {
		rs.RateLimiterStore.Forget(greenhouseID)
	}
}

func (rs *RestfulServer) Setup() {
	if len(rs.CorsOrigins) > 0 {
		rs.Server.Use(cors.New(cors.Config{
			AllowOrigins: rs.CorsOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", HeaderOwnerID},
			MaxAge:       12 * time.Hour,
		}))
	}

	rs.Server.GET("/healthz", rs.HealthCheck)

	greenhouses := rs.Server.Group("/greenhouses", rs.RequireOwner)
	{
		greenhouses.POST("", rs.CreateGreenhouse)
		greenhouses.GET("", rs.ListGreenhouses)

		greenhouse := greenhouses.Group("/:greenhouse_id", rs.RequireGreenhouse)
		greenhouse.POST("/limiter", rs.PostLimiter)

		limited := greenhouse.Group("", rs.LimitGreenhouse)
		{
			limited.GET("", rs.GetGreenhouse)
			limited.PATCH("", rs.RenameGreenhouse)
			limited.DELETE("", rs.DeleteGreenhouse)
			limited.GET("/setpoint", rs.GetSetpoint)
			limited.PATCH("/setpoint", rs.UpdateSetpoint)
			limited.GET("/history", rs.GetHistory)
		}
	}
}

// RequireOwner resolves the caller from the X-Owner-ID header.
func (rs *RestfulServer) RequireOwner(c *gin.Context) {
	ownerID, err := uuid.Parse(c.GetHeader(HeaderOwnerID))
	if err != nil || ownerID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + HeaderOwnerID})
		return
	}
	c.Set(ctxKeyOwnerID, ownerID)
	c.Next()
}

// RequireGreenhouse loads the greenhouse named in the path. A greenhouse of
// another owner is reported exactly like a missing one.
func (rs *RestfulServer) RequireGreenhouse(c *gin.Context) {
	greenhouseID, err := uuid.Parse(c.Param("greenhouse_id"))
	if err != nil {
		rs.abortWithError(c, common.InvalidInput("invalid greenhouse id", "greenhouse_id"))
		return
	}

	greenhouse, err := rs.Core.Provisioning.GetGreenhouse(c.Request.Context(), ownerOf(c), greenhouseID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}
	c.Set(ctxKeyGreenhouse, greenhouse)
	c.Next()
}

func (rs *RestfulServer) LimitGreenhouse(c *gin.Context) {
	if !rs.CheckGreenhouseLimiter(greenhouseOf(c).ID) {
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}
	c.Next()
}

func ownerOf(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxKeyOwnerID).(uuid.UUID)
}

func greenhouseOf(c *gin.Context) *models.Greenhouse {
	return c.MustGet(ctxKeyGreenhouse).(*models.Greenhouse)
}

func statusCodeOf(err error) int {
	switch common.KindOf(err) {
	case common.ErrInvalidInput:
		return http.StatusBadRequest
	case common.ErrNotFound:
		return http.StatusNotFound
	case common.ErrConflict:
		return http.StatusConflict
	case common.ErrTransientChannel:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestfulServer) abortWithError(c *gin.Context, err error) {
	code := statusCodeOf(err)
	if code >= http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	body := gin.H{"error": err.Error()}
	if fields := common.FieldsOf(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.AbortWithStatusJSON(code, body)
}
