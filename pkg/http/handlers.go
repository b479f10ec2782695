package http

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

// issueFields turns zog issue keys into wire field names. Keys without a
// name, like the aggregate first-issue key, are skipped.
func issueFields[M ~map[string]V, V any](issues M, names map[string]string) []string {
	fields := []string{}
	for key := range issues {
		if name, ok := names[key]; ok {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		fields = append(fields, "body")
	}
	return fields
}

type CreateGreenhouseRequest struct {
	Name          string `json:"name"`
	PlantTemplate string `json:"plant_template"`
}

var createGreenhouseRequestSchema = z.Struct(z.Shape{
	"name":          z.String().Max(120),
	"plantTemplate": z.String().Max(120),
})

var createGreenhouseFieldNames = map[string]string{
	"name":          "name",
	"plantTemplate": "plant_template",
}

func (rs *RestfulServer) CreateGreenhouse(c *gin.Context) {
	var req CreateGreenhouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.abortWithError(c, common.InvalidInput("malformed request body", "body"))
		return
	}
	if issues := createGreenhouseRequestSchema.Validate(&req); len(issues) > 0 {
		rs.abortWithError(c, common.InvalidInput("invalid greenhouse", issueFields(issues, createGreenhouseFieldNames)...))
		return
	}

	provisioned, err := rs.Core.Provisioning.CreateGreenhouse(c.Request.Context(), ownerOf(c), req.Name, req.PlantTemplate)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, provisioned)
}

func (rs *RestfulServer) ListGreenhouses(c *gin.Context) {
	statuses, err := rs.Core.Status.ListStatuses(c.Request.Context(), ownerOf(c))
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statuses)
}

func (rs *RestfulServer) GetGreenhouse(c *gin.Context) {
	status, err := rs.Core.Status.ProjectStatus(c.Request.Context(), greenhouseOf(c).ID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

type RenameGreenhouseRequest struct {
	Name string `json:"name"`
}

var renameGreenhouseRequestSchema = z.Struct(z.Shape{
	"name": z.String().Max(120),
})

func (rs *RestfulServer) RenameGreenhouse(c *gin.Context) {
	var req RenameGreenhouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.abortWithError(c, common.InvalidInput("malformed request body", "body"))
		return
	}
	if issues := renameGreenhouseRequestSchema.Validate(&req); len(issues) > 0 {
		rs.abortWithError(c, common.InvalidInput("invalid name", "name"))
		return
	}

	greenhouse, err := rs.Core.Provisioning.RenameGreenhouse(c.Request.Context(), ownerOf(c), greenhouseOf(c).ID, req.Name)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, greenhouse)
}

func (rs *RestfulServer) DeleteGreenhouse(c *gin.Context) {
	greenhouseID := greenhouseOf(c).ID

	if err := rs.Core.Provisioning.DeleteGreenhouse(c.Request.Context(), ownerOf(c), greenhouseID); err != nil {
		rs.abortWithError(c, err)
		return
	}
	rs.forgetLimiter(greenhouseID)

	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) GetSetpoint(c *gin.Context) {
	setpoint, err := rs.Core.Setpoint.GetSetpoint(c.Request.Context(), greenhouseOf(c).ID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, setpoint)
}

func (rs *RestfulServer) UpdateSetpoint(c *gin.Context) {
	var patch models.SetpointPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		rs.abortWithError(c, common.InvalidInput("malformed request body", "body"))
		return
	}

	setpoint, err := rs.Core.Setpoint.UpdateSetpoint(c.Request.Context(), greenhouseOf(c).ID, patch)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, setpoint)
}

func (rs *RestfulServer) GetHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			rs.abortWithError(c, common.InvalidInput("limit must be an integer", "limit"))
			return
		}
	}

	points, err := rs.Core.History.GetHistory(c.Request.Context(), greenhouseOf(c).ID, c.Query("parameter"), limit)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required().GT(0),
	"burst": z.Int().Required().GTE(1),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	var req LimiterRequest
	if issues := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); len(issues) > 0 {
		rs.abortWithError(c, common.InvalidInput("invalid limiter", issueFields(issues, map[string]string{
			"rate":  "rate",
			"burst": "burst",
		})...))
		return
	}

	limits := rs.SetLimiter(greenhouseOf(c).ID, req.Rate, req.Burst)

	c.JSON(http.StatusOK, limits)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
