package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/middleware"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
	"github.com/noah-isme/atp-planner-api/pkg/middleware/session"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

func sessionFromContext(c *gin.Context) (string, bool) {
	id := session.Value(c)
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session id missing"))
		return "", false
	}
	return id, true
}

func respond(c *gin.Context, status int, data interface{}) {
	response.JSON(c, status, data, nil, middleware.ExtractMeta(c))
}

// scheduleFromQuery reads days=Senin,Rabu (or repeated days) and config[cat]=variant.
func scheduleFromQuery(c *gin.Context) dto.ScheduleInput {
	var days []string
	for _, raw := range c.QueryArray("days") {
		for _, day := range strings.Split(raw, ",") {
			if day = strings.TrimSpace(day); day != "" {
				days = append(days, day)
			}
		}
	}
	input := dto.ScheduleInput{Days: days, Config: c.QueryMap("config")}
	input.ApplyDefaults = c.Query("apply_defaults") == "true"
	return input
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
}
