package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/navigator/internal/scheduler"
)

// MaintenanceRunner lists and triggers maintenance jobs.
type MaintenanceRunner interface {
	Jobs() []scheduler.JobStatus
	RunNow(ctx context.Context, name string) error
}

type MaintenanceController struct {
	runner MaintenanceRunner
}

func NewMaintenanceController(runner MaintenanceRunner) *MaintenanceController {
	return &MaintenanceController{runner: runner}
}

// Status handles GET /api/maintenance
func (mc *MaintenanceController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": mc.runner.Jobs()})
}

// Run handles POST /api/maintenance/:job
func (mc *MaintenanceController) Run(c *gin.Context) {
	name := c.Param("job")
	err := mc.runner.RunNow(c.Request.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		respondNotFound(c, "maintenance job")
	case err != nil:
		respondInternalError(c, err, "run "+name)
	default:
		respond(c, http.StatusAccepted, "Job "+name+" triggered", nil)
	}
}
