package handlers

import (
	"errors"
	"net/http"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the background scheduler exposed over HTTP.
type JobRunner interface {
	Status() []background.JobStatus
	RunNow(name string) error
}

type JobHandlers struct {
	runner JobRunner
}

func NewJobHandlers(runner JobRunner) *JobHandlers {
	return &JobHandlers{runner: runner}
}

// ListJobs reports the schedule of the background jobs.
//
//	@Summary	Tareas programadas
//	@Tags		admin
//	@Success	200
//	@Router		/admin/tareas [get]
func (h *JobHandlers) ListJobs(c echo.Context) error {
	return list(c, h.runner.Status())
}

// TriggerJob runs a job immediately; the run itself is asynchronous.
func (h *JobHandlers) TriggerJob(c echo.Context) error {
	name := c.Param("nombre")
	if err := h.runner.RunNow(name); err != nil {
		if errors.Is(err, background.ErrUnknownJob) {
			return common.SendNotFoundError(c, "Job")
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Job triggered",
		"job":     name,
	})
}
