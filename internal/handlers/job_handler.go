package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/pkg/utils"
)

type JobHandler struct {
	jobRepo repository.JobRepository
}

func NewJobHandler(jobRepo repository.JobRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

// GET /api/v1/admin/jobs
func (h *JobHandler) List(c *fiber.Ctx) error {
	controls, err := h.jobRepo.ListControls(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list jobs")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Jobs retrieved successfully", controls)
}

// POST /api/v1/admin/jobs/:name/pause
func (h *JobHandler) Pause(c *fiber.Ctx) error {
	return h.setPaused(c, true)
}

// POST /api/v1/admin/jobs/:name/resume
func (h *JobHandler) Resume(c *fiber.Ctx) error {
	return h.setPaused(c, false)
}

func (h *JobHandler) setPaused(c *fiber.Ctx, paused bool) error {
	name := c.Params("name")
	if name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing job name")
	}

	control, err := h.jobRepo.SetPaused(c.Context(), name, paused)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update job")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Job updated successfully", control)
}

// GET /api/v1/admin/jobs/:name/executions
func (h *JobHandler) ListExecutions(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing job name")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	executions, total, err := h.jobRepo.ListExecutions(c.Context(), name, page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list executions")
	}

	return utils.PaginatedSuccessResponse(c, executions, page, limit, total)
}
