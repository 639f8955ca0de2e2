package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/service"
	"github.com/jengzang/locstore-backend-go/pkg/response"
)

// RunHandler exposes ingest run history
type RunHandler struct {
	runService *service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// List handles GET /api/v1/report/runs
func (h *RunHandler) List(c *gin.Context) {
	var filter models.RunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.runService.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
