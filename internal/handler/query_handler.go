package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/service"
	"github.com/jengzang/locstore-backend-go/pkg/response"
)

// QueryHandler handles range planning and scans
type QueryHandler struct {
	queryService *service.QueryService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryService *service.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
	}
}

// Plan handles GET /api/v1/plan
func (h *QueryHandler) Plan(c *gin.Context) {
	var filter models.BoxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.queryService.Plan(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Scan handles GET /api/v1/scan
func (h *QueryHandler) Scan(c *gin.Context) {
	var filter models.ScanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.queryService.Scan(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, page)
}

func writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidQuery) {
		response.BadRequest(c, err.Error())
		return
	}
	_ = c.Error(err)
	response.InternalError(c, "internal error")
}
