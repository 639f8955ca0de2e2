package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/valyala/fastjson"

	"github.com/jengzang/locstore-backend-go/internal/service"
	"github.com/jengzang/locstore-backend-go/pkg/response"
)

// maxParseBody bounds the request body of a parse call
const maxParseBody = 8 << 20

// ParseHandler parses raw feed lines on request
type ParseHandler struct {
	parseService *service.ParseService
	parser       fastjson.ParserPool
}

// NewParseHandler creates a new parse handler
func NewParseHandler(parseService *service.ParseService) *ParseHandler {
	return &ParseHandler{parseService: parseService}
}

// Parse handles POST /api/v1/parse. The body is {"lines": [...]} or a
// bare array of lines.
func (h *ParseHandler) Parse(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxParseBody))
	if err != nil {
		response.BadRequest(c, "Failed to read body")
		return
	}

	p := h.parser.Get()
	defer h.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		response.BadRequest(c, "Invalid JSON: "+err.Error())
		return
	}

	arr := v.GetArray("lines")
	if v.Type() == fastjson.TypeArray {
		arr, _ = v.Array()
	}
	if arr == nil {
		response.BadRequest(c, "Body must carry a lines array")
		return
	}

	lines := make([]string, 0, len(arr))
	for _, item := range arr {
		b, err := item.StringBytes()
		if err != nil {
			response.BadRequest(c, "Every line must be a string")
			return
		}
		lines = append(lines, string(b))
	}

	result, err := h.parseService.Parse(lines)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, result)
}
