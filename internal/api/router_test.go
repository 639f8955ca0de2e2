package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/config"
	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/handler"
	"github.com/jengzang/locstore-backend-go/internal/identity"
	"github.com/jengzang/locstore-backend-go/internal/lookup"
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/parser"
	"github.com/jengzang/locstore-backend-go/internal/repository"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
	"github.com/jengzang/locstore-backend-go/internal/service"
	"github.com/jengzang/locstore-backend-go/internal/spatial"
)

const (
	subscriber      = "310410543442410"
	proximityEntity = "90118545639148"
	cellValue       = "4|60|29|42.042345|-87.425352"
	lineNelos       = "2014-09-17@04:59:16.610|1|310170681982862|-117.143073|32.757687|0|8|4"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	conn, err := database.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	index := repository.NewIndexRepository(conn)
	var entityCells, geoCells []models.ScanCell
	for ts := int64(100); ts <= 104; ts++ {
		entityCells = append(entityCells, models.ScanCell{
			RowKey: rowkey.Entity(subscriber, ts, nil), Qualifier: "004G_TEST", Value: cellValue, Timestamp: ts * 1000,
		})
		geoCells = append(geoCells, models.ScanCell{
			RowKey: rowkey.Geo("dp3z4tdf3t", ts, subscriber, nil), Qualifier: "004G_TEST", Value: cellValue, Timestamp: ts * 1000,
		})
	}
	entityCells = append(entityCells, models.ScanCell{
		RowKey: rowkey.Entity(proximityEntity, 1410832836, nil), Qualifier: "004G_TEST", Value: "6||1|38.975723|-76.485779", Timestamp: 1410832836000,
	})
	require.NoError(t, index.BulkLoad(ctx, models.LayoutEntity, entityCells))
	require.NoError(t, index.BulkLoad(ctx, models.LayoutGeo, geoCells))

	runs := repository.NewRunRepository(conn)
	now := time.Date(2014, 9, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, runs.Create(ctx, &models.IngestRun{
		ID: "run-1", Source: "feed.txt", Lines: 5, Hops: 5, Loaded: 5, StartedAt: now, FinishedAt: now.Add(time.Second),
	}))

	cfg, err := config.Load()
	require.NoError(t, err)

	normalizer := identity.NewNormalizer(cfg.Identity.Prefix, cfg.Identity.FullLength, cfg.Identity.HomeCodes)
	p := parser.New(lookup.NewTable(map[string]lookup.Location{}), normalizer, parser.DefaultOptions(), nil)
	planner := spatial.NewPlanner(spatial.DefaultMaxBits, spatial.DefaultMaxRanges)

	return SetupRouter(cfg, Handlers{
		Query: handler.NewQueryHandler(service.NewQueryService(planner, index, normalizer)),
		Parse: handler.NewParseHandler(service.NewParseService(p)),
		Runs:  handler.NewRunHandler(service.NewRunService(runs)),
	}, nil, zap.NewNop())
}

func call(t *testing.T, r http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func TestHealth(t *testing.T) {
	code, _ := call(t, testRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestPlanEndpoint(t *testing.T) {
	r := testRouter(t)

	code, env := call(t, r, http.MethodGet, "/api/v1/plan?t0=0&t1=1000&lat0=42.0&lat1=42.1&lon0=-87.5&lon1=-87.4", "")
	require.Equal(t, http.StatusOK, code)

	var plan models.PlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Equal(t, len(plan.Ranges), plan.Count)
	assert.NotZero(t, plan.Count)
	assert.Greater(t, plan.AreaKm2, 0.0)

	var starts []string
	for _, kr := range plan.Ranges {
		starts = append(starts, kr.Start)
	}
	assert.Contains(t, starts, rowkey.Reverse("dp3z4")+rowkey.FormatTime(0))

	code, _ = call(t, r, http.MethodGet, "/api/v1/plan?t0=10&t1=5", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, r, http.MethodGet, "/api/v1/plan?t0=10", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestScanEntityPaging(t *testing.T) {
	r := testRouter(t)
	q := url.Values{"entity": {"543442410"}, "t0": {"0"}, "t1": {"1000"}, "limit": {"3"}}

	code, env := call(t, r, http.MethodGet, "/api/v1/scan?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, code)
	var page models.ScanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, models.LayoutEntity, page.Layout)
	require.Len(t, page.Rows, 3)
	assert.Equal(t, subscriber, page.Rows[0].Entity)
	require.NotEmpty(t, page.Next)

	q.Set("cursor", page.Next)
	code, env = call(t, r, http.MethodGet, "/api/v1/scan?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, code)
	page = models.ScanPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Rows, 2)
	assert.Empty(t, page.Next)

	q.Set("cursor", "%%%")
	code, _ = call(t, r, http.MethodGet, "/api/v1/scan?"+q.Encode(), "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestScanVerbatimEntity(t *testing.T) {
	q := url.Values{"entity": {proximityEntity}, "t0": {"1410832800"}, "t1": {"1410832900"}}

	code, env := call(t, testRouter(t), http.MethodGet, "/api/v1/scan?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, code)
	var page models.ScanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Ranges)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, proximityEntity, page.Rows[0].Entity)
	assert.Equal(t, "1410832836", page.Rows[0].Timestamp)
}

func TestScanGeoCompact(t *testing.T) {
	r := testRouter(t)
	q := url.Values{
		"t0": {"0"}, "t1": {"1000"}, "lat0": {"42.0"}, "lat1": {"42.1"},
		"lon0": {"-87.5"}, "lon1": {"-87.4"}, "compact": {"true"},
	}

	code, env := call(t, r, http.MethodGet, "/api/v1/scan?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, code)
	var page models.ScanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, models.LayoutGeo, page.Layout)
	require.Len(t, page.Lines, 5)
	assert.Equal(t, "0000000100,42.042345,-87.425352,"+subscriber+",AWSD_4G", page.Lines[0])
	assert.Empty(t, page.Next)
}

func TestParseEndpoint(t *testing.T) {
	r := testRouter(t)

	body, err := json.Marshal(map[string][]string{"lines": {lineNelos, "garbage"}})
	require.NoError(t, err)
	code, env := call(t, r, http.MethodPost, "/api/v1/parse", string(body))
	require.Equal(t, http.StatusOK, code)

	var parsed []models.ParsedLine
	require.NoError(t, json.Unmarshal(env.Data, &parsed))
	require.Len(t, parsed, 2)
	require.Len(t, parsed[0].Records, 1)
	assert.Equal(t, "310170681982862", parsed[0].Records[0].Entity)
	assert.Equal(t, "FINISH_OKAY", parsed[0].Records[0].CodeName)
	assert.Equal(t, "BAD_INPUT_LINE", parsed[1].Records[0].CodeName)

	code, env = call(t, r, http.MethodPost, "/api/v1/parse", `["`+lineNelos+`"]`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &parsed))
	assert.Len(t, parsed, 1)

	for _, bad := range []string{`{"lines":`, `{"other":[]}`, `{"lines":[1]}`} {
		code, _ = call(t, r, http.MethodPost, "/api/v1/parse", bad)
		assert.Equal(t, http.StatusBadRequest, code, bad)
	}
}

func TestRunsEndpoint(t *testing.T) {
	code, env := call(t, testRouter(t), http.MethodGet, "/api/v1/report/runs", "")
	require.Equal(t, http.StatusOK, code)

	var runs models.RunsResponse
	require.NoError(t, json.Unmarshal(env.Data, &runs))
	assert.Equal(t, int64(1), runs.Total)
	require.Len(t, runs.Data, 1)
	assert.Equal(t, "run-1", runs.Data[0].ID)
}
