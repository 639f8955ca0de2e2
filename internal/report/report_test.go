package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

func record(typ models.LocationType, code models.ParseCode, ts *int64, gh *string) models.FlattenedRecord {
	f := models.FlattenedRecord{}
	f.Entity = "310410543442410"
	f.Type = typ
	f.Code = code
	f.CodeName = code.String()
	f.Timestamp = ts
	f.Geohash = gh
	return f
}

func sampleReporter() *Reporter {
	r := New()
	r.Add(record(models.TypeAWSD, models.CodeOK, models.Int(1410975814), models.String("dp3z4tdf3t")))
	r.Add(record(models.TypeAWSD, models.CodeOK, models.Int(1410975815), models.String("dp3z4tdf3t")))
	r.Add(record(models.TypeAWSD, models.CodeNoLocationMatch, models.Int(1410976800), nil))
	r.Add(record(models.TypeNELOS, models.CodeTemporaryIdentity, nil, models.String("9mudq7752e")))
	return r
}

func TestReporterCounts(t *testing.T) {
	r := sampleReporter()

	assert.Equal(t, int64(4), r.Total())
	assert.Equal(t, int64(2), r.Count(DimErrors, "AWSD", "FINISH_OKAY"))
	assert.Equal(t, int64(1), r.Count(DimErrors, "AWSD", "NO_LACCID_MATCH"))
	assert.Equal(t, int64(1), r.Count(DimErrors, "NELOS", "NELOS_TEMPORARY_IMSI"))

	// 1410975814/900 = 1567750, 1410976800/900 = 1567752
	assert.Equal(t, int64(2), r.Count(DimTime, "AWSD", "1567750"))
	assert.Equal(t, int64(1), r.Count(DimTime, "AWSD", "1567752"))
	assert.Zero(t, r.Count(DimTime, "NELOS", ""))

	assert.Equal(t, int64(2), r.Count(DimGeohash, "AWSD", "dp3"))
	assert.Equal(t, int64(1), r.Count(DimGeohash, "NELOS", "9mu"))
}

func TestReporterMerge(t *testing.T) {
	a, b := sampleReporter(), sampleReporter()
	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, int64(8), a.Total())
	assert.Equal(t, int64(4), a.Count(DimGeohash, "AWSD", "dp3"))
}

func TestRowsSorted(t *testing.T) {
	r := New()
	r.Add(record(models.TypeSMSD, models.CodeOK, models.Int(900*100), nil))
	r.Add(record(models.TypeSMSD, models.CodeOK, models.Int(900*99), nil))
	r.Add(record(models.TypeAWSV, models.CodeOK, models.Int(900*5), nil))

	rows := r.Rows(DimTime)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{Type: "AWSV", Key: "5", Count: 1}, rows[0])
	assert.Equal(t, "99", rows[1].Key)
	assert.Equal(t, "100", rows[2].Key)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReporter().WriteText(&buf, DimErrors))
	assert.Equal(t,
		"AWSD|FINISH_OKAY|2\nAWSD|NO_LACCID_MATCH|1\nNELOS|NELOS_TEMPORARY_IMSI|1\n",
		buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReporter().WriteXLSX(&buf))

	x, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer x.Close()

	assert.Equal(t, []string{"errors", "time", "geohash"}, x.GetSheetList())

	rows, err := x.GetRows("geohash")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"type", "key", "count"}, rows[0])
	assert.Equal(t, []string{"AWSD", "dp3", "2"}, rows[1])
}

func TestDedupe(t *testing.T) {
	in := []string{
		"b|1410975815|x",
		"a|1410975900|y",
		"a|1410975814|x",
		"b|1410975815|x",
		"no-separator",
		"a|1410975814|x",
	}
	assert.Equal(t, []string{
		"a|1410975814|x",
		"a|1410975900|y",
		"b|1410975815|x",
	}, Dedupe(in))
	assert.Empty(t, Dedupe(nil))
}
