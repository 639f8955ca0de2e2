package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

func TestExpand(t *testing.T) {
	p := testParser(t)

	for _, line := range []string{lineNelos, lineSMS, lineVoiceMulti, lineDataMulti, lineDataGap, lineProximity, lineWifi, "junk"} {
		rec := p.Parse(line)
		out := Expand(rec)
		require.Len(t, out, len(rec.Hops), line)

		for i, f := range out {
			assert.Equal(t, rec.RecordScalars, f.RecordScalars)
			assert.Equal(t, rec.Hops[i], f.Hop)
		}
	}

	assert.Nil(t, Expand(nil))
}

func TestExpandedRecordsCarryHopTimes(t *testing.T) {
	out := Expand(testParser(t).Parse(lineDataMulti))
	require.Len(t, out, 5)

	want := []int64{1410975814, 1410975814, 1410975815, 1410975995, 1410976055}
	for i, f := range out {
		assert.Equal(t, "004G_TEST", *f.Location)
		assert.Equal(t, want[i], *f.Timestamp)
		assert.Equal(t, "310410543442410", f.Entity)
	}
}

func TestStrictSuccess(t *testing.T) {
	out := Expand(testParser(t).Parse(lineDataGap))
	kept := StrictSuccess(out)
	assert.Len(t, kept, 4)
	for _, f := range kept {
		assert.True(t, f.Code.OK())
	}
	assert.Len(t, out, 5, "input must not be modified")
}

func TestRawProfileRoundTrip(t *testing.T) {
	p := testParser(t)

	for _, line := range []string{lineNelos, lineSMS, lineVoiceMulti, lineDataBadDur, lineProximity, lineWifi} {
		for _, f := range Expand(p.Parse(line)) {
			raw := f.Raw()
			back, err := models.ParseRaw(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, raw, back.Raw())
			assert.Equal(t, f.Entity, back.Entity)
			assert.Equal(t, f.Type, back.Type)
			assert.Equal(t, f.Code, back.Code)
			assert.Equal(t, f.IMEI, back.IMEI, raw)
		}
	}
}

func TestRawProfileKeepsEmptyDataIMEI(t *testing.T) {
	f := Expand(testParser(t).Parse(lineDataMulti))[0]
	require.NotNil(t, f.IMEI)
	require.Empty(t, *f.IMEI)

	back, err := models.ParseRaw(f.Raw())
	require.NoError(t, err)
	require.NotNil(t, back.IMEI)
	assert.Empty(t, *back.IMEI)
}

func TestSerializationProfiles(t *testing.T) {
	out := Expand(testParser(t).Parse(lineDataMulti))
	f := out[2]

	assert.Equal(t,
		"310410543442410||17326183870||004G_TEST|dp3z4tdf3t|AWSD|2|1410975815|180|29|20||1000|0|34520|79419|42.042345|-87.425352|FINISH_OKAY",
		f.Raw())
	assert.Equal(t, "1410975815|2|180|004G_TEST|3|29|20||1000|0|42.042345|-87.425352", f.Flat())
	assert.Equal(t, "4|180|29|42.042345|-87.425352", f.StoreValue(models.TypeCodeAWSD4G))
}
