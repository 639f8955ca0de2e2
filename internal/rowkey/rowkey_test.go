package rowkey

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

func sampleHop() models.FlattenedRecord {
	return models.FlattenedRecord{
		RecordScalars: models.RecordScalars{
			Entity:  "310410543442410",
			Type:    models.TypeAWSD,
			Subtype: models.Int(29),
		},
		Hop: models.Hop{
			Location:  models.String("004G_TEST"),
			Geohash:   models.String("dp3z4tdf3t"),
			Lat:       models.Float(42.042345),
			Lon:       models.Float(-87.425352),
			Seq:       models.Int(2),
			Timestamp: models.Int(1410975815),
			Duration:  models.Int(180),
		},
	}
}

func TestReverse(t *testing.T) {
	assert.Equal(t, "4z3pd", Reverse("dp3z4"))
	assert.Equal(t, "", Reverse(""))
	assert.Equal(t, "a", Reverse("a"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "0142443450140131410975815", Entity("310410543442410", 1410975815, nil))
	assert.Equal(t, "01424434501401314109758152", Entity("310410543442410", 1410975815, models.Int(2)))
	assert.Equal(t, "4z3pd1410975815310410543442410", Geo("dp3z4tdf3t", 1410975815, "310410543442410", nil))
	assert.Equal(t, "0000000042", FormatTime(42))
}

func TestShortEntityKeys(t *testing.T) {
	assert.Equal(t, "#90118545639148", PadEntity("90118545639148"))
	assert.Equal(t, "90118545639148", TrimEntity(PadEntity("90118545639148")))
	assert.Equal(t, "310410543442410", PadEntity("310410543442410"))

	key := Entity("90118545639148", 1410832836, nil)
	assert.Equal(t, "84193654581109#1410832836", key)
	assert.Len(t, key, EntityWidth+TimeWidth)
	assert.Equal(t, "4z3pd1410832836#90118545639148", Geo("dp3z4tdf3t", 1410832836, "90118545639148", nil))

	// a 14-char id is not a key prefix of a 15-char id sharing its digits
	r := EntityRange("10410543442410", 0, 9999999999)
	long := Entity("310410543442410", 100, nil)
	assert.False(t, long >= r.Start && long < r.End)
}

func TestCheckEntity(t *testing.T) {
	assert.NoError(t, CheckEntity("310410543442410"))
	assert.ErrorIs(t, CheckEntity("3104105434424101"), ErrEntityTooLong)
	assert.ErrorIs(t, CheckEntity("3104#0543442410"), ErrEntityHasFiller)
}

func TestEntityRange(t *testing.T) {
	r := EntityRange("310410543442410", 100, 200)
	assert.Equal(t, "0142443450140130000000100", r.Start)
	assert.Equal(t, "0142443450140130000000200z", r.End)
	assert.Less(t, Entity("310410543442410", 200, models.Int(9)), r.End)
}

func TestBuilderCell(t *testing.T) {
	b := NewBuilder(regexp.MustCompile(`^000`))
	f := sampleHop()

	cell, err := b.Cell(f, models.LayoutGeo)
	require.NoError(t, err)
	assert.Equal(t, "4z3pd1410975815310410543442410"+"2", cell.RowKey)
	assert.Equal(t, "004G_TEST", cell.Qualifier)
	assert.Equal(t, "4|180|29|42.042345|-87.425352", cell.Value)
	assert.Equal(t, int64(1410975815000), cell.Timestamp)

	cell, err = b.Cell(f, models.LayoutEntity)
	require.NoError(t, err)
	assert.Equal(t, "01424434501401314109758152", cell.RowKey)

	f.Location = models.String("0003G_TEST")
	assert.Equal(t, 3, b.TypeCode(f))

	f.Type = models.TypeNELOS
	assert.Equal(t, 5, b.TypeCode(f))
}

func TestBuilderCellErrors(t *testing.T) {
	b := NewBuilder(nil)

	f := sampleHop()
	f.Timestamp = nil
	_, err := b.Cell(f, models.LayoutEntity)
	assert.ErrorIs(t, err, ErrNoTimestamp)

	f = sampleHop()
	f.Geohash = models.String("dp3")
	_, err = b.Cell(f, models.LayoutGeo)
	assert.ErrorIs(t, err, ErrNoGeohash)

	_, err = b.Cell(sampleHop(), models.Layout("other"))
	assert.Error(t, err)

	f = sampleHop()
	f.Entity = "3104105434424109"
	_, err = b.Cell(f, models.LayoutEntity)
	assert.ErrorIs(t, err, ErrEntityTooLong)
}
