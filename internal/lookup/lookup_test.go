package lookup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = Header + `
0003G_TEST|42.042345|-87.425352|dp3z4tdf3t
004G_TEST|42.042345|-87.425352|dp3z4tdf3t

005G_TEST|40.0|-90.0|dppppppppp
`

func TestRead(t *testing.T) {
	table, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	loc, ok := table.Get("005G_TEST")
	require.True(t, ok)
	assert.Equal(t, 40.0, loc.Lat)
	assert.Equal(t, -90.0, loc.Lon)
	assert.Equal(t, "40.0", loc.LatText)
	assert.Equal(t, "dppppppppp", loc.Geohash)

	_, ok = table.Get("BADLACCID")
	assert.False(t, ok)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("id|lat|lon|gh\n"))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = Read(strings.NewReader(Header + "\nx|1.0|2.0\n"))
	assert.ErrorIs(t, err, ErrBadRow)

	_, err = Read(strings.NewReader(Header + "\nx|north|2.0|gh\n"))
	assert.ErrorIs(t, err, ErrBadRow)
}

func TestWriteRoundTrip(t *testing.T) {
	table, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n0003G_TEST|"))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.IDs(), again.IDs())
}

func TestFileRoundTrip(t *testing.T) {
	table, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	for _, name := range []string{"cells.txt", "cells.txt.zst"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteFile(path, table))

		loaded, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, 3, loaded.Len(), name)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Get("x")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Empty(t, table.IDs())
}

type fakeGetter struct {
	body []byte
	err  error
	key  string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = *in.Key
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestFetchS3(t *testing.T) {
	getter := &fakeGetter{body: []byte(sample)}
	table, err := FetchS3(context.Background(), getter, "bucket", "lookup/cells.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "lookup/cells.txt", getter.key)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	getter = &fakeGetter{body: enc.EncodeAll([]byte(sample), nil)}
	table, err = FetchS3(context.Background(), getter, "bucket", "cells.txt.zst")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = FetchS3(context.Background(), &fakeGetter{err: errors.New("denied")}, "bucket", "k")
	assert.Error(t, err)
}
