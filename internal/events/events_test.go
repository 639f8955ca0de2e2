package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

type fakeConn struct {
	subject  string
	data     []byte
	flushErr error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                { f.closed = true }

func TestRunCompleted(t *testing.T) {
	c := &fakeConn{}
	p := newPublisher(c, "locstore.ingest.completed", nil)

	run := models.IngestRun{
		ID:        "run-1",
		Source:    "day.txt",
		Loaded:    12,
		StartedAt: time.Date(2014, 9, 17, 17, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.RunCompleted(context.Background(), run))
	assert.Equal(t, "locstore.ingest.completed", c.subject)

	var got RunCompleted
	require.NoError(t, json.Unmarshal(c.data, &got))
	assert.Equal(t, EventIngestCompleted, got.Event)
	assert.Equal(t, "run-1", got.Run.ID)
	assert.Equal(t, int64(12), got.Run.Loaded)

	p.Close()
	assert.True(t, c.closed)
}

func TestRunCompletedFlushError(t *testing.T) {
	c := &fakeConn{flushErr: errors.New("timeout")}
	p := newPublisher(c, "s", nil)
	assert.Error(t, p.RunCompleted(context.Background(), models.IngestRun{ID: "x"}))
}

func TestNewWithoutURL(t *testing.T) {
	p, err := New("", "", "s", nil)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.RunCompleted(context.Background(), models.IngestRun{}))
}
