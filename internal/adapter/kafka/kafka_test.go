package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/astro-snapshots/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock writer ---

type mockMessageWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (m *mockMessageWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockMessageWriter) Close() error {
	m.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot(p domain.PeriodType, id string) domain.Snapshot {
	base := domain.NewBase(time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC), domain.Planets{
		{Name: "Sole", PlanetPosition: domain.PlanetPosition{Lon: 294.9123, Sign: "Capricorno"}},
	})
	return domain.NewSnapshot(base, p, id)
}

// --- tests ---

func TestSerializeToMessage(t *testing.T) {
	snap := testSnapshot(domain.Weekly, "2024-W03")

	msg, err := serializeToMessage(snap)
	require.NoError(t, err)

	assert.Equal(t, []byte("weekly/2024-W03"), msg.Key)
	want, err := snap.Encode()
	require.NoError(t, err)
	assert.Equal(t, want, msg.Value)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "snapshot_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("weekly"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-01-15 12:00:00 UTC"), msg.Headers[1].Value)
}

func TestWriter_Publish(t *testing.T) {
	mw := &mockMessageWriter{}
	w := &Writer{writer: mw, logger: discardLogger()}

	err := w.Publish(context.Background(), []domain.Snapshot{
		testSnapshot(domain.Weekly, "2024-W03"),
		testSnapshot(domain.Monthly, "2024-01"),
	})
	require.NoError(t, err)
	require.Len(t, mw.msgs, 2)
	assert.Equal(t, "weekly/2024-W03", string(mw.msgs[0].Key))
	assert.Equal(t, "monthly/2024-01", string(mw.msgs[1].Key))

	require.NoError(t, w.Close())
	assert.True(t, mw.closed)
}

func TestWriter_PublishEmpty(t *testing.T) {
	mw := &mockMessageWriter{err: errors.New("must not be called")}
	w := &Writer{writer: mw, logger: discardLogger()}

	require.NoError(t, w.Publish(context.Background(), nil))
}

func TestWriter_PublishError(t *testing.T) {
	boom := errors.New("broker down")
	w := &Writer{writer: &mockMessageWriter{err: boom}, logger: discardLogger()}

	err := w.Publish(context.Background(), []domain.Snapshot{testSnapshot(domain.Daily, "2024-01-15")})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
