package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	pub := NewPublisher(w, "directory.events", logger.NewNopLogger())

	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	evt := directory.Event{Type: directory.EventProfileCreated, ResourceID: "p-1", At: at}
	require.NoError(t, pub.Publish(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("p-1"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "profile.created", string(msg.Headers[0].Value))

	var got directory.Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, evt, got)

	pub.Close()
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	pub := NewPublisher(w, "directory.events", logger.NewNopLogger())

	err := pub.Publish(context.Background(), directory.Event{Type: directory.EventSkillDeleted, ResourceID: "s-1"})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}
