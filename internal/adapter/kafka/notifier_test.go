package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationMessage(t *testing.T) {
	generated := time.Date(2021, time.June, 15, 12, 0, 45, 0, time.UTC)

	msg, err := notificationMessage("day", "/var/www/json/day.json", generated)
	require.NoError(t, err)

	assert.Equal(t, []byte("day"), msg.Key, "group keys the message for per-group ordering")

	var n Notification
	require.NoError(t, json.Unmarshal(msg.Value, &n))
	assert.Equal(t, "day", n.Group)
	assert.Equal(t, "/var/www/json/day.json", n.Path)
	assert.True(t, generated.Equal(n.GeneratedAt))

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "generated_at", msg.Headers[0].Key)
	assert.Equal(t, "2021-06-15T12:00:45Z", string(msg.Headers[0].Value))
}

func TestNewNotifier(t *testing.T) {
	n := NewNotifier([]string{"localhost:9092"}, "chart-group-updates", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NotNil(t, n)
	assert.Equal(t, "chart-group-updates", n.writer.Topic)
	require.NoError(t, n.Close())
}
