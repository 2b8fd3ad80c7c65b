package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqstart/eduedu/pkg/logger"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to JSON at info level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("visible", slog.String("key", "value"))
		record := decodeRecord(t, &buf)
		assert.Equal(t, "visible", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes on every record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "eduedu")))

		log.Info("hello")
		record := decodeRecord(t, &buf)
		assert.Equal(t, "eduedu", record["service"])
	})

	t.Run("context extractor injects request attributes", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		type ctxKey struct{}
		log := logger.New(logger.WithOutput(&buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if id, ok := ctx.Value(ctxKey{}).(string); ok {
					return slog.String("request_id", id), true
				}
				return slog.Attr{}, false
			}))

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-123")
		log.InfoContext(ctx, "handled")
		record := decodeRecord(t, &buf)
		assert.Equal(t, "req-123", record["request_id"])

		buf.Reset()
		log.Info("no context")
		record = decodeRecord(t, &buf)
		assert.NotContains(t, record, "request_id")
	})

	t.Run("panics on unknown format", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("production logs JSON at info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment("production", "eduedu"), logger.WithOutput(&buf))

		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("up")
		record := decodeRecord(t, &buf)
		assert.Equal(t, "eduedu", record["service"])
		assert.Equal(t, "production", record["env"])
	})

	t.Run("development logs text at debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment("development", "eduedu"), logger.WithOutput(&buf))

		log.Debug("boot")
		assert.Contains(t, buf.String(), "msg=boot")
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(assert.AnError).Key)
	assert.Equal(t, slog.Attr{}, logger.UserID(""))
	assert.Equal(t, "user_id", logger.UserID("u1").Key)
	assert.Equal(t, "component", logger.Component("billing").Key)
}
