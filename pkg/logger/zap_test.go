package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_ingest/pkg/ctxmeta"
	"github.com/Gunvolt24/orders_ingest/pkg/logger"
)

func TestZapLogger_SingleLineJSON(t *testing.T) {
	var buf bytes.Buffer
	log, cleanup, err := logger.NewZapLoggerTo(&buf, true, "info")
	require.NoError(t, err)

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	log.Infof(ctx, "connected to %s", "mongo")
	log.Debugf(ctx, "hidden at info level")
	_ = cleanup()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	require.Equal(t, "info", rec["level"])
	require.Equal(t, "connected to mongo", rec["msg"])
	require.Equal(t, "req-1", rec["request_id"])

	ts, ok := rec["ts"].(string)
	require.True(t, ok, "ts must be a string")
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	require.Equal(t, time.UTC, parsed.Location())
	require.True(t, strings.HasSuffix(ts, "Z"))
}

func TestZapLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := logger.NewZapLoggerTo(&buf, false, "debug")
	require.NoError(t, err)

	log.Debugf(context.Background(), "visible")
	require.Contains(t, buf.String(), `"msg":"visible"`)
	require.Contains(t, buf.String(), `"caller"`)
}

func TestZapLogger_BadLevel(t *testing.T) {
	_, _, err := logger.NewZapLoggerTo(&bytes.Buffer{}, true, "loud")
	require.Error(t, err)
}
