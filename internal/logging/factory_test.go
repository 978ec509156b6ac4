package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", FormatText, &buf)
	require.NoError(t, err)

	ctx := context.Background()
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", FormatJSON, &buf)
	require.NoError(t, err)

	log.Debug(context.Background(), "dbg", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "dbg", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.EqualValues(t, 1, rec["n"])
}

func TestNew_ZapFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", FormatZap, &buf)
	require.NoError(t, err)

	log.With("req_id", "abc").Error(context.Background(), "boom", "status", 500)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "abc", rec["req_id"])
	assert.EqualValues(t, 500, rec["status"])
}

func TestNew_ZapFormat_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", FormatZap, &buf)
	require.NoError(t, err)

	ctx := WithFields(context.Background(), "request_id", "r-9")
	log.Info(ctx, "sent", "status", 201)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "r-9", rec["request_id"])
	assert.EqualValues(t, 201, rec["status"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", FormatText, &bytes.Buffer{})
	require.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "xml"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("a", 1)
	ctx := context.Background()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
}
