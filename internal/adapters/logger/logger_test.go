package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestSlogAdapter_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelDebug})

	log.WithFields(port.Fields{"use_case": "BrowseListings"}).Error("failed", errors.New("boom"), port.Fields{"page": 2})

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "failed", recs[0]["msg"])
	assert.Equal(t, "BrowseListings", recs[0]["use_case"])
	assert.Equal(t, float64(2), recs[0]["page"])
	assert.Equal(t, "boom", recs[0]["error"])
}

func TestSlogAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelWarn})

	log.Info("skipped", nil)
	log.Debug("skipped", nil)
	log.Warn("kept", nil)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "kept", recs[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

type fakePoster struct {
	tags []string
	msgs []map[string]interface{}
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.msgs = append(f.msgs, message.(map[string]interface{}))
	return nil
}

func (f *fakePoster) Close() error { return nil }

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &fakePoster{}
	log := newFluentLoggerAdapter(poster, slog.LevelInfo)

	log.Debug("dropped", nil)
	log.WithFields(port.Fields{"trace_id": "t-1"}).Error("upstream failed", errors.New("502"), nil)

	require.Equal(t, []string{"error"}, poster.tags)
	assert.Equal(t, "t-1", poster.msgs[0]["trace_id"])
	assert.Equal(t, "502", poster.msgs[0]["error"])
	assert.Equal(t, "upstream failed", poster.msgs[0]["message"])
}

func TestMultiLoggerAdapter(t *testing.T) {
	var a, b bytes.Buffer
	multi, err := NewMultiLoggerAdapter(
		NewSlogAdapter(SlogConfig{Writer: &a, IsJSON: true}),
		NewSlogAdapter(SlogConfig{Writer: &b, IsJSON: true}),
	)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)

	assert.Contains(t, a.String(), `"k":"v"`)
	assert.Contains(t, b.String(), `"k":"v"`)

	_, err = NewMultiLoggerAdapter()
	assert.Error(t, err)
}
