package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) entry {
	t.Helper()
	var e entry
	require.NoError(t, json.NewDecoder(buf).Decode(&e))
	return e
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.PrintInfo("starting server", map[string]string{"addr": ":4000"})

	e := decodeEntry(t, &buf)
	assert.Equal(t, "INFO", e.Level)
	assert.Equal(t, "starting server", e.Message)
	assert.Equal(t, ":4000", e.Properties["addr"])
	assert.Empty(t, e.Trace)
}

func TestPrintErrorIncludesTrace(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.PrintError(errors.New("something went wrong"), nil)

	e := decodeEntry(t, &buf)
	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "something went wrong", e.Message)
	assert.NotEmpty(t, e.Trace)
}

func TestMinimumLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.PrintInfo("suppressed", nil)
	assert.Zero(t, buf.Len())

	l.PrintError(errors.New("emitted"), nil)
	assert.NotZero(t, buf.Len())
}

func TestWriteLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	_, err := l.Write([]byte("http: proxy error"))
	require.NoError(t, err)

	e := decodeEntry(t, &buf)
	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "http: proxy error", e.Message)
}
