package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("text handler", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelInfo), false)
		l.Info("hello", "k", "v")
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("json handler", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelInfo), true)
		l.Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("level filters debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelInfo), false)
		l.Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestLogger_Component(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelInfo), false).Component("checklist")
	l.Info("tick")
	assert.Contains(t, buf.String(), "component=checklist")
}
