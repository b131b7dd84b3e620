package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "server", log.InfoLevel, false, false, log.LogfmtFormatter)

	l.Debug("hidden")
	l.Info("find", "rack", "hotels")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "prefix=server")
	assert.Contains(t, out, "rack=hotels")
}

func TestLevelsFollowGlobal(t *testing.T) {
	old := log.GetLevel()
	defer log.SetLevel(old)

	log.SetLevel(log.DebugLevel)
	assert.Equal(t, log.DebugLevel, New("x").GetLevel())
	assert.Equal(t, log.DebugLevel, Default("x").GetLevel())
}
