package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-model-service/internal/config"
)

func TestInit_Level(t *testing.T) {
	closer := Init(config.LoggerConfig{Level: "debug", Format: "text"})
	defer closer.Close()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	Init(config.LoggerConfig{Level: "bogus"})
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	closer := Init(config.LoggerConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	log.WithField("component", "test").Info("hello")
	require.NoError(t, closer.Close())
	Init(config.LoggerConfig{Level: "info"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}
