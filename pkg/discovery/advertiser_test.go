package discovery

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAdvertiserConfig(t *testing.T) {
	cfg := DefaultAdvertiserConfig()

	assert.Equal(t, "_platformd._tcp", cfg.ServiceType)
	assert.Equal(t, "local", cfg.Domain)
	assert.Equal(t, 8080, cfg.Port)
	assert.NotEmpty(t, cfg.ServiceName)
}

func TestAdvertiser_StopBeforeStart(t *testing.T) {
	a := NewAdvertiser(nil, logrus.New())

	assert.False(t, a.IsRunning())
	require.NoError(t, a.Stop())
}
