package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConf_ValidateDefaultsLevel(t *testing.T) {
	c := Conf{}
	require.NoError(t, c.Validate())
	assert.Equal(t, "INFO", c.Level)
}

func TestConf_ValidateRejectsUnknownLevel(t *testing.T) {
	c := Conf{Level: "VERBOSE"}
	assert.Error(t, c.Validate())
}

func TestNew_BuildsLoggerForEachValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "error"} {
		logger, err := New(Conf{Level: level})
		require.NoError(t, err, "New(%q)", level)
		assert.NotNil(t, logger, "New(%q)", level)
	}
}
