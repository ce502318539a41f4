package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter("production", &buf)

	With("offer_id", "abc").Info("status changed", "status", "ACCEPTED")
	Debug("hidden at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "status changed", entry["msg"])
	assert.Equal(t, "abc", entry["offer_id"])
	assert.Equal(t, "ACCEPTED", entry["status"])
}

func TestDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter("development", &buf)

	Debug("draft saved", "step", "personal")

	assert.Contains(t, buf.String(), "draft saved")
	assert.Contains(t, buf.String(), "step=personal")
}
