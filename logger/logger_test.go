package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "notenav.log")

	l, err := New("debug", file)
	require.NoError(t, err)

	Named(l, "lookup").Debugw("lookup resolved", FieldQuery, "proj", FieldCount, 3)
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"query":"proj"`)
	assert.Contains(t, string(data), `"component":"lookup"`)
}

func TestNewRespectsLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notenav.log")

	l, err := New("warn", file)
	require.NoError(t, err)
	l.Infow("quiet")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", "")
	assert.Error(t, err)
}
