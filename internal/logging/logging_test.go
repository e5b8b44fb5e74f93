package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Config{Output: &buf})
		require.NoError(t, err)

		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

		logger.Debug("hidden")
		logger.WithFields(Fields{"session_id": "abc"}).Info("visible")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "abc")
	})

	t.Run("parses level", func(t *testing.T) {
		logger, err := New(Config{Level: "debug", Output: &bytes.Buffer{}})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(Config{Level: "chatty", Output: &bytes.Buffer{}})
		assert.Error(t, err)
	})

	t.Run("writes to log dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		logger, err := New(Config{Dir: dir, Output: &bytes.Buffer{}})
		require.NoError(t, err)

		logger.Info("to file")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Name(), "sareefit-")
	})

	t.Run("no file output in test env", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		logger, err := New(Config{Dir: dir, Env: "test", Output: &bytes.Buffer{}})
		require.NoError(t, err)

		logger.Info("stderr only")

		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})
}
