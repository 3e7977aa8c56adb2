package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplogNarration(t *testing.T) {
	t.Run("narration is hidden without debug", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)

		splog.WriteLine("resolving %s", "REL_1")
		splog.Info("done")

		require.Equal(t, "done\n", buf.String())
	})

	t.Run("indent scopes nest and restore", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, true)

		splog.WriteLine("outer")
		restore := splog.Indent()
		splog.WriteLine("inner %d", 1)
		func() {
			defer splog.Indent()()
			splog.WriteLine("deeper")
		}()
		splog.WriteLine("inner %d", 2)
		restore()
		restore()
		splog.WriteLine("outer again")

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Equal(t, []string{
			"outer",
			"  inner 1",
			"    deeper",
			"  inner 2",
			"outer again",
		}, lines)
	})

	t.Run("rules and blank lines", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, true)

		splog.DoubleRuleOff()
		splog.RuleOff()
		splog.Blank()

		lines := strings.Split(buf.String(), "\n")
		require.Equal(t, strings.Repeat("=", ruleWidth), lines[0])
		require.Equal(t, strings.Repeat("-", ruleWidth), lines[1])
		require.Equal(t, "", lines[2])
	})

	t.Run("quiet suppresses console output", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, true)
		splog.SetQuiet(true)
		require.True(t, splog.IsQuiet())

		splog.Info("hidden")
		splog.Warn("hidden")
		splog.Page("hidden")
		require.Empty(t, buf.String())
	})

	t.Run("warnings and errors are prefixed", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)

		splog.Warn("tag %s dropped", "T1")
		splog.Error("failed")

		require.Contains(t, buf.String(), "⚠️  tag T1 dropped")
		require.Contains(t, buf.String(), "❌ failed")
	})
}

func TestSplogFileLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "cvsgit.log")

	splog, err := NewSplogWithConfig(io.Discard, logFile, false)
	require.NoError(t, err)
	splog.SetQuiet(true)

	splog.WriteLine("narration reaches the file")
	require.NoError(t, splog.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "narration reaches the file")
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("CVSGIT_LOG_FILE", "")
	require.Empty(t, LogFilePath())

	t.Setenv("CVSGIT_LOG_FILE", "/tmp/cvsgit.log")
	require.Equal(t, "/tmp/cvsgit.log", LogFilePath())
}
