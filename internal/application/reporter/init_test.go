package reporter_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func logLine(url, duration string) string {
	return fmt.Sprintf(
		`1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "GET %s HTTP/1.1" 200 927 "-" `+
			`"Lynx/2.8.8dev.9 libwww-FM/2.14" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" %s`,
		url, duration,
	)
}

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()

	content := strings.Join(lines, "\n") + "\n"

	if filepath.Ext(path) != ".gz" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "log must be written")

		return
	}

	f, err := os.Create(path)
	require.NoError(t, err, "log must be created")

	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err, "log must be compressed")
	require.NoError(t, gz.Close(), "gzip stream must be closed")
	require.NoError(t, f.Close(), "log must be closed")
}

type workspace struct {
	logDir    string
	reportDir string
	journal   string
	config    string
}

// newWorkspace creates log and config files in a temp dir. The report dir
// is not created.
func newWorkspace(t *testing.T, extraConfig ...string) workspace {
	t.Helper()

	root := t.TempDir()
	ws := workspace{
		logDir:    filepath.Join(root, "log"),
		reportDir: filepath.Join(root, "reports"),
		journal:   filepath.Join(root, "analyzer.log"),
		config:    filepath.Join(root, "analyzer.conf"),
	}

	require.NoError(t, os.Mkdir(ws.logDir, 0o755), "log dir must be created")

	lines := []string{
		"LOG_DIR: " + ws.logDir,
		"REPORT_DIR: " + ws.reportDir,
		"JOURNAL: " + ws.journal,
		"VERBOSE: 1",
	}
	lines = append(lines, extraConfig...)

	require.NoError(t, os.WriteFile(ws.config, []byte(strings.Join(lines, "\n")), 0o644), "config must be written")

	return ws
}

func (ws workspace) args(extra ...string) []string {
	return append([]string{"-config", ws.config}, extra...)
}
