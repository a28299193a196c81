package report

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const junitReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="pytest" errors="0" failures="0" skipped="0" tests="2" time="325.183">
  <testcase classname="appium.shopping_test" name="TestShopping" time="320.101"/>
  <testcase classname="appium.shopping_test" name="TestShoppingCart" time="5.082"/>
</testsuite>
`

// writeBundle writes a customer artifact zip with the given entries
// into dir and returns its path.
func writeBundle(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()

	bundlePath := filepath.Join(dir, "CUSTOMER_ARTIFACT_Customer Artifacts.zip")
	f, err := os.Create(bundlePath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return bundlePath
}

func TestExtractAndRelocate(t *testing.T) {
	cwd := t.TempDir()
	jobDir := filepath.Join(cwd, "MyAndroidAppTest-2026-08-23aBcDeFgH", "Google Pixel 2")
	require.NoError(t, os.MkdirAll(jobDir, 0755))

	bundlePath := writeBundle(t, jobDir, map[string]string{
		"Host_Machine_Files/$DEVICEFARM_LOG_DIR/junitreport.xml": junitReport,
		"Host_Machine_Files/$DEVICEFARM_LOG_DIR/logcat.txt":      "noise",
	})

	res, err := ExtractAndRelocate(zerolog.Nop(), bundlePath)
	require.NoError(t, err)

	require.Equal(t, "Google Pixel 2", res.Device)
	require.True(t, res.Valid)
	require.Equal(t, filepath.Join(cwd, "report", "Google Pixel 2 appium junitreport.xml"), res.ReportPath)

	copied, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	require.Contains(t, string(copied), `name="AppiumTest Google Pixel 2"`)
	require.Contains(t, string(copied), `name="TestShoppingCart"`)
	require.NotContains(t, string(copied), `name="TestShopping"`)

	// The renamed original keeps its content untouched
	original, err := os.ReadFile(filepath.Join(jobDir, hostFilesDir, logDirName, "Google Pixel 2 appium junitreport.xml"))
	require.NoError(t, err)
	require.Equal(t, junitReport, string(original))
}

func TestExtractAndRelocate_SkippedReport(t *testing.T) {
	cwd := t.TempDir()
	jobDir := filepath.Join(cwd, "run", "Google Pixel 7")
	require.NoError(t, os.MkdirAll(jobDir, 0755))

	skipped := strings.Replace(junitReport, `skipped="0"`, `skipped="2"`, 1)
	bundlePath := writeBundle(t, jobDir, map[string]string{
		"Host_Machine_Files/$DEVICEFARM_LOG_DIR/junitreport.xml": skipped,
	})

	res, err := ExtractAndRelocate(zerolog.Nop(), bundlePath)
	require.NoError(t, err)
	require.False(t, res.Valid)

	// The copy is still produced so the gap shows up when aggregated
	copied, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	require.Contains(t, string(copied), "AppiumTest Google Pixel 7")
}

func TestExtractAndRelocate_MissingReport(t *testing.T) {
	cwd := t.TempDir()
	jobDir := filepath.Join(cwd, "run", "Google Pixel 2")
	require.NoError(t, os.MkdirAll(jobDir, 0755))

	bundlePath := writeBundle(t, jobDir, map[string]string{
		"Host_Machine_Files/$DEVICEFARM_LOG_DIR/logcat.txt": "noise",
	})

	_, err := ExtractAndRelocate(zerolog.Nop(), bundlePath)
	require.ErrorContains(t, err, "failed to rename report")
}

func TestUnzip_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	bundlePath := writeBundle(t, dir, map[string]string{
		"../evil.txt": "boom",
	})

	err := unzip(bundlePath, dir)
	require.ErrorContains(t, err, "illegal path in archive")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "evil.txt"))
	require.True(t, os.IsNotExist(statErr))
}
