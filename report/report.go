package report

// Package report extracts the Appium JUnit report from a downloaded
// customer artifact bundle and relocates it into the shared report
// directory of the run, tagged with the device that produced it.

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const (
	hostFilesDir  = "Host_Machine_Files"
	logDirName    = "$DEVICEFARM_LOG_DIR"
	reportName    = "junitreport.xml"
	reportDirName = "report"
)

// testNameRE matches the suite class name the Appium tests report
// under. Each device's copy is rewritten with a device specific name so
// reports from parallel jobs stay distinguishable when aggregated.
var testNameRE = regexp.MustCompile(`\bTestShopping\b`)

// Result describes one relocated report.
type Result struct {
	// Device is the device the report was produced on
	Device string
	// ReportPath is the rewritten copy under the shared report directory
	ReportPath string
	// Valid is false when the report shows skipped test cases
	Valid bool
}

// ExtractAndRelocate unpacks a customer artifact bundle next to itself,
// renames the JUnit report after the device and places a rewritten copy
// in the report directory shared by all jobs of the run. The bundle is
// expected to sit in a directory named after its device, two levels
// below the directory the run was started from.
func ExtractAndRelocate(logger zerolog.Logger, bundlePath string) (*Result, error) {
	destDir := filepath.Dir(bundlePath)
	if err := unzip(bundlePath, destDir); err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", bundlePath, err)
	}

	device := filepath.Base(destDir)

	// The test spec collects the report under a directory literally
	// named after the unexpanded $DEVICEFARM_LOG_DIR variable.
	originPath := filepath.Join(destDir, hostFilesDir, logDirName, reportName)
	renamedPath := filepath.Join(filepath.Dir(originPath), fmt.Sprintf("%s appium junitreport.xml", device))
	if err := os.Rename(originPath, renamedPath); err != nil {
		return nil, fmt.Errorf("failed to rename report: %w", err)
	}

	data, err := os.ReadFile(renamedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", renamedPath, err)
	}

	// Two skipped cases mean the flow never ran on this device
	valid := !strings.Contains(string(data), `skipped="2"`)

	reportDir := filepath.Join(filepath.Dir(filepath.Dir(destDir)), reportDirName)
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	rewritten := testNameRE.ReplaceAllLiteral(data, []byte("AppiumTest "+device))
	destPath := filepath.Join(reportDir, filepath.Base(renamedPath))
	if err := os.WriteFile(destPath, rewritten, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report copy: %w", err)
	}

	logger.Info().
		Str("device", device).
		Str("report", destPath).
		Bool("valid", valid).
		Msg("Relocated test report")

	return &Result{Device: device, ReportPath: destPath, Valid: valid}, nil
}

// unzip extracts an archive into destDir, refusing entries that would
// escape it.
func unzip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	cleanDest := filepath.Clean(destDir) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(target, cleanDest) {
			return fmt.Errorf("illegal path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
