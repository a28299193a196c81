package cli

// This file contains the run command: upload the app and test package,
// schedule the Device Farm run, wait for it to finish and collect its
// artifacts and reports.

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws-solutions/clickstream-devicefarm-runner/cli/farm"
	"github.com/aws-solutions/clickstream-devicefarm-runner/logcat"
	"github.com/aws-solutions/clickstream-devicefarm-runner/model"
	"github.com/aws-solutions/clickstream-devicefarm-runner/report"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
	"github.com/urfave/cli/v2"
)

const uploadContentType = "application/octet-stream"

// runNameLetters pads the run name so runs started on the same day
// stay apart.
const runNameLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// uniqueRunName builds a run name from the prefix, the current date
// and a random letter suffix.
func uniqueRunName(prefix string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate run name: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = runNameLetters[int(b)%len(runNameLetters)]
	}
	return fmt.Sprintf("%s-%s%s", prefix, time.Now().Format("2006-01-02"), suffix), nil
}

func (a *App) run(ctx *cli.Context) error {
	startTime := time.Now()

	cfg, err := newRunConfig(ctx)
	if err != nil {
		return err
	}

	runName, err := uniqueRunName(cfg.NamePrefix)
	if err != nil {
		return err
	}

	a.logger.Info().
		Str("name", runName).
		Str("region", cfg.Region).
		Msg("Starting Device Farm run")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	// Artifacts of this run land in a directory named after the run
	runDir := filepath.Join(cwd, runName)
	if err := os.Mkdir(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	// Generate random 16-byte ID
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return fmt.Errorf("failed to generate run ID: %w", err)
	}

	record := &model.RunRecord{
		ID:            hex.EncodeToString(idBytes),
		Name:          runName,
		Timestamp:     startTime,
		Args:          os.Args,
		WorkDir:       cwd,
		ProjectArn:    cfg.ProjectArn,
		DevicePoolArn: cfg.DevicePoolArn,
	}

	// Capture git info (non-fatal if it fails)
	if git, err := a.getGitInfo(); err == nil {
		record.Git = git
	}

	// Track final exit code
	var finalErr error
	defer func() {
		record.Duration = time.Since(startTime)
		if finalErr != nil {
			record.ExitCode = 1
		}

		// Record the run (non-fatal if it fails)
		if err := a.recordRun(record, runDir); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record run")
		}
	}()

	client, err := a.newFarmClient(ctx)
	if err != nil {
		finalErr = err
		return err
	}

	appName := runName + "_" + filepath.Base(cfg.AppPath)
	appArn, err := client.UploadFile(ctx.Context, cfg.ProjectArn, appName, cfg.AppPath,
		types.UploadTypeAndroidApp, uploadContentType)
	if err != nil {
		a.logger.Error().Err(err).Msg("App upload failed")
		finalErr = err
		return err
	}
	record.AppUpload = a.newUploadRecord(appArn, appName, cfg.AppPath)

	pkgName := runName + "_" + filepath.Base(cfg.TestPackagePath)
	pkgArn, err := client.UploadFile(ctx.Context, cfg.ProjectArn, pkgName, cfg.TestPackagePath,
		types.UploadTypeAppiumPythonTestPackage, uploadContentType)
	if err != nil {
		a.logger.Error().Err(err).Msg("Test package upload failed")
		finalErr = err
		return err
	}
	record.TestUpload = a.newUploadRecord(pkgArn, pkgName, cfg.TestPackagePath)

	run, err := client.ScheduleRun(ctx.Context, farm.RunSpec{
		ProjectArn:     cfg.ProjectArn,
		AppArn:         appArn,
		DevicePoolArn:  cfg.DevicePoolArn,
		Name:           runName,
		TestSpecArn:    cfg.TestSpecArn,
		TestPackageArn: pkgArn,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to schedule run")
		finalErr = err
		return err
	}
	runArn := aws.ToString(run.Arn)
	record.RunArn = runArn

	finalRun, err := client.WaitForRun(ctx.Context, runArn)
	if err != nil {
		a.logger.Error().Err(err).Msg("Run polling failed, stopping run")
		if stopErr := client.StopRun(ctx.Context, runArn); stopErr != nil {
			a.logger.Warn().Err(stopErr).Msg("Failed to stop run")
		}
		finalErr = err
		return err
	}
	record.Status = string(finalRun.Status)
	record.Result = string(finalRun.Result)

	handleBundle := func(bundlePath, jobName string) (bool, error) {
		res, err := report.ExtractAndRelocate(a.logger, bundlePath)
		if err != nil {
			return false, err
		}
		record.Reports = append(record.Reports, model.ReportRecord{
			Device: res.Device,
			File:   res.ReportPath,
			Valid:  res.Valid,
		})
		return res.Valid, nil
	}

	logcatPaths, files, err := client.DownloadArtifacts(ctx.Context, runArn, runDir, handleBundle)
	if err != nil {
		a.logger.Error().Err(err).Msg("Artifact collection failed")
		finalErr = err
		return err
	}
	record.Jobs = jobRecords(runDir, files)
	record.LogcatPaths = logcatPaths

	// The path file feeds the verify command
	pathFile := filepath.Join(cwd, logcat.PathFileName)
	if err := logcat.WritePathFile(pathFile, logcatPaths); err != nil {
		a.logger.Error().Err(err).Msg("Failed to write logcat path file")
		finalErr = err
		return err
	}

	a.logger.Info().
		Str("result", string(finalRun.Result)).
		Int("logcats", len(logcatPaths)).
		Str("dir", runDir).
		Msg("Device Farm run finished")
	return nil
}
