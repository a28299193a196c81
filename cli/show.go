package cli

// This file contains the show command for displaying recorded runs.

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws-solutions/clickstream-devicefarm-runner/history"
	"github.com/aws-solutions/clickstream-devicefarm-runner/model"
	"github.com/urfave/cli/v2"
)

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

func parseShowArgs(in []string) (idArg string, extra []string) {
	in = removeFirstDashDash(in)
	if len(in) == 0 {
		return "0", nil
	}
	return in[0], in[1:]
}

// resolveEntry picks a run from entries sorted newest first. The argument
// is either a non-positive index (0=last, -1=second-to-last, etc.) or a
// hex ID prefix.
func resolveEntry(entries []history.Entry, arg string) (*history.Entry, error) {
	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		// It's a number
		if parsed > 0 {
			// Positive integers are not allowed
			return nil, fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		index := int(-parsed) // Convert to positive index (0 -> 0, -1 -> 1, -2 -> 2)
		if index >= len(entries) {
			return nil, fmt.Errorf("index %s out of range (only %d recorded runs)", arg, len(entries))
		}
		return &entries[index], nil
	}

	// Treat as hex ID prefix
	hexID := strings.ToLower(arg)
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].Record.ID), hexID) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no recorded run found matching ID: %s", arg)
}

func (a *App) show(ctx *cli.Context) error {
	arg, extra := parseShowArgs(ctx.Args().Slice())
	if len(extra) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(extra, " "))
	}

	entries, err := history.LoadEntries(a.logger, ".")
	if err != nil {
		return fmt.Errorf("failed to load recorded runs: %w", err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no recorded runs found")
	}

	// Sort by timestamp (newest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Record.Timestamp.After(entries[j].Record.Timestamp)
	})

	entry, err := resolveEntry(entries, arg)
	if err != nil {
		return err
	}

	a.displayRunEntry(entry)
	return nil
}

func (a *App) displayRunEntry(entry *history.Entry) {
	rec := entry.Record

	shortID := rec.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	fmt.Printf("=== Run: %s ===\n", shortID)
	fmt.Printf("Name: %s\n", rec.Name)
	fmt.Printf("Time: %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %s\n", rec.Duration)
	fmt.Printf("Exit Code: %d\n", rec.ExitCode)
	if rec.Status != "" {
		fmt.Printf("Status: %s  Result: %s\n", rec.Status, rec.Result)
	}
	if rec.RunArn != "" {
		fmt.Printf("Run ARN: %s\n", rec.RunArn)
	}
	if rec.ProjectArn != "" {
		fmt.Printf("Project ARN: %s\n", rec.ProjectArn)
	}
	if rec.Git != nil && rec.Git.Commit != "" {
		shortCommit := rec.Git.Commit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
		fmt.Printf("Git Commit: %s", shortCommit)
		if rec.Git.Branch != "" {
			fmt.Printf(" (%s)", rec.Git.Branch)
		}
		fmt.Println()
	}
	if rec.AppUpload != nil {
		fmt.Printf("App Upload: %s (%.1f KB)\n", rec.AppUpload.Name, float64(rec.AppUpload.Size)/1024)
	}
	if rec.TestUpload != nil {
		fmt.Printf("Test Upload: %s (%.1f KB)\n", rec.TestUpload.Name, float64(rec.TestUpload.Size)/1024)
	}
	fmt.Println()

	for _, job := range rec.Jobs {
		fmt.Printf("Job: %s\n", job.Name)
		for _, file := range job.Files {
			kind := "logcat"
			if file.Kind == model.FileKindBundle {
				kind = "bundle"
			}
			fmt.Printf("   %s: %s (%.1f KB)\n", kind, file.File, float64(file.Size)/1024)
		}
	}

	for _, report := range rec.Reports {
		mark := "✓"
		if !report.Valid {
			mark = "✗"
		}
		fmt.Printf("Report %s %s: %s\n", mark, report.Device, report.File)
	}

	fmt.Printf("\nLogcats collected: %d\n", len(rec.LogcatPaths))
	fmt.Printf("\nRun directory: %s\n", entry.FullPath)
}
