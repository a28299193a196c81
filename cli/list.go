package cli

// This file contains the list command for displaying recorded Device Farm runs.

import (
	"fmt"
	"sort"
	"time"

	"github.com/aws-solutions/clickstream-devicefarm-runner/history"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	entries, err := history.LoadEntries(a.logger, ctx.String("dir"))
	if err != nil {
		return fmt.Errorf("failed to load recorded runs: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No recorded runs found")
		return nil
	}

	// Sort by timestamp (newest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Record.Timestamp.After(entries[j].Record.Timestamp)
	})

	// Apply limit
	displayRuns := entries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== Runs (%d total) ===\n\n", len(entries))

	for _, entry := range displayRuns {
		rec := entry.Record
		timestamp := rec.Timestamp.Format("2006-01-02 15:04:05")

		// Format duration
		duration := rec.Duration.Round(time.Millisecond)

		// Determine status indicator
		status := "✓"
		if rec.ExitCode != 0 {
			status = "✗"
		}

		// Show short ID (first 8 chars)
		shortID := rec.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		result := rec.Result
		if result == "" {
			result = "-"
		}

		fmt.Printf("%s  %s  [%s]  result=%s  id=%s\n", status, timestamp, duration, result, shortID)
		fmt.Printf("   Name: %s\n", rec.Name)
		if len(rec.Jobs) > 0 {
			validReports := 0
			for _, report := range rec.Reports {
				if report.Valid {
					validReports++
				}
			}
			fmt.Printf("   Jobs: %d  Reports: %d/%d valid  Logcats: %d\n",
				len(rec.Jobs), validReports, len(rec.Reports), len(rec.LogcatPaths))
		}
		if rec.Git != nil && rec.Git.Commit != "" {
			shortCommit := rec.Git.Commit
			if len(shortCommit) > 8 {
				shortCommit = shortCommit[:8]
			}
			fmt.Printf("   Commit: %s", shortCommit)
			if rec.Git.Branch != "" {
				fmt.Printf(" (%s)", rec.Git.Branch)
			}
			fmt.Println()
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	fmt.Println("\nShow run details: dfrunner show <ID>")
	fmt.Println("Verify collected logcats: dfrunner verify")

	return nil
}
