package cli

// This file contains the verify command that checks the collected
// logcat files against the expected Clickstream event flow.

import (
	"fmt"
	"os"

	"github.com/aws-solutions/clickstream-devicefarm-runner/logcat"
	"github.com/urfave/cli/v2"
)

func (a *App) verify(ctx *cli.Context) error {
	pathFile := ctx.Args().First()
	if pathFile == "" {
		pathFile = logcat.PathFileName
	}

	logcatPaths, err := logcat.ReadPathFile(pathFile)
	if err != nil {
		return err
	}
	if len(logcatPaths) == 0 {
		return fmt.Errorf("no logcat files listed in %s", pathFile)
	}

	parser := logcat.New()
	failed := 0
	for _, path := range logcatPaths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open logcat %s: %w", path, err)
		}

		res, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse logcat %s: %w", path, err)
		}

		if err := logcat.Verify(res); err != nil {
			a.logger.Error().Err(err).Str("file", path).Msg("Logcat verification failed")
			failed++
			continue
		}

		a.logger.Info().
			Str("file", path).
			Int("events", len(res.Events)).
			Msg("Logcat verified")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d logcat files failed verification", failed, len(logcatPaths))
	}
	return nil
}
