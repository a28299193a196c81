package cli

// This file contains Git integration utilities for retrieving
// repository information.

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aws-solutions/clickstream-devicefarm-runner/model"
)

func gitOutput(args ...string) (string, error) {
	output, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

func (a *App) getGitInfo() (*model.Git, error) {
	commit, err := gitOutput("rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}

	branch, err := gitOutput("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}

	git := &model.Git{Commit: commit, Branch: branch}

	// Repo name is optional (non-fatal if it fails)
	if root, err := gitOutput("rev-parse", "--show-toplevel"); err == nil {
		git.Repo = filepath.Base(root)
	}

	return git, nil
}
