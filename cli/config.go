package cli

// This file contains the run configuration assembled from command line
// flags and environment variables.

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"
)

const defaultNamePrefix = "MyAndroidAppTest"

// RunConfig holds everything a Device Farm run needs.
type RunConfig struct {
	AppPath         string `validate:"required,file"`
	TestPackagePath string `validate:"required,file"`
	ProjectArn      string `validate:"required,startswith=arn"`
	TestSpecArn     string `validate:"required,startswith=arn"`
	DevicePoolArn   string `validate:"required,startswith=arn"`
	NamePrefix      string `validate:"required"`
	Region          string `validate:"required"`
}

// newRunConfig reads the run configuration from the command context.
func newRunConfig(ctx *cli.Context) (*RunConfig, error) {
	cfg := &RunConfig{
		AppPath:         ctx.String("app"),
		TestPackagePath: ctx.String("test-package"),
		ProjectArn:      ctx.String("project-arn"),
		TestSpecArn:     ctx.String("test-spec-arn"),
		DevicePoolArn:   ctx.String("device-pool-arn"),
		NamePrefix:      ctx.String("name-prefix"),
		Region:          ctx.String("region"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or malformed values.
func (c *RunConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid run configuration: %w", err)
	}
	return nil
}
