package farm

// This file contains run scheduling and completion polling.

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
)

const defaultRunPollInterval = 10 * time.Second

// RunSpec describes a run to schedule.
type RunSpec struct {
	ProjectArn     string
	AppArn         string
	DevicePoolArn  string
	Name           string
	TestSpecArn    string
	TestPackageArn string
}

// ScheduleRun starts an Appium Python run of the uploaded test package
// against the uploaded app on the device pool.
func (c *Client) ScheduleRun(ctx context.Context, spec RunSpec) (*types.Run, error) {
	out, err := c.api.ScheduleRun(ctx, &devicefarm.ScheduleRunInput{
		ProjectArn:    aws.String(spec.ProjectArn),
		AppArn:        aws.String(spec.AppArn),
		DevicePoolArn: aws.String(spec.DevicePoolArn),
		Name:          aws.String(spec.Name),
		Test: &types.ScheduleRunTest{
			Type:           types.TestTypeAppiumPython,
			TestSpecArn:    aws.String(spec.TestSpecArn),
			TestPackageArn: aws.String(spec.TestPackageArn),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule run %s: %w", spec.Name, err)
	}

	c.logger.Info().
		Str("name", spec.Name).
		Str("arn", aws.ToString(out.Run.Arn)).
		Msg("Run scheduled")
	return out.Run, nil
}

// WaitForRun polls the run until it reaches a final state and returns
// its last description.
func (c *Client) WaitForRun(ctx context.Context, runArn string) (*types.Run, error) {
	started := c.clk.Now()
	for {
		out, err := c.api.GetRun(ctx, &devicefarm.GetRunInput{Arn: aws.String(runArn)})
		if err != nil {
			return nil, fmt.Errorf("failed to get run %s: %w", runArn, err)
		}

		run := out.Run
		if runFinished(run) {
			c.logger.Info().
				Str("status", string(run.Status)).
				Str("result", string(run.Result)).
				Dur("elapsed", c.clk.Since(started)).
				Msg("Run finished")
			return run, nil
		}

		c.logger.Info().
			Str("status", string(run.Status)).
			Str("result", string(run.Result)).
			Msg("Waiting for run to complete")

		if err := c.sleep(ctx, c.runPollInterval); err != nil {
			return nil, err
		}
	}
}

// runFinished reports whether the run reached a final state. Errored
// runs can park in a non final status, so the result is consulted too.
func runFinished(run *types.Run) bool {
	return run.Status == types.ExecutionStatusCompleted || run.Result == types.ExecutionResultErrored
}

// StopRun asks Device Farm to stop the run.
func (c *Client) StopRun(ctx context.Context, runArn string) error {
	if _, err := c.api.StopRun(ctx, &devicefarm.StopRunInput{Arn: aws.String(runArn)}); err != nil {
		return fmt.Errorf("failed to stop run %s: %w", runArn, err)
	}
	return nil
}
