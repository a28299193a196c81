package farm

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestScheduleRun(t *testing.T) {
	var got *devicefarm.ScheduleRunInput
	api := &fakeAPI{
		scheduleRun: func(in *devicefarm.ScheduleRunInput) (*devicefarm.ScheduleRunOutput, error) {
			got = in
			return &devicefarm.ScheduleRunOutput{Run: &types.Run{
				Arn:    aws.String("arn:run:new"),
				Status: types.ExecutionStatusScheduling,
			}}, nil
		},
	}

	c := New(zerolog.Nop(), api)
	run, err := c.ScheduleRun(context.Background(), RunSpec{
		ProjectArn:     "arn:project",
		AppArn:         "arn:upload:app",
		DevicePoolArn:  "arn:pool",
		Name:           "MyAndroidAppTest-2026-08-23aBcDeFgH",
		TestSpecArn:    "arn:upload:spec",
		TestPackageArn: "arn:upload:pkg",
	})
	require.NoError(t, err)
	require.Equal(t, "arn:run:new", aws.ToString(run.Arn))

	require.Equal(t, "arn:project", aws.ToString(got.ProjectArn))
	require.Equal(t, "arn:upload:app", aws.ToString(got.AppArn))
	require.Equal(t, "arn:pool", aws.ToString(got.DevicePoolArn))
	require.Equal(t, "MyAndroidAppTest-2026-08-23aBcDeFgH", aws.ToString(got.Name))
	require.Equal(t, types.TestTypeAppiumPython, got.Test.Type)
	require.Equal(t, "arn:upload:spec", aws.ToString(got.Test.TestSpecArn))
	require.Equal(t, "arn:upload:pkg", aws.ToString(got.Test.TestPackageArn))
}

func TestWaitForRun_PollsUntilCompleted(t *testing.T) {
	statuses := []types.ExecutionStatus{
		types.ExecutionStatusRunning,
		types.ExecutionStatusRunning,
		types.ExecutionStatusCompleted,
	}
	getRunCalls := 0
	api := &fakeAPI{
		getRun: func(in *devicefarm.GetRunInput) (*devicefarm.GetRunOutput, error) {
			status := statuses[getRunCalls]
			getRunCalls++

			result := types.ExecutionResultPending
			if status == types.ExecutionStatusCompleted {
				result = types.ExecutionResultPassed
			}
			return &devicefarm.GetRunOutput{Run: &types.Run{
				Arn:    in.Arn,
				Status: status,
				Result: result,
			}}, nil
		},
	}

	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	c := New(zerolog.Nop(), api, WithClock(clk))

	done := make(chan struct{})
	var run *types.Run
	var err error
	go func() {
		defer close(done)
		run, err = c.WaitForRun(context.Background(), "arn:run:1")
	}()

	clk.WaitForWatcherAndIncrement(10 * time.Second)
	clk.WaitForWatcherAndIncrement(10 * time.Second)
	<-done

	require.NoError(t, err)
	require.Equal(t, types.ExecutionStatusCompleted, run.Status)
	require.Equal(t, types.ExecutionResultPassed, run.Result)
	require.Equal(t, 3, getRunCalls)
}

func TestWaitForRun_ErroredResultIsFinal(t *testing.T) {
	getRunCalls := 0
	api := &fakeAPI{
		getRun: func(in *devicefarm.GetRunInput) (*devicefarm.GetRunOutput, error) {
			getRunCalls++
			// Errored runs can keep reporting a non final status
			return &devicefarm.GetRunOutput{Run: &types.Run{
				Arn:    in.Arn,
				Status: types.ExecutionStatusRunning,
				Result: types.ExecutionResultErrored,
			}}, nil
		},
	}

	c := New(zerolog.Nop(), api)
	run, err := c.WaitForRun(context.Background(), "arn:run:1")
	require.NoError(t, err)
	require.Equal(t, types.ExecutionResultErrored, run.Result)
	require.Equal(t, 1, getRunCalls)
}

func TestWaitForRun_GetRunError(t *testing.T) {
	api := &fakeAPI{
		getRun: func(*devicefarm.GetRunInput) (*devicefarm.GetRunOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	c := New(zerolog.Nop(), api)
	_, err := c.WaitForRun(context.Background(), "arn:run:1")
	require.ErrorContains(t, err, "failed to get run")
	require.ErrorContains(t, err, "throttled")
}

func TestStopRun(t *testing.T) {
	var stopped string
	api := &fakeAPI{
		stopRun: func(in *devicefarm.StopRunInput) (*devicefarm.StopRunOutput, error) {
			stopped = aws.ToString(in.Arn)
			return &devicefarm.StopRunOutput{}, nil
		},
	}

	c := New(zerolog.Nop(), api)
	require.NoError(t, c.StopRun(context.Background(), "arn:run:1"))
	require.Equal(t, "arn:run:1", stopped)
}

func TestStopRun_Error(t *testing.T) {
	api := &fakeAPI{
		stopRun: func(*devicefarm.StopRunInput) (*devicefarm.StopRunOutput, error) {
			return nil, errors.New("no such run")
		},
	}

	c := New(zerolog.Nop(), api)
	err := c.StopRun(context.Background(), "arn:run:1")
	require.ErrorContains(t, err, "failed to stop run arn:run:1")
}
