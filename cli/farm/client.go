package farm

// Package farm wraps the AWS Device Farm API with the workflow level
// operations dfrunner needs: uploading build artifacts, scheduling and
// awaiting runs, collecting artifacts from finished jobs and listing
// the device inventory of a project.

import (
	"context"
	"net/http"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/rs/zerolog"
)

// API is the subset of the Device Farm service client used here.
type API interface {
	CreateUpload(ctx context.Context, params *devicefarm.CreateUploadInput, optFns ...func(*devicefarm.Options)) (*devicefarm.CreateUploadOutput, error)
	GetUpload(ctx context.Context, params *devicefarm.GetUploadInput, optFns ...func(*devicefarm.Options)) (*devicefarm.GetUploadOutput, error)
	ScheduleRun(ctx context.Context, params *devicefarm.ScheduleRunInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ScheduleRunOutput, error)
	GetRun(ctx context.Context, params *devicefarm.GetRunInput, optFns ...func(*devicefarm.Options)) (*devicefarm.GetRunOutput, error)
	StopRun(ctx context.Context, params *devicefarm.StopRunInput, optFns ...func(*devicefarm.Options)) (*devicefarm.StopRunOutput, error)
	ListJobs(ctx context.Context, params *devicefarm.ListJobsInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ListJobsOutput, error)
	ListSuites(ctx context.Context, params *devicefarm.ListSuitesInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ListSuitesOutput, error)
	ListTests(ctx context.Context, params *devicefarm.ListTestsInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ListTestsOutput, error)
	ListArtifacts(ctx context.Context, params *devicefarm.ListArtifactsInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ListArtifactsOutput, error)
	ListDevicePools(ctx context.Context, params *devicefarm.ListDevicePoolsInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ListDevicePoolsOutput, error)
	ListDevices(ctx context.Context, params *devicefarm.ListDevicesInput, optFns ...func(*devicefarm.Options)) (*devicefarm.ListDevicesOutput, error)
}

// Client manages the Device Farm workflow for one project.
type Client struct {
	logger zerolog.Logger
	api    API
	http   *transferClient
	clk    clock.Clock

	uploadPollInterval time.Duration
	runPollInterval    time.Duration
}

// Option is a function that configures a farm client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for artifact transfers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = newTransferClient(hc)
	}
}

// WithClock sets the clock used for poll sleeps.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		c.clk = clk
	}
}

// WithUploadPollInterval overrides how often upload processing is polled.
func WithUploadPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.uploadPollInterval = d
	}
}

// WithRunPollInterval overrides how often run progress is polled.
func WithRunPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.runPollInterval = d
	}
}

// New creates a new Device Farm client on top of api.
func New(logger zerolog.Logger, api API, opts ...Option) *Client {
	c := &Client{
		logger:             logger,
		api:                api,
		clk:                clock.NewClock(),
		uploadPollInterval: defaultUploadPollInterval,
		runPollInterval:    defaultRunPollInterval,
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = newTransferClient(nil)
	}
	return c
}

// sleep waits for d on the client clock, honoring ctx cancellation.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	tm := c.clk.NewTimer(d)
	defer tm.Stop()

	select {
	case <-tm.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
