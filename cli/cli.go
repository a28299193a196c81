package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/aws-solutions/clickstream-devicefarm-runner/cli/farm"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "dfrunner"

// Device Farm is only hosted in us-west-2
const defaultRegion = "us-west-2"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Run the Clickstream Android sample app test suite on AWS Device Farm",
			Authors: []*cli.Author{
				{Name: "AWS Solutions Builders", Email: "aws-solutions-builder@amazon.com"},
			},
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Upload the app and test package, run them on a device pool and collect results",
		Action: app.run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "app",
				Usage:   "Path to the Android app APK to test",
				EnvVars: []string{"DEVICEFARM_APP_FILE_PATH"},
			},
			&cli.StringFlag{
				Name:    "test-package",
				Usage:   "Path to the zipped Appium test package",
				EnvVars: []string{"DEVICEFARM_TEST_PACKAGE_PATH"},
			},
			&cli.StringFlag{
				Name:    "project-arn",
				Usage:   "ARN of the Device Farm project",
				EnvVars: []string{"DEVICEFARM_PROJECT_ARN"},
			},
			&cli.StringFlag{
				Name:    "test-spec-arn",
				Usage:   "ARN of the uploaded test spec the run executes",
				EnvVars: []string{"DEVICEFARM_TEST_SPEC_ARN"},
			},
			&cli.StringFlag{
				Name:    "device-pool-arn",
				Usage:   "ARN of the device pool to run on",
				EnvVars: []string{"DEVICEFARM_POOL_ARN"},
			},
			&cli.StringFlag{
				Name:    "name-prefix",
				Usage:   "Prefix for the generated run name",
				Value:   defaultNamePrefix,
				EnvVars: []string{"DEVICEFARM_NAME_PREFIX"},
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region hosting Device Farm",
				Value:   defaultRegion,
				EnvVars: []string{"AWS_REGION"},
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "verify",
		Usage:     "Parse the collected logcat files and verify the recorded events",
		ArgsUsage: "[PATH_FILE]",
		Action:    app.verify,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "pools",
		Usage:  "List the device pools of a project",
		Action: app.pools,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project-arn",
				Usage:   "ARN of the Device Farm project",
				EnvVars: []string{"DEVICEFARM_PROJECT_ARN"},
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Filter by pool type (curated or private)",
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region hosting Device Farm",
				Value:   defaultRegion,
				EnvVars: []string{"AWS_REGION"},
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "devices",
		Usage:  "List the devices available to a project",
		Action: app.devices,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project-arn",
				Usage:   "ARN of the Device Farm project (omit for the full inventory)",
				EnvVars: []string{"DEVICEFARM_PROJECT_ARN"},
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region hosting Device Farm",
				Value:   defaultRegion,
				EnvVars: []string{"AWS_REGION"},
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List recorded Device Farm runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to search for recorded runs",
				Value:   ".",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "show",
		Usage:           "Show details of a recorded run",
		ArgsUsage:       "[ID|INDEX]",
		Action:          app.show,
		SkipFlagParsing: true,
		Description: `Show details of a recorded run.

Arguments:
  0           Show last run (default)
  -1          Show 2nd last run
  -2          Show 3rd last run
  <hex-id>    Show run matching the hex ID prefix

Examples:
  dfrunner show           # Show last run
  dfrunner show -1        # Show 2nd last run
  dfrunner show -2        # Show 3rd last run
  dfrunner show abc123    # Show run with ID starting with abc123`,
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

// newFarmClient builds a farm client for the region selected on the
// command.
func (a *App) newFarmClient(ctx *cli.Context) (*farm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx.Context, awsconfig.WithRegion(ctx.String("region")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return farm.New(a.logger, devicefarm.NewFromConfig(awsCfg)), nil
}
