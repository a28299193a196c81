package cli

// This file contains the pools and devices commands for inspecting
// the Device Farm inventory.

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
	"github.com/urfave/cli/v2"
)

func (a *App) pools(ctx *cli.Context) error {
	projectArn := ctx.String("project-arn")
	if projectArn == "" {
		return fmt.Errorf("missing required flag: project-arn")
	}

	client, err := a.newFarmClient(ctx)
	if err != nil {
		return err
	}

	poolType := types.DevicePoolType(strings.ToUpper(ctx.String("type")))
	pools, err := client.ListDevicePools(ctx.Context, projectArn, poolType)
	if err != nil {
		return err
	}

	if len(pools) == 0 {
		fmt.Println("No device pools found")
		return nil
	}

	for _, pool := range pools {
		fmt.Printf("%s [%s]\n", aws.ToString(pool.Name), pool.Type)
		fmt.Printf("   %s\n", aws.ToString(pool.Arn))
		if desc := aws.ToString(pool.Description); desc != "" {
			fmt.Printf("   %s\n", desc)
		}
		fmt.Println()
	}
	return nil
}

func (a *App) devices(ctx *cli.Context) error {
	client, err := a.newFarmClient(ctx)
	if err != nil {
		return err
	}

	devices, err := client.ListDevices(ctx.Context, ctx.String("project-arn"))
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No devices found")
		return nil
	}

	for _, device := range devices {
		fmt.Printf("%s (%s %s, %s)\n",
			aws.ToString(device.Name), device.Platform, aws.ToString(device.Os), device.FormFactor)
		fmt.Printf("   %s\n", aws.ToString(device.Arn))
		fmt.Println()
	}
	return nil
}
