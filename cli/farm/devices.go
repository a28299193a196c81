package farm

// This file contains the device inventory listings behind the pools
// and devices commands.

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
)

// ListDevicePools returns the device pools of a project, optionally
// filtered by pool type.
func (c *Client) ListDevicePools(ctx context.Context, projectArn string, poolType types.DevicePoolType) ([]types.DevicePool, error) {
	var pools []types.DevicePool
	var nextToken *string
	for {
		in := &devicefarm.ListDevicePoolsInput{Arn: aws.String(projectArn), NextToken: nextToken}
		if poolType != "" {
			in.Type = poolType
		}

		out, err := c.api.ListDevicePools(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("failed to list device pools for %s: %w", projectArn, err)
		}
		pools = append(pools, out.DevicePools...)
		if out.NextToken == nil {
			return pools, nil
		}
		nextToken = out.NextToken
	}
}

// ListDevices returns the devices available to a project, or the whole
// Device Farm inventory when projectArn is empty.
func (c *Client) ListDevices(ctx context.Context, projectArn string) ([]types.Device, error) {
	var devices []types.Device
	var nextToken *string
	for {
		in := &devicefarm.ListDevicesInput{NextToken: nextToken}
		if projectArn != "" {
			in.Arn = aws.String(projectArn)
		}

		out, err := c.api.ListDevices(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
		devices = append(devices, out.Devices...)
		if out.NextToken == nil {
			return devices, nil
		}
		nextToken = out.NextToken
	}
}
