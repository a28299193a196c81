package farm

// This file contains the upload workflow: create an upload slot in the
// project, push the file to the returned signed URL and poll until
// Device Farm has processed it.

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
)

const defaultUploadPollInterval = 5 * time.Second

// UploadFile creates an upload of the given type in the project, sends
// the file behind path to the signed URL and waits until processing
// finishes. It returns the ARN of the ready upload.
func (c *Client) UploadFile(ctx context.Context, projectArn, name, path string, uploadType types.UploadType, contentType string) (string, error) {
	out, err := c.api.CreateUpload(ctx, &devicefarm.CreateUploadInput{
		Name:        aws.String(name),
		ProjectArn:  aws.String(projectArn),
		Type:        uploadType,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create upload for %s: %w", name, err)
	}

	c.logger.Info().
		Str("name", name).
		Str("type", string(uploadType)).
		Msg("Uploading file")

	if err := c.putFile(ctx, aws.ToString(out.Upload.Url), path, contentType); err != nil {
		return "", err
	}

	return c.waitForUpload(ctx, out.Upload)
}

// putFile sends the file to the signed URL with a plain HTTP PUT.
func (c *Client) putFile(ctx context.Context, url, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	// The signed URL expects the exact length up front
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("upload of %s rejected: %s", filepath.Base(path), resp.Status)
	}

	c.logger.Debug().
		Str("file", path).
		Int64("bytes", info.Size()).
		Msg("File transferred")
	return nil
}

// waitForUpload polls the upload until it succeeds or fails. The
// status of the create response is inspected before the first sleep.
func (c *Client) waitForUpload(ctx context.Context, upload *types.Upload) (string, error) {
	for {
		switch upload.Status {
		case types.UploadStatusFailed:
			reason := aws.ToString(upload.Message)
			if reason == "" {
				reason = aws.ToString(upload.Metadata)
			}
			return "", fmt.Errorf("upload %s failed: %s", aws.ToString(upload.Name), reason)
		case types.UploadStatusSucceeded:
			return aws.ToString(upload.Arn), nil
		}

		c.logger.Debug().
			Str("name", aws.ToString(upload.Name)).
			Str("status", string(upload.Status)).
			Msg("Waiting for upload to be processed")

		if err := c.sleep(ctx, c.uploadPollInterval); err != nil {
			return "", err
		}

		out, err := c.api.GetUpload(ctx, &devicefarm.GetUploadInput{Arn: upload.Arn})
		if err != nil {
			return "", fmt.Errorf("failed to get upload %s: %w", aws.ToString(upload.Arn), err)
		}
		upload = out.Upload
	}
}
