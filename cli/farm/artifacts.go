package farm

// This file contains the artifact collection pass that runs after a
// run completes: every job's Tests Suite is walked and its logcat and
// customer artifact files are saved under a per job directory.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
)

// testsSuiteName is the suite holding the Appium test artifacts. The
// other suites only carry harness setup and teardown output.
const testsSuiteName = "Tests Suite"

// artifactCategories is the order categories are fetched in. Bundles
// arrive in the FILE pass, so a bundle's verdict is known before the
// logcats of the same test show up in the LOG pass.
var artifactCategories = []types.ArtifactCategory{
	types.ArtifactCategoryFile,
	types.ArtifactCategoryScreenshot,
	types.ArtifactCategoryLog,
}

// DownloadedFile describes one artifact saved to disk.
type DownloadedFile struct {
	Path   string
	Size   int64
	Job    string
	Bundle bool
}

// BundleHandler post processes a downloaded customer artifact bundle
// and reports whether the test that produced it looks valid.
type BundleHandler func(bundlePath, jobName string) (bool, error)

// DownloadArtifacts walks the run's jobs and downloads the logcat and
// customer artifact files of each Tests Suite into per job directories
// under saveDir. It returns the logcat paths of valid tests in
// download order along with every file saved.
func (c *Client) DownloadArtifacts(ctx context.Context, runArn, saveDir string, handleBundle BundleHandler) ([]string, []DownloadedFile, error) {
	jobs, err := c.listJobs(ctx, runArn)
	if err != nil {
		return nil, nil, err
	}

	var logcatPaths []string
	var files []DownloadedFile

	for _, job := range jobs {
		jobName := aws.ToString(job.Name)
		jobDir := filepath.Join(saveDir, jobName)
		if err := os.MkdirAll(jobDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create job directory %s: %w", jobDir, err)
		}

		c.logger.Info().Str("job", jobName).Msg("Collecting job artifacts")

		suites, err := c.listSuites(ctx, aws.ToString(job.Arn))
		if err != nil {
			return nil, nil, err
		}

		for _, suite := range suites {
			if aws.ToString(suite.Name) != testsSuiteName {
				continue
			}

			tests, err := c.listTests(ctx, aws.ToString(suite.Arn))
			if err != nil {
				return nil, nil, err
			}

			for _, test := range tests {
				// An invalid bundle taints the remaining logcats of
				// the same test.
				validTest := true

				for _, category := range artifactCategories {
					artifacts, err := c.listArtifacts(ctx, aws.ToString(test.Arn), category)
					if err != nil {
						return nil, nil, err
					}

					for _, artifact := range artifacts {
						fileName := fmt.Sprintf("%s_%s.%s", artifact.Type, aws.ToString(artifact.Name), aws.ToString(artifact.Extension))

						isLogcat := strings.HasSuffix(fileName, ".logcat")
						isBundle := strings.HasSuffix(fileName, ".zip")
						if !isLogcat && !isBundle {
							continue
						}

						savePath := filepath.Join(jobDir, fileName)
						if isLogcat && validTest {
							logcatPaths = append(logcatPaths, savePath)
						}

						size, err := c.downloadFile(ctx, aws.ToString(artifact.Url), savePath)
						if err != nil {
							return nil, nil, err
						}
						files = append(files, DownloadedFile{Path: savePath, Size: size, Job: jobName, Bundle: isBundle})

						if isBundle && handleBundle != nil {
							valid, err := handleBundle(savePath, jobName)
							if err != nil {
								return nil, nil, err
							}
							validTest = valid
						}
					}
				}
			}
		}
	}

	return logcatPaths, files, nil
}

// downloadFile fetches a signed URL into savePath and returns the
// number of bytes written.
func (c *Client) downloadFile(ctx context.Context, url, savePath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", filepath.Base(savePath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("download of %s rejected: %s", filepath.Base(savePath), resp.Status)
	}

	f, err := os.Create(savePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", savePath, err)
	}

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to save %s: %w", savePath, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", savePath, err)
	}

	c.logger.Debug().
		Str("file", savePath).
		Int64("bytes", n).
		Msg("Artifact downloaded")
	return n, nil
}

func (c *Client) listJobs(ctx context.Context, runArn string) ([]types.Job, error) {
	var jobs []types.Job
	var nextToken *string
	for {
		out, err := c.api.ListJobs(ctx, &devicefarm.ListJobsInput{Arn: aws.String(runArn), NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list jobs for %s: %w", runArn, err)
		}
		jobs = append(jobs, out.Jobs...)
		if out.NextToken == nil {
			return jobs, nil
		}
		nextToken = out.NextToken
	}
}

func (c *Client) listSuites(ctx context.Context, jobArn string) ([]types.Suite, error) {
	var suites []types.Suite
	var nextToken *string
	for {
		out, err := c.api.ListSuites(ctx, &devicefarm.ListSuitesInput{Arn: aws.String(jobArn), NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list suites for %s: %w", jobArn, err)
		}
		suites = append(suites, out.Suites...)
		if out.NextToken == nil {
			return suites, nil
		}
		nextToken = out.NextToken
	}
}

func (c *Client) listTests(ctx context.Context, suiteArn string) ([]types.Test, error) {
	var tests []types.Test
	var nextToken *string
	for {
		out, err := c.api.ListTests(ctx, &devicefarm.ListTestsInput{Arn: aws.String(suiteArn), NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list tests for %s: %w", suiteArn, err)
		}
		tests = append(tests, out.Tests...)
		if out.NextToken == nil {
			return tests, nil
		}
		nextToken = out.NextToken
	}
}

func (c *Client) listArtifacts(ctx context.Context, testArn string, category types.ArtifactCategory) ([]types.Artifact, error) {
	var artifacts []types.Artifact
	var nextToken *string
	for {
		out, err := c.api.ListArtifacts(ctx, &devicefarm.ListArtifactsInput{
			Arn:       aws.String(testArn),
			Type:      category,
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s artifacts for %s: %w", category, testArn, err)
		}
		artifacts = append(artifacts, out.Artifacts...)
		if out.NextToken == nil {
			return artifacts, nil
		}
		nextToken = out.NextToken
	}
}
