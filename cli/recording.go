package cli

// This file contains run recording: the metadata of each Device Farm
// run is written into its run directory so list and show can find it.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws-solutions/clickstream-devicefarm-runner/cli/farm"
	"github.com/aws-solutions/clickstream-devicefarm-runner/history"
	"github.com/aws-solutions/clickstream-devicefarm-runner/model"
)

func (a *App) recordRun(record *model.RunRecord, runDir string) error {
	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	recordPath := filepath.Join(runDir, history.RecordFileName)
	if err := os.WriteFile(recordPath, recordJSON, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	a.logger.Debug().Str("dir", runDir).Str("id", record.ID).Msg("Recorded run")
	return nil
}

// newUploadRecord captures an upload for the run record. The size is
// best effort.
func (a *App) newUploadRecord(arn, name, path string) *model.Upload {
	upload := &model.Upload{Arn: arn, Name: name, File: path}
	if info, err := os.Stat(path); err == nil {
		upload.Size = uint64(info.Size())
	}
	return upload
}

// jobRecords groups downloaded files by job, preserving the order the
// jobs were seen in.
func jobRecords(runDir string, files []farm.DownloadedFile) []model.JobRecord {
	var jobs []model.JobRecord
	index := make(map[string]int)

	for _, f := range files {
		i, ok := index[f.Job]
		if !ok {
			i = len(jobs)
			index[f.Job] = i
			jobs = append(jobs, model.JobRecord{Name: f.Job})
		}

		kind := model.FileKindLogcat
		if f.Bundle {
			kind = model.FileKindBundle
		}

		file := f.Path
		if rel, err := filepath.Rel(runDir, f.Path); err == nil {
			file = rel
		}

		jobs[i].Files = append(jobs[i].Files, model.FileRecord{
			Kind: kind,
			Size: uint64(f.Size),
			File: file,
		})
	}
	return jobs
}
