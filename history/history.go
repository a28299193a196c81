package history

// This file contains shared utilities for loading and parsing recorded
// Device Farm runs.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws-solutions/clickstream-devicefarm-runner/model"
	"github.com/rs/zerolog"
)

// RecordFileName is the file each run directory keeps its record in.
const RecordFileName = "runrecord.json"

type Entry struct {
	Record   model.RunRecord
	FullPath string
}

// LoadEntries loads every run record found below root.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			recordPath := filepath.Join(path, RecordFileName)
			if _, err := os.Stat(recordPath); err == nil {
				record, err := parseRecordJSON(recordPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", recordPath).Msg("Failed to parse run record")
					return nil
				}

				entries = append(entries, Entry{
					Record:   record,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return entries, nil
}

// parseRecordJSON parses a runrecord.json file.
func parseRecordJSON(recordPath string) (model.RunRecord, error) {
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return model.RunRecord{}, err
	}

	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}

	return record, nil
}
