package model

import "time"

// RunRecord represents a single Device Farm workflow execution.
// It is written as runrecord.json into the run directory.
type RunRecord struct {
	// Unique ID for this execution (16 random bytes, hex encoded)
	ID string `json:"id"`
	// Name of the run as submitted to Device Farm
	Name string `json:"name"`
	// ARN of the scheduled run
	RunArn string `json:"run_arn,omitempty"`
	// Final execution status reported by Device Farm (e.g. COMPLETED)
	Status string `json:"status,omitempty"`
	// Final execution result reported by Device Farm (e.g. PASSED, ERRORED)
	Result string `json:"result,omitempty"`
	// Timestamp when the workflow started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory where the command was run
	WorkDir string `json:"workdir"`
	// Exit code of the workflow
	ExitCode int `json:"exit_code"`
	// Duration of the whole workflow
	Duration time.Duration `json:"duration"`
	// Git information
	Git *Git `json:"git,omitempty"`
	// Project the run was scheduled in
	ProjectArn string `json:"project_arn,omitempty"`
	// Device pool the run was scheduled on
	DevicePoolArn string `json:"device_pool_arn,omitempty"`
	// Application package pushed to Device Farm
	AppUpload *Upload `json:"app_upload,omitempty"`
	// Appium test package pushed to Device Farm
	TestUpload *Upload `json:"test_upload,omitempty"`
	// Per-device jobs and the files downloaded for them
	Jobs []JobRecord `json:"jobs,omitempty"`
	// JUnit reports extracted from the result bundles
	Reports []ReportRecord `json:"reports,omitempty"`
	// Logcat files collected for event verification
	LogcatPaths []string `json:"logcat_paths,omitempty"`
}

// Git contains git repository information
type Git struct {
	// Git commit hash at time of execution
	Commit string `json:"commit,omitempty"`
	// Git branch at time of execution
	Branch string `json:"branch,omitempty"`
	// Repository name
	Repo string `json:"repo,omitempty"`
}

// Upload describes a file pushed to Device Farm.
type Upload struct {
	// ARN assigned by Device Farm
	Arn string `json:"arn"`
	// Upload name as visible in the Device Farm console
	Name string `json:"name"`
	// Local path the upload was read from
	File string `json:"file"`
	// Size of the local file in bytes
	Size uint64 `json:"size,omitempty"`
}

// JobRecord describes one device job of a run.
type JobRecord struct {
	// Job name, which Device Farm derives from the device name
	Name string `json:"name"`
	// Files downloaded for this job
	Files []FileRecord `json:"files,omitempty"`
}

// FileKind identifies the kind of downloaded artifact file
type FileKind uint8

const (
	FileKindLogcat FileKind = iota
	FileKindBundle
)

// FileRecord represents an artifact file downloaded during a run
type FileRecord struct {
	Kind FileKind `json:"kind"`
	Size uint64   `json:"size"`
	File string   `json:"file"` // relative to run dir
}

// ReportRecord describes a JUnit report extracted from a result bundle.
type ReportRecord struct {
	// Device the report belongs to
	Device string `json:"device"`
	// Path of the relocated report file
	File string `json:"file"`
	// Whether the report showed no skipped tests
	Valid bool `json:"valid"`
}
