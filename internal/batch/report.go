package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

const (
	StatusRestored = "restored"
	StatusFailed   = "failed"
)

// Result is the outcome of one job
type Result struct {
	Image      string `yaml:"image" parquet:"image"`
	Mode       string `yaml:"mode" parquet:"mode"`
	Output     string `yaml:"output,omitempty" parquet:"output,optional"`
	Status     string `yaml:"status" parquet:"status"`
	Error      string `yaml:"error,omitempty" parquet:"error,optional"`
	DurationMS int64  `yaml:"durationms" parquet:"duration_ms"`
}

type ReportConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Manifest  string `yaml:"manifest"`
	Timestamp string `yaml:"timestamp"`
}

type Report struct {
	Config  ReportConfig `yaml:"config"`
	Results []Result     `yaml:"results"`
}

// Failed counts the jobs that did not produce an image
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

// SaveReport writes the report as YAML, or as a Parquet table of results
func SaveReport(path string, report Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write YAML file: %w", err)
		}
	case ".parquet":
		if err := parquet.WriteFile(path, report.Results); err != nil {
			return fmt.Errorf("failed to write parquet file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format: %s (supported: .yaml, .parquet)", ext)
	}
	return nil
}
