package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/restorer/internal/images"
	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/lehigh-university-libraries/restorer/internal/session"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Job is one manifest row: an input image, the restoration mode and the
// preference hints to restore it with
type Job struct {
	Image             string `json:"image" yaml:"image" parquet:"image"`
	Mode              string `json:"mode" yaml:"mode" parquet:"mode"`
	Gender            string `json:"gender,omitempty" yaml:"gender,omitempty" parquet:"gender,optional"`
	Age               *int   `json:"age,omitempty" yaml:"age,omitempty" parquet:"age,optional"`
	Ethnicity         string `json:"ethnicity,omitempty" yaml:"ethnicity,omitempty" parquet:"ethnicity,optional"`
	RedrawHair        bool   `json:"redraw_hair,omitempty" yaml:"redraw_hair,omitempty" parquet:"redraw_hair"`
	RestoreClothing   bool   `json:"restore_clothing,omitempty" yaml:"restore_clothing,omitempty" parquet:"restore_clothing"`
	RemoveWatermark   bool   `json:"remove_watermark,omitempty" yaml:"remove_watermark,omitempty" parquet:"remove_watermark"`
	EnhanceBackground bool   `json:"enhance_background,omitempty" yaml:"enhance_background,omitempty" parquet:"enhance_background"`
	Output            string `json:"output,omitempty" yaml:"output,omitempty" parquet:"output,optional"`
}

// Option parses the job's restoration mode
func (j Job) Option() (models.RestorationOption, error) {
	return models.ParseRestorationOption(j.Mode)
}

// Preferences converts the job's hints, falling back to the defaults for
// anything left unset
func (j Job) Preferences() (models.Preferences, error) {
	prefs := models.DefaultPreferences()

	gender, err := models.ParseGender(j.Gender)
	if err != nil {
		return prefs, err
	}
	ethnicity, err := models.ParseEthnicity(j.Ethnicity)
	if err != nil {
		return prefs, err
	}

	prefs.Gender = gender
	prefs.Ethnicity = ethnicity
	if j.Age != nil {
		prefs.Age = *j.Age
	}
	prefs.RedrawHair = j.RedrawHair
	prefs.RestoreClothing = j.RestoreClothing
	prefs.RemoveWatermark = j.RemoveWatermark
	prefs.EnhanceBackground = j.EnhanceBackground

	return prefs, prefs.Validate()
}

// OutputPath is where the restored image is written. Without an explicit
// output it sits next to the input image, or in the working directory for
// remote images.
func (j Job) OutputPath() string {
	if j.Output != "" {
		return j.Output
	}
	if images.IsURL(j.Image) {
		if u, err := url.Parse(j.Image); err == nil {
			return session.DownloadName(path.Base(u.Path))
		}
		return session.DownloadName("")
	}
	return filepath.Join(filepath.Dir(j.Image), session.DownloadName(filepath.Base(j.Image)))
}

func (j Job) validate() error {
	if j.Image == "" {
		return errors.New("image is required")
	}
	if _, err := j.Option(); err != nil {
		return err
	}
	_, err := j.Preferences()
	return err
}

// LoadManifest reads jobs from a JSONL, YAML or Parquet file. Relative image
// and output paths are resolved against the manifest's directory.
func LoadManifest(path string) ([]Job, error) {
	var (
		jobs []Job
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl", ".json":
		jobs, err = loadJSONL(path)
	case ".yaml", ".yml":
		jobs, err = loadYAML(path)
	case ".parquet":
		jobs, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .jsonl, .yaml, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i := range jobs {
		if err := jobs[i].validate(); err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		jobs[i].Image = resolve(base, jobs[i].Image)
		if jobs[i].Output != "" {
			jobs[i].Output = resolve(base, jobs[i].Output)
		}
	}

	slog.Debug("Loaded manifest", "path", path, "jobs", len(jobs))
	return jobs, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) || images.IsURL(p) {
		return p
	}
	return filepath.Join(base, p)
}

func loadJSONL(path string) ([]Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	var jobs []Job
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(line), &job); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		jobs = append(jobs, job)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	return jobs, nil
}

func loadYAML(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest struct {
		Jobs []Job `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
	}
	return manifest.Jobs, nil
}

func loadParquet(path string) ([]Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Job](pf)
	defer reader.Close()

	var jobs []Job
	rows := make([]Job, 64)
	for {
		n, err := reader.Read(rows)
		jobs = append(jobs, rows[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return jobs, nil
}
