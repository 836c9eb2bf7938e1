package batch

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

func intPtr(i int) *int { return &i }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	want := []Job{
		{Image: filepath.Join(dir, "a.jpg"), Mode: "colorize", Gender: "female", Age: intPtr(70), RedrawHair: true},
		{Image: filepath.Join(dir, "b.png"), Mode: "quick", Output: filepath.Join(dir, "out", "b.png")},
	}

	jsonl := filepath.Join(dir, "jobs.jsonl")
	writeFile(t, jsonl, `{"image":"a.jpg","mode":"colorize","gender":"female","age":70,"redraw_hair":true}

{"image":"b.png","mode":"quick","output":"out/b.png"}
`)

	yml := filepath.Join(dir, "jobs.yaml")
	writeFile(t, yml, `jobs:
  - image: a.jpg
    mode: colorize
    gender: female
    age: 70
    redraw_hair: true
  - image: b.png
    mode: quick
    output: out/b.png
`)

	pq := filepath.Join(dir, "jobs.parquet")
	rows := []Job{
		{Image: "a.jpg", Mode: "colorize", Gender: "female", Age: intPtr(70), RedrawHair: true},
		{Image: "b.png", Mode: "quick", Output: "out/b.png"},
	}
	if err := parquet.WriteFile(pq, rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}

	for _, path := range []string{jsonl, yml, pq} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			got, err := LoadManifest(path)
			if err != nil {
				t.Fatalf("LoadManifest: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("jobs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unsupported format", "jobs.csv", "image,mode", "unsupported manifest format"},
		{"missing image", "jobs.jsonl", `{"mode":"quick"}`, "image is required"},
		{"unknown mode", "jobs.jsonl", `{"image":"a.jpg","mode":"sharpen"}`, "unknown restoration option"},
		{"age out of range", "jobs.jsonl", `{"image":"a.jpg","mode":"quick","age":140}`, "out of range"},
		{"bad json", "jobs.jsonl", `{"image":`, "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadManifest error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestJobPreferences(t *testing.T) {
	job := Job{Gender: "Male", Ethnicity: "Middle Eastern", EnhanceBackground: true}
	got, err := job.Preferences()
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}

	want := models.DefaultPreferences()
	want.Gender = models.GenderMale
	want.Ethnicity = models.EthnicityMiddleEastern
	want.EnhanceBackground = true
	if got != want {
		t.Errorf("Preferences() = %+v, want %+v", got, want)
	}
}

func TestJobOutputPath(t *testing.T) {
	if got, want := (Job{Image: "/photos/grandma.jpg"}).OutputPath(), "/photos/restored-grandma.jpg.png"; got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
	if got, want := (Job{Image: "https://example.com/scans/z.jpg"}).OutputPath(), "restored-z.jpg.png"; got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
	if got := (Job{Image: "/photos/a.jpg", Output: "/tmp/x.png"}).OutputPath(); got != "/tmp/x.png" {
		t.Errorf("OutputPath() = %q", got)
	}
}

type fakeRestorer struct {
	mu      sync.Mutex
	options []models.RestorationOption
}

func (f *fakeRestorer) Restore(ctx context.Context, imageBase64, mimeType string, option models.RestorationOption, prefs models.Preferences) (string, error) {
	f.mu.Lock()
	f.options = append(f.options, option)
	f.mu.Unlock()

	if option == models.ScratchRemoval {
		return "", errors.New("model refused")
	}
	return base64.StdEncoding.EncodeToString([]byte("restored:" + string(option))), nil
}

func TestRunnerRun(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		writeFile(t, filepath.Join(dir, name), "\xff\xd8\xff fake")
	}

	jobs := []Job{
		{Image: filepath.Join(dir, "a.jpg"), Mode: "colorize"},
		{Image: filepath.Join(dir, "b.jpg"), Mode: "scratch-removal"},
		{Image: filepath.Join(dir, "missing.jpg"), Mode: "quick"},
		{Image: filepath.Join(dir, "c.jpg"), Mode: "quick", Output: filepath.Join(dir, "out", "c.png")},
	}

	fake := &fakeRestorer{}
	results := NewRunner(fake, 2).Run(context.Background(), jobs)

	wantStatus := []string{StatusRestored, StatusFailed, StatusFailed, StatusRestored}
	for i, res := range results {
		if res.Status != wantStatus[i] {
			t.Errorf("job %d: status %q, want %q (err %q)", i, res.Status, wantStatus[i], res.Error)
		}
		if res.Image != jobs[i].Image {
			t.Errorf("job %d: results out of order", i)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "restored-a.jpg.png"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "restored:colorize" {
		t.Errorf("output = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "c.png")); err != nil {
		t.Errorf("explicit output not written: %v", err)
	}
	if results[1].Error == "" || results[1].Output != "" {
		t.Errorf("failed job result = %+v", results[1])
	}
	if len(fake.options) != 3 {
		t.Errorf("restorer called %d times, want 3", len(fake.options))
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewRunner(&fakeRestorer{}, 1).Run(ctx, []Job{{Image: "a.jpg", Mode: "quick"}})
	if results[0].Status != StatusFailed {
		t.Errorf("status = %q, want failed", results[0].Status)
	}
}

func TestSaveReport(t *testing.T) {
	dir := t.TempDir()
	report := Report{
		Config: ReportConfig{Provider: "gemini", Model: "m", Manifest: "jobs.jsonl", Timestamp: "2025-01-01_00-00-00"},
		Results: []Result{
			{Image: "a.jpg", Mode: "quick", Output: "restored-a.jpg.png", Status: StatusRestored, DurationMS: 12},
			{Image: "b.jpg", Mode: "colorize", Status: StatusFailed, Error: "boom"},
		},
	}
	if report.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", report.Failed())
	}

	yamlPath := filepath.Join(dir, "reports", "report.yaml")
	if err := SaveReport(yamlPath, report); err != nil {
		t.Fatalf("SaveReport yaml: %v", err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	var gotYAML Report
	if err := yaml.Unmarshal(data, &gotYAML); err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if diff := cmp.Diff(report, gotYAML); diff != "" {
		t.Errorf("yaml report mismatch (-want +got):\n%s", diff)
	}

	pqPath := filepath.Join(dir, "report.parquet")
	if err := SaveReport(pqPath, report); err != nil {
		t.Fatalf("SaveReport parquet: %v", err)
	}
	rows, err := parquet.ReadFile[Result](pqPath)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if diff := cmp.Diff(report.Results, rows); diff != "" {
		t.Errorf("parquet rows mismatch (-want +got):\n%s", diff)
	}

	if err := SaveReport(filepath.Join(dir, "report.txt"), report); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestOutputPathsUnique(t *testing.T) {
	jobs := []Job{
		{Image: "https://a.example.com/scans/photo.jpg"},
		{Image: "https://b.example.com/other/photo.jpg"},
		{Image: "/photos/photo.jpg"},
		{Image: "https://c.example.com/photo.jpg", Output: "/out/mine.png"},
		{Image: "https://d.example.com/photo.jpg"},
	}
	want := []string{
		"restored-photo.jpg.png",
		"restored-photo.jpg-2.png",
		"/photos/restored-photo.jpg.png",
		"/out/mine.png",
		"restored-photo.jpg-5.png",
	}
	if diff := cmp.Diff(want, outputPaths(jobs)); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerDuplicateDefaultsDoNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "a.jpg")
	writeFile(t, image, "\xff\xd8\xff fake")

	jobs := []Job{
		{Image: image, Mode: "colorize"},
		{Image: image, Mode: "quick"},
	}
	results := NewRunner(&fakeRestorer{}, 2).Run(context.Background(), jobs)

	outputs := map[string]string{
		filepath.Join(dir, "restored-a.jpg.png"):   "restored:colorize",
		filepath.Join(dir, "restored-a.jpg-2.png"): "restored:quick",
	}
	for path, content := range outputs {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != content {
			t.Errorf("%s = %q, want %q", path, data, content)
		}
	}
	if results[0].Output == results[1].Output {
		t.Errorf("both jobs reported output %q", results[0].Output)
	}
}
