package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "dockerpack.lock"))
}

func TestLoadMissingRecord(t *testing.T) {
	s := newStore(t)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.HasCompletedJob("job_dockerpack") {
		t.Fatal("empty store reports a completed job")
	}
	if !s.LastBuild().IsZero() {
		t.Fatalf("LastBuild = %v, want zero", s.LastBuild())
	}
}

func TestRoundTrip(t *testing.T) {
	s := newStore(t)
	s.MarkJobCompleted("a_dockerpack")
	s.MarkStepCompleted("a_dockerpack", "h1")
	s.MarkStepCompleted("a_dockerpack", "h2")
	s.MarkBuildStepCompleted("img_dockerpack", "h3")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New(s.Path())
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(s.rec.SuccessJobs, loaded.rec.SuccessJobs); diff != "" {
		t.Errorf("jobs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.rec.SuccessSteps, loaded.rec.SuccessSteps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.rec.SuccessBuildSteps, loaded.rec.SuccessBuildSteps); diff != "" {
		t.Errorf("build steps mismatch (-want +got):\n%s", diff)
	}
	if !loaded.LastBuild().Equal(s.started) {
		t.Errorf("LastBuild = %v, want %v", loaded.LastBuild(), s.started)
	}
	if !loaded.HasCompletedStep("a_dockerpack", "h2") {
		t.Error("step h2 not reported completed after reload")
	}
	if !loaded.HasCompletedBuildStep("img_dockerpack", "h3") {
		t.Error("build step h3 not reported completed after reload")
	}
}

func TestRecordFormat(t *testing.T) {
	s := newStore(t)
	s.MarkJobCompleted("a_dockerpack")
	s.MarkStepCompleted("a_dockerpack", "h1")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	for _, key := range []string{"last_build_time", "success_jobs", "success_steps", "success_build_steps"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("record lacks key %q: %s", key, data)
		}
	}
	if ts, ok := raw["last_build_time"].(float64); !ok || ts <= 0 {
		t.Errorf("last_build_time = %v, want positive integer", raw["last_build_time"])
	}
}

func TestLoadAcceptsForeignRecord(t *testing.T) {
	s := newStore(t)
	doc := `{"last_build_time": 1700000000, "success_jobs": ["A_dockerpack"], "success_steps": {"A_dockerpack": ["ABC"]}}`
	if err := os.WriteFile(s.Path(), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !s.HasCompletedJob("a_dockerpack") {
		t.Error("job lookup is not case-insensitive")
	}
	if !s.HasCompletedStep("A_dockerpack", "abc") {
		t.Error("step lookup is not case-insensitive")
	}
	if s.HasCompletedBuildStep("img", "abc") {
		t.Error("missing success_build_steps reported a completed step")
	}
	if want := time.Unix(1700000000, 0); !s.LastBuild().Equal(want) {
		t.Errorf("LastBuild = %v, want %v", s.LastBuild(), want)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	err := s.Load()
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("Load error = %v, want ErrCorruptRecord", err)
	}
}

func TestMarksAreIdempotent(t *testing.T) {
	s := newStore(t)
	s.MarkJobCompleted("a")
	s.MarkJobCompleted("a")
	s.MarkJobCompleted("A")
	s.MarkStepCompleted("a", "h")
	s.MarkStepCompleted("a", "h")

	if diff := cmp.Diff([]string{"a"}, s.rec.SuccessJobs); diff != "" {
		t.Errorf("jobs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"h"}, s.rec.SuccessSteps["a"]); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestDisabledStore(t *testing.T) {
	s := newStore(t)
	s.MarkJobCompleted("a")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s.Enable(false)
	if s.Enabled() {
		t.Fatal("Enabled = true after Enable(false)")
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.HasCompletedJob("a") {
		t.Error("disabled store reports a completed job")
	}

	s.MarkJobCompleted("b")
	s.MarkStepCompleted("b", "h")
	s.MarkBuildStepCompleted("b", "h")
	if s.HasCompletedStep("b", "h") || s.HasCompletedBuildStep("b", "h") {
		t.Error("disabled store recorded a mark")
	}

	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("disabled store touched the record: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("record changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestDisabledStoreDoesNotCreateRecord(t *testing.T) {
	s := newStore(t)
	s.Enable(false)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Exists() {
		t.Fatal("disabled store created a record")
	}
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	s.MarkJobCompleted("a")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Exists() {
		t.Fatal("record still exists after Remove")
	}
	if err := s.Remove(); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.HasCompletedJob("a") {
		t.Error("job survived Remove and Load")
	}
}

func TestSaveLeavesNoTemporaryFiles(t *testing.T) {
	s := newStore(t)
	s.MarkJobCompleted("a")
	for range 3 {
		if err := s.Save(); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("directory holds %v, want only the record", names)
	}
}
