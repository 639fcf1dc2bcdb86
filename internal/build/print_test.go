package build

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/heroku/color"

	"github.com/cruciblehq/dockerpack/internal/pipeline"
	"github.com/cruciblehq/dockerpack/internal/state"
)

func TestPrintJobs(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)

	cfg := &pipeline.Config{
		Jobs: []pipeline.Job{
			{
				Name:  "api",
				Image: "golang:1.25",
				Env:   map[string]string{"TOKEN": "**REDACTED**", "CGO_ENABLED": "0"},
				Steps: []pipeline.Step{
					{Name: "checkout", Command: "git clone repo ."},
					{Command: "go test ./..."},
				},
			},
			{Name: "web", Image: "node:22", Steps: []pipeline.Step{{Command: "npm test"}}},
		},
	}

	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{
			name:   "filtered",
			filter: "api",
			want: "Job:\n" +
				"   name: api_dockerpack\n" +
				"  image: golang:1.25\n" +
				"    env:\n" +
				"         CGO_ENABLED=0\n" +
				"         TOKEN=**REDACTED**\n" +
				"  steps:\n" +
				"         checkout: git clone repo .\n" +
				"         go test ./...\n" +
				"\n",
		},
		{
			name:   "no env",
			filter: "node",
			want: "Job:\n" +
				"   name: web_dockerpack\n" +
				"  image: node:22\n" +
				"    env: <none>\n" +
				"  steps:\n" +
				"         npm test\n" +
				"\n",
		},
		{
			name:   "no match",
			filter: "rust",
			want:   "No jobs match filter \"rust\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			b := New(cfg, newFakeDriver(), newStore(t), Options{Filter: tt.filter, Output: &out})
			if err := b.PrintJobs(); err != nil {
				t.Fatalf("PrintJobs: %v", err)
			}
			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintJobsEmptyConfig(t *testing.T) {
	var out bytes.Buffer
	b := New(&pipeline.Config{}, newFakeDriver(), newStore(t), Options{Output: &out})
	if err := b.PrintJobs(); err != nil {
		t.Fatalf("PrintJobs: %v", err)
	}
	if got, want := out.String(), "No jobs in config\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCleanup(t *testing.T) {
	drv := newFakeDriver()
	drv.containers["api_dockerpack"] = "111"
	drv.containers["web_dockerpack"] = "222"
	drv.containers["worker_dockerpack"] = "333"

	store := newStore(t)
	seedRecord(t, store.Path(), func(s *state.Store) {
		s.MarkJobCompleted("api_dockerpack")
	})

	n, err := New(&pipeline.Config{}, drv, store, Options{Filter: "WEB"}).Cleanup(context.Background())
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
	assertCalls(t, drv, []string{"stop web_dockerpack", "rm web_dockerpack"})
	if store.Exists() {
		t.Error("record still exists after cleanup")
	}

	drv.calls = nil
	n, err = New(&pipeline.Config{}, drv, store, Options{}).Cleanup(context.Background())
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	assertCalls(t, drv, []string{
		"stop api_dockerpack",
		"rm api_dockerpack",
		"stop worker_dockerpack",
		"rm worker_dockerpack",
	})
}
