package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cruciblehq/dockerpack/internal/build"
	"github.com/cruciblehq/dockerpack/internal/state"
)

func seededSession(t *testing.T) *session {
	t.Helper()
	store := state.New(filepath.Join(t.TempDir(), "dockerpack.lock"))
	store.MarkJobCompleted("app_dockerpack")
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return &session{store: store}
}

func TestFinishInterrupted(t *testing.T) {
	s := seededSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runErr := errors.New("step 1 (make): exit code 130")
	err := s.finish(ctx, &build.Report{}, runErr)

	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want it to carry context.Canceled", err)
	}
	if s.store.Exists() {
		t.Error("state record still exists after interrupt")
	}
}

func TestFinishPassesErrorThrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure", errors.New("build failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededSession(t)

			err := s.finish(context.Background(), &build.Report{}, tt.err)
			if err != tt.err {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if !s.store.Exists() {
				t.Error("state record removed without an interrupt")
			}
		})
	}
}
