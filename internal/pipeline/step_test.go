package pipeline

import (
	"testing"
)

func TestStepHash(t *testing.T) {
	s := Step{Name: "build", Command: "make all"}

	if got, want := s.Hash(), "29e8cd2db88c50fb41e1d10ed993eedcd3d51e52e45f16edf95c601f88f2c038"; got != want {
		t.Fatalf("Hash = %q, want %q", got, want)
	}

	same := Step{Name: "build", Command: "make all", Workdir: "/src", SkipOnError: true, Env: map[string]string{"A": "1"}}
	if same.Hash() != s.Hash() {
		t.Fatal("hash depends on fields other than name and command")
	}

	if (Step{Name: "build2", Command: "make all"}).Hash() == s.Hash() {
		t.Fatal("changing the name did not change the hash")
	}
	if (Step{Name: "build", Command: "make test"}).Hash() == s.Hash() {
		t.Fatal("changing the command did not change the hash")
	}
}

func TestStepHashUnnamed(t *testing.T) {
	got := Step{Command: "echo hi"}.Hash()
	if want := "56a79f3b115448072387c2480044bfa2cf8f90e4f5fddd8c943b4e051b81f80b"; got != want {
		t.Fatalf("Hash = %q, want %q", got, want)
	}
}

func TestStepLabel(t *testing.T) {
	if got := (Step{Name: "n", Command: "c"}).Label(); got != "n" {
		t.Fatalf("Label = %q, want n", got)
	}
	if got := (Step{Command: "c"}).Label(); got != "c" {
		t.Fatalf("Label = %q, want c", got)
	}
}

func TestStepClone(t *testing.T) {
	s := Step{Command: "c", Env: map[string]string{"K": "v"}}
	c := s.Clone()
	c.Env["K"] = "changed"
	if s.Env["K"] != "v" {
		t.Fatalf("original env mutated to %q", s.Env["K"])
	}
}
