package pipeline

import (
	"testing"
)

func TestJobContainerName(t *testing.T) {
	j := Job{Name: "ubuntu_22_04"}
	if got := j.ContainerName(); got != "ubuntu_22_04_dockerpack" {
		t.Fatalf("ContainerName = %q", got)
	}
}

func TestImageBuildNames(t *testing.T) {
	b := ImageBuild{Job: Job{Name: "toolchain"}, Repo: "acme", Tag: "1.2"}
	if got := b.FullName(); got != "acme/toolchain" {
		t.Fatalf("FullName = %q", got)
	}
	if got := b.Reference(); got != "acme/toolchain:1.2" {
		t.Fatalf("Reference = %q", got)
	}
	if got := b.ContainerName(); got != "toolchain_dockerpack" {
		t.Fatalf("ContainerName = %q", got)
	}

	b.Repo = ""
	if got := b.FullName(); got != "toolchain" {
		t.Fatalf("FullName without repo = %q", got)
	}
}

func TestUnitInterface(t *testing.T) {
	units := []Unit{
		Job{Name: "a", Image: "alpine"},
		ImageBuild{Job: Job{Name: "b", Image: "debian"}},
	}
	for _, u := range units {
		if u.ContainerName() == "" || u.BaseImage() == "" {
			t.Fatalf("unit %#v has empty name or image", u)
		}
	}
}

func TestWithEnv(t *testing.T) {
	j := Job{
		Name:  "a",
		Env:   map[string]string{"A": "1", "B": "2"},
		Steps: []Step{{Command: "c", Env: map[string]string{"S": "1"}}},
	}

	got := j.WithEnv(map[string]string{"B": "override", "C": "3"})

	if got.Env["A"] != "1" || got.Env["B"] != "override" || got.Env["C"] != "3" {
		t.Fatalf("env = %v", got.Env)
	}
	if j.Env["B"] != "2" {
		t.Fatalf("original env mutated: %v", j.Env)
	}
	if _, ok := j.Env["C"]; ok {
		t.Fatal("original env gained C")
	}

	got.Steps[0].Env["S"] = "changed"
	if j.Steps[0].Env["S"] != "1" {
		t.Fatal("steps shared between copies")
	}
}

func TestImageBuildWithEnv(t *testing.T) {
	b := ImageBuild{Job: Job{Name: "a"}, Repo: "r", Tag: "t"}
	got := b.WithEnv(map[string]string{"X": "1"})
	if got.Env["X"] != "1" || got.Repo != "r" || got.Tag != "t" {
		t.Fatalf("WithEnv = %#v", got)
	}
	if b.Env != nil {
		t.Fatalf("original env mutated: %v", b.Env)
	}
}
