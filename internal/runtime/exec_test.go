package runtime

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/heroku/color"

	"github.com/cruciblehq/dockerpack/internal/environ"
)

func TestMergeEnv(t *testing.T) {
	tests := []struct {
		name      string
		base      []string
		overrides []string
		want      []string
	}{
		{
			name:      "override existing key",
			base:      []string{"A=1", "B=2"},
			overrides: []string{"A=override"},
			want:      []string{"A=override", "B=2"},
		},
		{
			name:      "add new key",
			base:      []string{"A=1"},
			overrides: []string{"B=2"},
			want:      []string{"A=1", "B=2"},
		},
		{
			name:      "empty base",
			base:      nil,
			overrides: []string{"A=1"},
			want:      []string{"A=1"},
		},
		{
			name:      "empty overrides",
			base:      []string{"A=1"},
			overrides: nil,
			want:      []string{"A=1"},
		},
		{
			name:      "both empty",
			base:      nil,
			overrides: nil,
			want:      []string{},
		},
		{
			name:      "value with equals sign",
			base:      []string{"CMD=foo=bar"},
			overrides: nil,
			want:      []string{"CMD=foo=bar"},
		},
		{
			name:      "malformed entries skipped",
			base:      []string{"NOEQUALS", "A=1"},
			overrides: []string{"ALSO_BAD", "B=2"},
			want:      []string{"A=1", "B=2"},
		},
		{
			name:      "sorted by key",
			base:      []string{"Z=1", "M=2"},
			overrides: []string{"A=3"},
			want:      []string{"A=3", "M=2", "Z=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeEnv(tt.base, tt.overrides)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mergeEnv mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveWorkdir(t *testing.T) {
	env := environ.Map{"HOME": "/root", "SRC": "/src"}

	tests := []struct {
		name               string
		step, unit, global string
		want               string
	}{
		{"step wins", "/step", "/unit", "/global", "/step"},
		{"unit over global", "", "/unit", "/global", "/unit"},
		{"global fallback", "", "", "/global", "/global"},
		{"none", "", "", "", ""},
		{"home expanded", "", "", "~/project", "/root/project"},
		{"variable expanded", "$SRC/app", "", "", "/src/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveWorkdir(tt.step, tt.unit, tt.global, env); got != tt.want {
				t.Errorf("resolveWorkdir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCopySpec(t *testing.T) {
	const name = "app_dockerpack"

	tests := []struct {
		name string
		spec string
		want copySpec
	}{
		{
			name: "local to placeholder",
			spec: "./src $image:/opt/src",
			want: copySpec{local: "./src", remote: "/opt/src"},
		},
		{
			name: "unprefixed destination",
			spec: "./src /opt/src",
			want: copySpec{local: "./src", remote: "/opt/src"},
		},
		{
			name: "destination omitted",
			spec: "~/.netrc",
			want: copySpec{local: "~/.netrc", remote: "~/.netrc"},
		},
		{
			name: "destination omitted on container source",
			spec: "$image:~/out",
			want: copySpec{local: "~/out", remote: "~/out", outbound: true},
		},
		{
			name: "copy-local form",
			spec: "/work/. ~/project",
			want: copySpec{local: "/work/.", remote: "~/project"},
		},
		{
			name: "container to host",
			spec: "$image:/opt/out ./out",
			want: copySpec{local: "./out", remote: "/opt/out", outbound: true},
		},
		{
			name: "extra whitespace",
			spec: "  a    b  ",
			want: copySpec{local: "a", remote: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCopySpec(tt.spec, name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(copySpec{})); diff != "" {
				t.Errorf("parseCopySpec mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCopySpecInvalid(t *testing.T) {
	for _, spec := range []string{"", "a b c"} {
		if _, err := parseCopySpec(spec, "x_dockerpack"); err == nil {
			t.Errorf("parseCopySpec(%q) succeeded, want error", spec)
		}
	}
}

func TestParseContainers(t *testing.T) {
	out := "abc|app_dockerpack\n\ndef|unrelated\n123|img_dockerpack\n"
	got, err := parseContainers(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"app_dockerpack": "abc", "img_dockerpack": "123"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseContainers mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseContainers("garbage\n"); !errors.Is(err, ErrUnexpectedOutput) {
		t.Errorf("malformed line: err = %v, want ErrUnexpectedOutput", err)
	}
}

func TestParseImages(t *testing.T) {
	out := "myrepo/img:1.0\n<none>:<none>\nalpine:3.20\nbroken:<none>\nNOT VALID:x\n"

	var got []string
	for _, img := range parseImages(out) {
		got = append(got, img.String())
	}

	want := []string{"docker.io/myrepo/img:1.0", "docker.io/library/alpine:3.20"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseImages mismatch (-want +got):\n%s", diff)
	}
}

func TestPrefixWriter(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)

	var out bytes.Buffer
	w := newPrefixWriter(&out, "app")

	w.Write([]byte("one\ntw"))
	w.Write([]byte("o\r\nthr"))
	if got, want := out.String(), "[app] one\n[app] two\n"; got != want {
		t.Fatalf("before close = %q, want %q", got, want)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, want := out.String(), "[app] one\n[app] two\n[app] thr"; got != want {
		t.Fatalf("after close = %q, want %q", got, want)
	}
}

func TestArgvSudo(t *testing.T) {
	rt := New(NewExecutor(), Options{})
	if diff := cmp.Diff([]string{"docker", "ps"}, rt.argv([]string{"ps"})); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}

	rt = New(NewExecutor(), Options{Sudo: true, Binary: "podman"})
	if diff := cmp.Diff([]string{"sudo", "podman", "ps"}, rt.argv([]string{"ps"})); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}
