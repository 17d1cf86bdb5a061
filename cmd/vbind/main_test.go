package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
)

const testTemplate = `<div id="app"><input v-model="name"><button @click="inc(count)">+</button><p>{{ name }} {{ count }}</p><span>{{ greeting }}</span></div>`

const testConfig = `template: index.html
data: data.yaml
el: "#app"
computed:
  greeting: "Hello {{ name }}"
render:
  stripDirectives: true
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return filepath.Join(dir, "vbind.yaml")
}

func defaultProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"vbind.yaml": testConfig,
		"index.html": testTemplate,
		"data.yaml":  "name: Ada\ncount: 1\n",
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	cfg := defaultProject(t)

	out, err := execute(t, "render", "--config", cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<input value="Ada">`,
		`<p>Ada 1</p>`,
		`<span>Hello Ada</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "v-model") || strings.Contains(out, "@click") {
		t.Errorf("directives not stripped:\n%s", out)
	}
}

func TestRenderSetAndFire(t *testing.T) {
	cfg := defaultProject(t)

	out, err := execute(t, "render", "--config", cfg,
		"--set", "count=5",
		"--fire", "h1:input=Grace",
		"--fire", "h2:click",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<p>Grace 6</p>`,
		`<span>Hello Grace</span>`,
		`<input value="Grace">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHIDs(t *testing.T) {
	cfg := defaultProject(t)

	out, err := execute(t, "render", "--config", cfg, "--hids")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `data-hid="h2" data-on-click="true"`) {
		t.Errorf("output missing hydration attributes:\n%s", out)
	}
}

func TestRenderToFile(t *testing.T) {
	cfg := defaultProject(t)
	target := filepath.Join(filepath.Dir(cfg), "out.html")

	out, err := execute(t, "render", "--config", cfg, "--out", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(raw), `<p>Ada 1</p>`) {
		t.Errorf("file content = %q", raw)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad assignment", []string{"--set", "=1"}, "invalid assignment"},
		{"bad fire", []string{"--fire", "h1"}, "invalid event"},
		{"unknown hid", []string{"--fire", "h9:click"}, `no interactive element "h9"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultProject(t)
			_, err := execute(t, append([]string{"render", "--config", cfg}, tt.args...)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRenderUnknownProperty(t *testing.T) {
	cfg := writeProject(t, map[string]string{
		"vbind.yaml": testConfig,
		"index.html": `<div id="app"><p>{{ missing }}</p></div>`,
		"data.yaml":  "name: Ada\n",
	})

	_, err := execute(t, "render", "--config", cfg)
	var ve *errors.Error
	if !stderrors.As(err, &ve) {
		t.Fatalf("error = %v, want coded error", err)
	}
	if ve.Code != "E001" {
		t.Errorf("Code = %q, want %q", ve.Code, "E001")
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "check", "--config", filepath.Join(t.TempDir(), "vbind.yaml"))
	var ve *errors.Error
	if !stderrors.As(err, &ve) || ve.Code != "E030" {
		t.Errorf("error = %v, want E030", err)
	}
}

func TestLogLevelOverride(t *testing.T) {
	cfg := defaultProject(t)
	_, err := execute(t, "check", "--config", cfg, "--log-level", "loud")
	var ve *errors.Error
	if !stderrors.As(err, &ve) || ve.Code != "E020" {
		t.Errorf("error = %v, want E020", err)
	}
}

func TestCheck(t *testing.T) {
	cfg := defaultProject(t)

	out, err := execute(t, "check", "--config", cfg)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{
		"v-model (two-way)",
		"@click",
		"inc(count)",
		"h2",
		"bindings=4 handlers=1 interactive=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckQuiet(t *testing.T) {
	cfg := defaultProject(t)

	out, err := execute(t, "check", "--config", cfg, "-q")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.Contains(out, "KIND") {
		t.Errorf("quiet output has table:\n%s", out)
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in    string
		path  string
		value any
	}{
		{"count=5", "count", 5},
		{"done=true", "done", true},
		{"name=Ada Lovelace", "name", "Ada Lovelace"},
		{"user.name=", "user.name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			path, value, err := parseAssignment(tt.in)
			if err != nil {
				t.Fatalf("parseAssignment(%q): %v", tt.in, err)
			}
			if path != tt.path {
				t.Errorf("path = %q, want %q", path, tt.path)
			}
			if value != tt.value {
				t.Errorf("value = %#v, want %#v", value, tt.value)
			}
		})
	}
}

func TestParseFire(t *testing.T) {
	f, err := parseFire("h3:input=a=b")
	if err != nil {
		t.Fatalf("parseFire: %v", err)
	}
	if f.hid != "h3" || f.event != "input" || f.value != "a=b" {
		t.Errorf("parseFire = %+v", f)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}
