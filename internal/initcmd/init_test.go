package initcmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mxmul/microsite/internal/adapters/cli"
	"github.com/mxmul/microsite/internal/config"
)

func quietOutput() *cli.Output {
	out := cli.NewOutput()
	out.DisableColors()
	return out
}

func TestRunScaffoldsStarterSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mysite")

	if err := Run(dir, false, quietOutput()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, rel := range []string{
		"microsite.yaml",
		"package.json",
		"global.ts",
		"global.css",
		"pages/index.tsx",
		"pages/about.md",
		"public/robots.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	yaml, err := os.ReadFile(filepath.Join(dir, "microsite.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(yaml), "base_title: mysite") {
		t.Errorf("site name not substituted:\n%s", yaml)
	}
	if strings.Contains(string(yaml), "{{.Name}}") {
		t.Error("template placeholder left in output")
	}

	pkg, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pkg), `"preact"`) {
		t.Error("starter package.json must depend on preact")
	}
}

func TestRunRefusesNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(dir, false, quietOutput()); err == nil {
		t.Fatal("expected an error for a non-empty directory")
	}

	if err := Run(dir, true, quietOutput()); err != nil {
		t.Fatalf("Run with force failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "existing.txt")); err != nil {
		t.Error("force must not remove existing files")
	}
}

func TestDoctorMissingPagesDir(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skipf("node not found in PATH: %v", err)
	}

	cfg := &config.Config{Root: t.TempDir()}
	cfg.Normalize()

	if err := Doctor(cfg, quietOutput()); err == nil {
		t.Fatal("expected doctor to fail without a pages directory")
	}
}

func TestDoctorHealthySite(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skipf("node not found in PATH: %v", err)
	}

	cfg := &config.Config{Root: t.TempDir()}
	cfg.Normalize()
	if err := os.MkdirAll(cfg.PagesPath(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.GlobalPath(), []byte("console.log(1)\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Doctor(cfg, quietOutput()); err != nil {
		t.Fatalf("Doctor failed on a healthy site: %v", err)
	}
}
