package initcmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mxmul/microsite/internal/adapters/cli"
	"github.com/mxmul/microsite/internal/config"
	"github.com/mxmul/microsite/internal/scaffold"
)

// Run scaffolds a starter site into projectDir. The directory must be empty
// unless force is set; existing files are never overwritten silently.
func Run(projectDir string, force bool, out *cli.Output) error {
	out.PrintHeader("microsite init")

	if _, err := os.Stat(projectDir); err == nil && !force {
		entries, err := os.ReadDir(projectDir)
		if err != nil {
			return fmt.Errorf("read directory: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("directory %q is not empty (use --force to scaffold anyway)", projectDir)
		}
	}

	starter, err := scaffold.Starter()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	data := scaffold.TemplateData{Name: scaffold.DeriveSiteName(projectDir)}
	created := 0

	err = fs.WalkDir(starter, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == "." {
				return nil
			}
			return os.MkdirAll(filepath.Join(projectDir, path), 0755)
		}

		content, err := fs.ReadFile(starter, path)
		if err != nil {
			return fmt.Errorf("read starter file %s: %w", path, err)
		}

		targetRel, isTemplate := scaffold.ProcessFilename(path)
		targetPath := filepath.Join(projectDir, filepath.FromSlash(targetRel))

		if _, err := os.Stat(targetPath); err == nil && !force {
			out.PrintWarning("Skipping %s: already exists", targetRel)
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(targetPath, scaffold.ProcessContent(content, isTemplate, data), 0644); err != nil {
			return fmt.Errorf("write %s: %w", targetPath, err)
		}

		out.PrintFile(targetRel)
		created++
		return nil
	})
	if err != nil {
		return err
	}

	out.PrintSuccess("Created %d files", created)
	fmt.Println()
	out.PrintStep(cli.EmojiInfo, "Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", projectDir)
	fmt.Printf("  npm install\n")
	fmt.Printf("  microsite build\n")
	fmt.Println()
	return nil
}

// Doctor checks that a site directory has everything a build needs.
func Doctor(cfg *config.Config, out *cli.Output) error {
	out.PrintHeader("microsite doctor")
	failed := false

	if path, err := exec.LookPath("node"); err != nil {
		out.PrintError("node not found on PATH (required to render component pages)")
		failed = true
	} else {
		out.PrintSuccess("node: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		out.PrintError("config: %v", err)
		failed = true
	} else {
		out.PrintSuccess("config: ok")
	}

	if st, err := os.Stat(cfg.PagesPath()); err != nil || !st.IsDir() {
		out.PrintError("pages directory missing: %s", cfg.PagesPath())
		failed = true
	} else {
		out.PrintSuccess("pages directory: %s", cfg.PagesPath())
	}

	if _, err := os.Stat(cfg.GlobalPath()); err != nil {
		out.PrintWarning("no global entry at %s; pages will ship without a root script", cfg.GlobalPath())
	} else {
		out.PrintSuccess("global entry: %s", cfg.GlobalPath())
	}

	if shell := cfg.ShellPath(); shell != "" {
		if _, err := os.Stat(shell); err != nil {
			out.PrintError("configured shell missing: %s", shell)
			failed = true
		} else {
			out.PrintSuccess("shell: %s", shell)
		}
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	out.PrintDone("All checks passed")
	return nil
}
