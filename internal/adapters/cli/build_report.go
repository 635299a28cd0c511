package cli

import (
	"fmt"
	"os"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
}

type colors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
}

type BuildWarning struct {
	Page    string
	Message string
}

// BuildReport accumulates per-stage timings and warnings across one pipeline
// run and renders a summary when the run finishes.
type BuildReport struct {
	colors    colors
	steps     []BuildStep
	warnings  []BuildWarning
	startTime time.Time
	pageCount int
	outputDir string
}

func NewBuildReport(colors colors, outputDir string) *BuildReport {
	return &BuildReport{
		colors:    colors,
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetPageCount(count int) {
	r.pageCount = count
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	r.steps = append(r.steps, BuildStep{
		Name:      name,
		StartTime: time.Now(),
	})
	return &r.steps[len(r.steps)-1]
}

func (r *BuildReport) EndStep(step *BuildStep, success bool) {
	step.EndTime = time.Now()
	step.Success = success
}

func (r *BuildReport) AddWarning(page string, message string) {
	r.warnings = append(r.warnings, BuildWarning{Page: page, Message: message})
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)

	fmt.Printf("  "+r.colors.Green("✓ ")+"%d page(s)\n", r.pageCount)

	failed := false
	for _, step := range r.steps {
		if !step.Success {
			failed = true
			fmt.Fprintf(os.Stderr, "  "+r.colors.Red("✗ ")+"%s\n", step.Name)
		}
	}

	if len(r.warnings) > 0 {
		fmt.Printf("  "+r.colors.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		for _, w := range r.warnings {
			fmt.Printf("    %s: %s\n", w.Page, w.Message)
		}
	}

	if failed {
		fmt.Fprintf(os.Stderr, "  %s\n", r.colors.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Printf("  "+r.colors.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Printf("\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}
