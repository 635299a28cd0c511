package core

import "fmt"

// FilesystemError records a failed filesystem operation with enough context
// to name the stage and path that failed.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func NewFilesystemError(op, path string, err error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// CompilationError carries the bundler diagnostics for a failed entry point.
// Messages holds one formatted diagnostic per line; the first is the
// headline.
type CompilationError struct {
	Entry    string
	Messages []string
	Err      error
}

func (e *CompilationError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("compile %s: %s", e.Entry, e.Messages[0])
	}
	return fmt.Sprintf("compile %s: %v", e.Entry, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// RenderError names the page whose server render failed.
type RenderError struct {
	Page string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
