package process

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mxmul/microsite/internal/core"
)

//go:embed renderer.mjs
var rendererSource string

// Renderer owns the sidecar node process that imports staged page modules
// and calls their exported renderPage function. The process serves HTTP over
// a unix socket and dies with the build.
type Renderer struct {
	cmd    *exec.Cmd
	socket string
	client *http.Client
}

// NewRenderer starts the sidecar with the embedded renderer script on stdin.
// dir is the working directory for module resolution of the staged bundles.
func NewRenderer(dir string) (*Renderer, error) {
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("microsite-%d.sock", os.Getpid()))
	_ = os.Remove(socket)

	cmd := exec.Command("node", "--input-type=module", "-")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "MICROSITE_SOCKET="+socket)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = strings.NewReader(rendererSource)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return net.Dial("unix", socket)
		},
	}

	r := &Renderer{
		cmd:    cmd,
		socket: socket,
		client: &http.Client{Transport: transport},
	}

	if err := r.waitForReady(5 * time.Second); err != nil {
		_ = r.Stop()
		return nil, err
	}
	return r, nil
}

// waitForReady polls the health endpoint until the sidecar accepts requests.
// The socket file appearing only means the listener was created, not that it
// is accepting yet.
func (r *Renderer) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(r.socket); err == nil {
			resp, err := r.client.Get("http://localhost/health")
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return nil
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for renderer at %s", r.socket)
}

func (r *Renderer) Stop() error {
	err := r.cmd.Process.Kill()
	// Reap the process; watch mode starts a fresh sidecar per rebuild.
	_ = r.cmd.Wait()
	_ = os.Remove(r.socket)
	return err
}

type renderResponse struct {
	HTML  string `json:"html"`
	Error *struct {
		Message string `json:"message"`
		Stack   string `json:"stack"`
	} `json:"error"`
}

// Render imports modulePath in the sidecar and calls its renderPage export.
func (r *Renderer) Render(modulePath string, opts core.RenderOptions) (string, error) {
	absPath, err := filepath.Abs(modulePath)
	if err != nil {
		return "", err
	}

	reqBody := map[string]any{
		"path":      absPath,
		"styles":    opts.Styles,
		"hasScript": opts.HasScript,
		"pretty":    opts.Pretty,
	}

	var result renderResponse
	if err := r.postJSON("/render", reqBody, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		var sb strings.Builder
		sb.WriteString(result.Error.Message)
		if result.Error.Stack != "" {
			sb.WriteString(fmt.Sprintf("\n\nStack:\n%s", result.Error.Stack))
		}
		return "", fmt.Errorf("%s", sb.String())
	}

	return result.HTML, nil
}

func (r *Renderer) postJSON(path string, body any, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", "http://localhost"+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("renderer request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode renderer response: %w", err)
	}
	return nil
}
