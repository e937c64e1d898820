package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Errors returned by the renderer. Callers distinguish a missing input from a
// failed render so the first can be reported without retry hints.
var (
	ErrFileNotFound   = errors.New("scad file not found")
	ErrBinaryNotFound = errors.New("openscad binary not found")
	ErrTimeout        = errors.New("render timed out")
)

// RenderError wraps a non-zero OpenSCAD exit with its diagnostics.
type RenderError struct {
	Stderr string
}

func (e *RenderError) Error() string {
	if e.Stderr == "" {
		return "openscad exited with an error"
	}
	return "openscad render failed: " + e.Stderr
}

// Overrides carries -D variable overrides (e.g. {"$fn": 60, "num_steps": 50}).
type Overrides map[string]interface{}

// ValidationResult reports the outcome of a syntax check.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Renderer invokes the OpenSCAD CLI. The geometry kernel is fully external;
// this type only builds argument lists and runs the binary.
type Renderer struct {
	binaryPath string
	timeout    time.Duration
}

func New(binaryPath string, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Renderer{
		binaryPath: binaryPath,
		timeout:    timeout,
	}
}

// resolveBinary returns the configured binary path or looks it up on PATH.
func (r *Renderer) resolveBinary() (string, error) {
	if r.binaryPath != "" {
		if _, err := os.Stat(r.binaryPath); err == nil {
			return r.binaryPath, nil
		}
	}
	if found, err := exec.LookPath("openscad"); err == nil {
		return found, nil
	}
	return "", ErrBinaryNotFound
}

func (r *Renderer) run(ctx context.Context, args []string, timeout time.Duration) (string, string, error) {
	binary, err := r.resolveBinary()
	if err != nil {
		return "", "", err
	}

	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), stderr.String(), fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err != nil {
		return stdout.String(), stderr.String(), &RenderError{Stderr: strings.TrimSpace(stderr.String())}
	}
	return stdout.String(), stderr.String(), nil
}

// Version returns the installed OpenSCAD version string.
func (r *Renderer) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := r.run(ctx, []string{"--version"}, 10*time.Second)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout + stderr), nil
}

// BinaryPath reports the resolved binary location, or an error when absent.
func (r *Renderer) BinaryPath() (string, error) {
	return r.resolveBinary()
}

// buildOverrideArgs converts overrides into -D flags with deterministic ordering.
func buildOverrideArgs(overrides Overrides) []string {
	if len(overrides) == 0 {
		return nil
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(overrides))
	for _, k := range keys {
		args = append(args, "-D", fmt.Sprintf("%s=%v", k, overrides[k]))
	}
	return args
}

// RenderPNG renders a .scad file to a PNG preview and returns the image bytes.
func (r *Renderer) RenderPNG(ctx context.Context, scadPath string, width, height int, overrides Overrides) ([]byte, error) {
	if _, err := os.Stat(scadPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, scadPath)
	}

	tmp, err := os.CreateTemp("", "openscad_preview_*.png")
	if err != nil {
		return nil, err
	}
	outPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outPath)

	args := append(buildOverrideArgs(overrides),
		"--autocenter",
		"--viewall",
		fmt.Sprintf("--imgsize=%d,%d", width, height),
		"-o", outPath,
		scadPath,
	)
	if _, _, err := r.run(ctx, args, 0); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil || len(data) == 0 {
		return nil, &RenderError{Stderr: "render produced no image output"}
	}
	return data, nil
}

// RenderPNGView renders a single named camera view (see views.go) to PNG bytes.
func (r *Renderer) RenderPNGView(ctx context.Context, scadPath, view string, width, height int, colorscheme string, overrides Overrides) ([]byte, error) {
	if _, err := os.Stat(scadPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, scadPath)
	}
	camArgs, err := cameraArgs(view)
	if err != nil {
		return nil, err
	}
	if colorscheme == "" {
		colorscheme = "Cornfield"
	}

	tmp, err := os.CreateTemp("", "openscad_view_*.png")
	if err != nil {
		return nil, err
	}
	outPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outPath)

	args := append(buildOverrideArgs(overrides), "--render")
	args = append(args, camArgs...)
	args = append(args,
		fmt.Sprintf("--imgsize=%d,%d", width, height),
		"--colorscheme", colorscheme,
		"-o", outPath,
		scadPath,
	)
	if _, _, err := r.run(ctx, args, 0); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil || len(data) == 0 {
		return nil, &RenderError{Stderr: "render produced no image output"}
	}
	return data, nil
}

// ExportFormats lists the mesh/vector formats OpenSCAD can export to.
var ExportFormats = map[string]bool{
	"stl": true, "3mf": true, "dxf": true, "svg": true,
	"off": true, "amf": true, "csg": true,
}

// Export renders a .scad file into the given format at outPath.
func (r *Renderer) Export(ctx context.Context, scadPath, outPath, format string, overrides Overrides) error {
	format = strings.ToLower(format)
	if !ExportFormats[format] {
		return fmt.Errorf("unsupported export format %q", format)
	}
	if _, err := os.Stat(scadPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, scadPath)
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(scadPath, filepath.Ext(scadPath)) + "." + format
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	args := append(buildOverrideArgs(overrides), "-o", outPath, scadPath)
	if _, _, err := r.run(ctx, args, 0); err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err != nil {
		return &RenderError{Stderr: "export produced no output file"}
	}
	return nil
}

// RenderSTL exports to STL and returns the mesh bytes.
func (r *Renderer) RenderSTL(ctx context.Context, scadPath string, overrides Overrides) ([]byte, error) {
	tmp, err := os.CreateTemp("", "openscad_mesh_*.stl")
	if err != nil {
		return nil, err
	}
	outPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outPath)

	if err := r.Export(ctx, scadPath, outPath, "stl", overrides); err != nil {
		return nil, err
	}
	return os.ReadFile(outPath)
}

// Validate performs a fast dry export to surface syntax errors without a full
// quality render. Diagnostics are split into warnings and errors.
func (r *Renderer) Validate(ctx context.Context, scadPath string) (*ValidationResult, error) {
	if _, err := os.Stat(scadPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, scadPath)
	}

	tmp, err := os.CreateTemp("", "openscad_validate_*.stl")
	if err != nil {
		return nil, err
	}
	outPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outPath)

	_, stderr, runErr := r.run(ctx, []string{"-o", outPath, scadPath}, 30*time.Second)
	if runErr != nil {
		var renderErr *RenderError
		if !errors.As(runErr, &renderErr) {
			return nil, runErr
		}
	}

	result := &ValidationResult{Warnings: []string{}, Errors: []string{}}
	for _, line := range strings.Split(stderr, "\n") {
		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "ERROR"):
			result.Errors = append(result.Errors, strings.TrimSpace(line))
		case strings.Contains(upper, "WARNING"):
			result.Warnings = append(result.Warnings, strings.TrimSpace(line))
		}
	}
	result.Valid = runErr == nil && len(result.Errors) == 0
	return result, nil
}
