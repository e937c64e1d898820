package dto

type ValidateRequest struct {
	ScadFile string `json:"scad_file" validate:"required"`
}

type ValidateResponse struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

type RenderPngRequest struct {
	ScadFile string `json:"scad_file" validate:"required"`
	Width    int    `json:"width,omitempty" validate:"omitempty,min=64,max=4096"`
	Height   int    `json:"height,omitempty" validate:"omitempty,min=64,max=4096"`
}

type RenderStlRequest struct {
	ScadFile string `json:"scad_file" validate:"required"`
	Quality  string `json:"quality,omitempty" validate:"omitempty,oneof=preview export"`
}

type RenderViewsRequest struct {
	ScadFile    string   `json:"scad_file" validate:"required"`
	Views       []string `json:"views,omitempty"`
	Width       int      `json:"width,omitempty" validate:"omitempty,min=64,max=4096"`
	Height      int      `json:"height,omitempty" validate:"omitempty,min=64,max=4096"`
	Colorscheme string   `json:"colorscheme,omitempty"`
}

type RenderViewsResponse struct {
	Success bool              `json:"success"`
	Views   map[string]string `json:"views"`            // view name -> base64 PNG
	Errors  map[string]string `json:"errors,omitempty"` // per-view failures
}

type ExportRequest struct {
	ScadFile   string `json:"scad_file" validate:"required"`
	Format     string `json:"format" validate:"required,oneof=stl 3mf dxf svg off amf csg"`
	OutputPath string `json:"output_path,omitempty"`
}

type ExportResponse struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path"`
}

type OpenSCADStatusResponse struct {
	Installed  bool   `json:"installed"`
	BinaryPath string `json:"binary_path,omitempty"`
	Version    string `json:"version,omitempty"`
	Error      string `json:"error,omitempty"`
}
