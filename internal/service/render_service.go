package service

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"

	"scad-studio-be/internal/dto"
	"scad-studio-be/internal/pkg/logger"
	"scad-studio-be/internal/pkg/serverutils"
	"scad-studio-be/pkg/renderer"
)

// IRenderService exposes the renderer to the gateway with the fixed quality
// presets: medium for PNG previews, fast or high for STL depending on intent.
type IRenderService interface {
	Validate(ctx context.Context, req *dto.ValidateRequest) (*dto.ValidateResponse, error)
	RenderPNG(ctx context.Context, req *dto.RenderPngRequest) ([]byte, error)
	RenderSTL(ctx context.Context, req *dto.RenderStlRequest) ([]byte, string, error)
	RenderViews(ctx context.Context, req *dto.RenderViewsRequest) (*dto.RenderViewsResponse, error)
	Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResponse, error)
	Status(ctx context.Context) *dto.OpenSCADStatusResponse
}

type renderService struct {
	renderer *renderer.Renderer
	logger   logger.ILogger
}

func NewRenderService(r *renderer.Renderer, sysLogger logger.ILogger) IRenderService {
	return &renderService{renderer: r, logger: sysLogger}
}

func (s *renderService) Validate(ctx context.Context, req *dto.ValidateRequest) (*dto.ValidateResponse, error) {
	result, err := s.renderer.Validate(ctx, req.ScadFile)
	if err != nil {
		return nil, mapRenderError(err)
	}
	return &dto.ValidateResponse{
		Success:  result.Valid,
		Warnings: result.Warnings,
		Errors:   result.Errors,
	}, nil
}

func (s *renderService) RenderPNG(ctx context.Context, req *dto.RenderPngRequest) ([]byte, error) {
	width, height := req.Width, req.Height
	if width == 0 {
		width = 1024
	}
	if height == 0 {
		height = 768
	}
	png, err := s.renderer.RenderPNG(ctx, req.ScadFile, width, height, renderer.PresetPNG())
	if err != nil {
		return nil, mapRenderError(err)
	}
	return png, nil
}

// RenderSTL returns the mesh bytes and the download filename.
func (s *renderService) RenderSTL(ctx context.Context, req *dto.RenderStlRequest) ([]byte, string, error) {
	overrides := renderer.PresetPreview3D()
	if req.Quality == "export" {
		overrides = renderer.PresetExport()
	}
	mesh, err := s.renderer.RenderSTL(ctx, req.ScadFile, overrides)
	if err != nil {
		return nil, "", mapRenderError(err)
	}
	base := filepath.Base(req.ScadFile)
	filename := strings.TrimSuffix(base, filepath.Ext(base)) + ".stl"
	return mesh, filename, nil
}

func (s *renderService) RenderViews(ctx context.Context, req *dto.RenderViewsRequest) (*dto.RenderViewsResponse, error) {
	views := req.Views
	if len(views) == 0 {
		views = []string{"isometric", "front", "top"}
	}
	for _, v := range views {
		if !renderer.IsValidView(v) {
			return nil, serverutils.InvalidInput("unknown view %q (valid: %s)",
				v, strings.Join(renderer.ViewNames(), ", "))
		}
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = 640
	}
	if height == 0 {
		height = 480
	}

	resp := &dto.RenderViewsResponse{
		Views:  make(map[string]string),
		Errors: make(map[string]string),
	}
	for _, view := range views {
		png, err := s.renderer.RenderPNGView(ctx, req.ScadFile, view, width, height, req.Colorscheme, renderer.PresetPNG())
		if err != nil {
			// A missing file or binary fails the whole request; a per-view
			// render error is reported alongside the views that worked.
			if errors.Is(err, renderer.ErrFileNotFound) || errors.Is(err, renderer.ErrBinaryNotFound) {
				return nil, mapRenderError(err)
			}
			resp.Errors[view] = err.Error()
			continue
		}
		resp.Views[view] = base64.StdEncoding.EncodeToString(png)
	}
	resp.Success = len(resp.Views) > 0
	return resp, nil
}

func (s *renderService) Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResponse, error) {
	outPath := req.OutputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(req.ScadFile, filepath.Ext(req.ScadFile)) + "." + strings.ToLower(req.Format)
	}
	if err := s.renderer.Export(ctx, req.ScadFile, outPath, req.Format, renderer.PresetExport()); err != nil {
		return nil, mapRenderError(err)
	}
	s.logger.Info("Render", "Exported design", map[string]interface{}{
		"scad_file": req.ScadFile,
		"format":    req.Format,
		"output":    outPath,
	})
	return &dto.ExportResponse{Success: true, OutputPath: outPath}, nil
}

func (s *renderService) Status(ctx context.Context) *dto.OpenSCADStatusResponse {
	binary, err := s.renderer.BinaryPath()
	if err != nil {
		return &dto.OpenSCADStatusResponse{Installed: false, Error: err.Error()}
	}
	version, err := s.renderer.Version(ctx)
	if err != nil {
		return &dto.OpenSCADStatusResponse{Installed: true, BinaryPath: binary, Error: err.Error()}
	}
	return &dto.OpenSCADStatusResponse{Installed: true, BinaryPath: binary, Version: version}
}
