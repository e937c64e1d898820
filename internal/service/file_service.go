package service

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scad-studio-be/internal/dto"
)

// IFileService lists the designs in the data directory for the file browser
// and reports modification times for change-detection polling.
type IFileService interface {
	ListFiles() (*dto.ListFilesResponse, error)
	FilesStatus() (*dto.FilesStatusResponse, error)
}

type fileService struct {
	dataDir string
}

func NewFileService(dataDir string) IFileService {
	return &fileService{dataDir: dataDir}
}

func (s *fileService) ListFiles() (*dto.ListFilesResponse, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &dto.ListFilesResponse{Files: []dto.FileInfo{}}, nil
		}
		return nil, err
	}

	files := make([]dto.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".scad") {
			continue
		}
		files = append(files, dto.FileInfo{
			Name: entry.Name(),
			Path: filepath.Join(s.dataDir, entry.Name()),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return &dto.ListFilesResponse{Files: files}, nil
}

func (s *fileService) FilesStatus() (*dto.FilesStatusResponse, error) {
	resp := &dto.FilesStatusResponse{Files: make(map[string]float64)}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return resp, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".scad") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		resp.Files[entry.Name()] = float64(info.ModTime().UnixNano()) / 1e9
	}
	return resp, nil
}
