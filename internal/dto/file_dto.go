package dto

type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
}

// FilesStatusResponse maps file names to modification times (unix seconds,
// fractional) for change-detection polling.
type FilesStatusResponse struct {
	Files map[string]float64 `json:"files"`
}

// FileChangeEvent is pushed over the websocket when a .scad file in the data
// directory changes.
type FileChangeEvent struct {
	Type string `json:"type"` // always "file_change"
	Name string `json:"name"`
	Op   string `json:"op"` // "create" | "write" | "remove" | "rename"
}
