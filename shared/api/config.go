package api

// PublicConfigResponse lets clients check limits before uploading.
type PublicConfigResponse struct {
	MaxFileCount     int      `json:"max_file_count"`
	MaxFileSize      int64    `json:"max_file_size"`
	MaxFileSizeHuman string   `json:"max_file_size_human"`
	AllowedMimeTypes []string `json:"allowed_mime_types"`
}
