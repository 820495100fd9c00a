package constants

import (
	"path/filepath"
	"strings"
)

// MediaKind jenis lampiran course (pdf/image/video path).
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaPDF
	MediaImage
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaPDF:
		return "pdf"
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}

// DetectMediaKind dari ekstensi path/URL (query string diabaikan).
func DetectMediaKind(path string) MediaKind {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MediaPDF
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return MediaImage
	case ".mp4", ".webm", ".mov", ".m4v":
		return MediaVideo
	default:
		return MediaUnknown
	}
}
