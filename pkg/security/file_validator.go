package security

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

// FileKind selects which whitelist an upload is checked against.
type FileKind int

const (
	KindResume FileKind = iota // pdf, doc, docx, or an image scan
	KindImage                  // profile photo, company logo
)

type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE compound document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP
}

var allowedExtensions = map[FileKind]map[string]bool{
	KindResume: {".pdf": true, ".doc": true, ".docx": true, ".jpg": true, ".jpeg": true, ".png": true},
	KindImage:  {".jpg": true, ".jpeg": true, ".png": true},
}

// application/octet-stream is only tolerated for Word files, whose sniffed type varies.
var strictMIMETypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"application/pdf":    true,
	"application/zip":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateFile checks, in order, the extension whitelist for kind, the magic
// bytes for that extension and the sniffed MIME type.
func ValidateFile(kind FileKind, filename string, data []byte) FileValidationResult {
	detected := http.DetectContentType(data)
	result := FileValidationResult{DetectedMIME: detected}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !allowedExtensions[kind][ext] {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	if detected == "application/octet-stream" {
		if ext != ".doc" && ext != ".docx" {
			result.Error = "file type could not be determined"
			return result
		}
	} else if !strictMIMETypes[detected] {
		result.Error = "MIME type not allowed: " + detected
		return result
	}

	result.Valid = true
	return result
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func IsImageExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// ContentTypeFor returns the Content-Type to store an object with.
func ContentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
