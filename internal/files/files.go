// Package files holds the upload rules: which candidates are accepted,
// what metadata is derived from them and which label they get.
package files

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/konorlevich/secureshare/internal/apperr"
)

// MaxSize is the largest accepted upload, in bytes.
const MaxSize int64 = 100 * 1024 * 1024

const (
	CategoryImage       = "Image"
	CategoryDocument    = "Document"
	CategorySpreadsheet = "Spreadsheet"
	CategoryArchive     = "Archive"
	CategoryVideo       = "Video"
	CategoryAudio       = "Audio"
	CategoryUnknown     = "Unknown"
)

// Candidate is a file offered for upload.
type Candidate struct {
	Name string
	Size int64
	Type string
}

// Metadata is derived from a Candidate.
type Metadata struct {
	Name      string
	Size      int64
	Type      string
	Category  string
	Extension string
}

type fileType struct {
	ext      string
	category string
}

var allowedTypes = map[string]fileType{
	"image/jpeg":         {ext: "jpg", category: CategoryImage},
	"image/png":          {ext: "png", category: CategoryImage},
	"image/gif":          {ext: "gif", category: CategoryImage},
	"application/pdf":    {ext: "pdf", category: CategoryDocument},
	"text/plain":         {ext: "txt", category: CategoryDocument},
	"application/msword": {ext: "doc", category: CategoryDocument},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {ext: "docx", category: CategoryDocument},
	"application/vnd.ms-excel": {ext: "xls", category: CategorySpreadsheet},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {ext: "xlsx", category: CategorySpreadsheet},
	"application/zip": {ext: "zip", category: CategoryArchive},
	"video/mp4":       {ext: "mp4", category: CategoryVideo},
	"audio/mpeg":      {ext: "mp3", category: CategoryAudio},
}

// AllowedTypes lists the accepted MIME types, sorted.
func AllowedTypes() []string {
	res := make([]string, 0, len(allowedTypes))
	for t := range allowedTypes {
		res = append(res, t)
	}
	slices.Sort(res)
	return res
}

// TypeForExtension maps a file extension (with or without the dot) to an
// allowed MIME type, or "" when the extension is not on the list.
func TypeForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpeg" {
		return "image/jpeg"
	}
	for t, ft := range allowedTypes {
		if ft.ext == ext {
			return t
		}
	}
	return ""
}

// ValidateType accepts allowed MIME types and the empty (unknown) type.
func ValidateType(c Candidate) error {
	if _, ok := allowedTypes[c.Type]; ok || c.Type == "" {
		return nil
	}
	return apperr.New(apperr.ErrValidation, fmt.Sprintf(
		"File type '%s' is not allowed. Allowed types: images, PDFs, documents, spreadsheets, archives, and videos.",
		c.Type))
}

func ValidateSize(c Candidate) error {
	if c.Size <= MaxSize {
		return nil
	}
	return apperr.New(apperr.ErrValidation, fmt.Sprintf(
		"File size (%.2f MB) exceeds maximum allowed size (100 MB)",
		float64(c.Size)/1024/1024))
}

// Validate checks the type, then the size. The first failure is returned.
func Validate(c Candidate) error {
	if err := ValidateType(c); err != nil {
		return err
	}
	return ValidateSize(c)
}

func DeriveMetadata(c Candidate) Metadata {
	category := CategoryUnknown
	if ft, ok := allowedTypes[c.Type]; ok {
		category = ft.category
	}
	return Metadata{
		Name:      c.Name,
		Size:      c.Size,
		Type:      c.Type,
		Category:  category,
		Extension: Extension(c.Name),
	}
}

// Extension is the uppercased part of name after the last dot.
// A name without a dot is returned whole, uppercased.
func Extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders bytes with 1024-based units rounded to two decimals.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i, div := 0, int64(1)
	for i < len(sizeUnits)-1 && bytes >= div*1024 {
		i++
		div *= 1024
	}
	v := math.Round(float64(bytes)/float64(div)*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
