// Package loader reads documents from disk for ingestion. Plain text and
// Markdown are supported; Markdown is lightly stripped so formatting
// syntax does not pollute lexical scores.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	moaerrors "github.com/moasearch/moa/internal/errors"
)

// Document is a loaded source ready for ingestion.
type Document struct {
	// Source is the ingestion name, the cleaned file path.
	Source string

	// Text is the document content, Markdown-stripped where applicable.
	Text string
}

// SupportedExtensions lists the file types Load accepts.
var SupportedExtensions = []string{".txt", ".md", ".markdown"}

// maxFileSize caps a single document at 10MB. Larger files are almost
// never prose and would bloat the index.
const maxFileSize = 10 << 20

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Load reads one document from path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, moaerrors.New(moaerrors.ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), err)
		}
		return nil, moaerrors.New(moaerrors.ErrCodeFileNotFound, fmt.Sprintf("cannot stat %s", path), err)
	}
	if info.IsDir() {
		return nil, moaerrors.New(moaerrors.ErrCodeUnsupported, fmt.Sprintf("%s is a directory", path), nil)
	}
	if !Supported(path) {
		return nil, moaerrors.New(moaerrors.ErrCodeUnsupported,
			fmt.Sprintf("unsupported file type %s (supported: %s)", filepath.Ext(path), strings.Join(SupportedExtensions, ", ")), nil)
	}
	if info.Size() > maxFileSize {
		return nil, moaerrors.New(moaerrors.ErrCodeUnsupported,
			fmt.Sprintf("file too large: %d bytes (limit %d)", info.Size(), maxFileSize), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, moaerrors.New(moaerrors.ErrCodeFileNotFound, fmt.Sprintf("cannot read %s", path), err)
	}
	if !utf8.Valid(data) {
		return nil, moaerrors.New(moaerrors.ErrCodeUnsupported, fmt.Sprintf("%s is not valid UTF-8", path), nil)
	}

	text := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" || ext == ".markdown" {
		text = stripMarkdown(text)
	}

	return &Document{
		Source: filepath.Clean(path),
		Text:   text,
	}, nil
}

// LoadDir loads every supported file under dir. Unreadable files are
// collected as errors without stopping the walk.
func LoadDir(dir string) ([]*Document, []error) {
	var docs []*Document
	var errs []error

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !Supported(path) {
			return nil
		}
		doc, err := Load(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return docs, errs
}

var (
	mdCodeFence  = regexp.MustCompile("(?s)```.*?```")
	mdInlineCode = regexp.MustCompile("`([^`]*)`")
	mdImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdEmphasis   = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
)

// stripMarkdown removes formatting syntax while keeping the visible text.
// Link text survives, URLs and images do not.
func stripMarkdown(text string) string {
	text = mdCodeFence.ReplaceAllString(text, "")
	text = mdImage.ReplaceAllString(text, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdInlineCode.ReplaceAllString(text, "$1")
	text = mdHeading.ReplaceAllString(text, "")
	text = mdEmphasis.ReplaceAllString(text, "$2")
	return text
}
