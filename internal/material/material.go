// Package material loads study material for quiz generation. Text
// sources are inlined into the LLM prompt; PDFs and images travel as
// binary attachments.
package material

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alshwehdya-source/quiz/internal/llm"
)

// MaxFileSize caps each source file. Larger material should be split
// before quizzing it.
const MaxFileSize = 20 << 20 // 20 MiB

// Source is the assembled study material for one generation request.
type Source struct {
	// Text is the concatenated inline text material.
	Text string

	// Attachments holds binary material (PDFs, images).
	Attachments []llm.Attachment

	// Names lists the loaded file names, for display.
	Names []string
}

// Empty reports whether no material was loaded.
func (s *Source) Empty() bool {
	return s.Text == "" && len(s.Attachments) == 0
}

// attachable MIME types that LLM providers accept as binary input.
var attachableTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
}

// Load reads the given files and assembles them into a Source.
// Content types are sniffed from the bytes, not the file extension.
func Load(paths []string) (*Source, error) {
	src := &Source{}
	var text strings.Builder

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > MaxFileSize {
			return nil, fmt.Errorf("%s is %d bytes, max is %d", path, info.Size(), MaxFileSize)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%s is empty", path)
		}

		mtype := mimetype.Detect(data)
		switch {
		case isText(mtype):
			if text.Len() > 0 {
				text.WriteString("\n\n")
			}
			fmt.Fprintf(&text, "=== %s ===\n", path)
			text.Write(data)

		case attachableTypes[baseMIME(mtype.String())]:
			src.Attachments = append(src.Attachments, llm.Attachment{
				MIMEType: baseMIME(mtype.String()),
				Data:     data,
			})

		default:
			return nil, fmt.Errorf("%s: unsupported content type %s (use text, PDF, or images)", path, mtype)
		}

		src.Names = append(src.Names, path)
	}

	src.Text = text.String()
	return src, nil
}

// AddText appends inline text material (e.g. from a flag or stdin).
func (s *Source) AddText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.Text != "" {
		s.Text += "\n\n"
	}
	s.Text += text
}

// isText reports whether the detected type is textual. Markdown, CSV
// and source code all detect as text/* subtypes.
func isText(mtype *mimetype.MIME) bool {
	for t := mtype; t != nil; t = t.Parent() {
		if strings.HasPrefix(t.String(), "text/") {
			return true
		}
	}
	return false
}

// baseMIME strips parameters like "; charset=utf-8".
func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
