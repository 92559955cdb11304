package receipt

import (
	"context"
	"io"
)

// Format identifies a receipt document format
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatText Format = "txt"
)

// Renderer substitutes named fields into a template and writes the artifact
type Renderer interface {
	// Format returns the produced document format
	Format() Format

	// Extension returns the output file extension, without the dot
	Extension() string

	// NeedsTemplate reports whether Render reads the template bytes
	NeedsTemplate() bool

	// Render writes the filled document to w
	Render(ctx context.Context, template []byte, fields Fields, w io.Writer) error
}
