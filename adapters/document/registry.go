package document

import (
	"path/filepath"
	"sort"
	"strings"

	"phone-bill/core/receipt"
	"phone-bill/internal/errors"
)

// Options configures the renderers that need settings
type Options struct {
	// PDFFontPath is a UTF-8 TrueType font for PDF receipts
	PDFFontPath string

	// Currency is printed next to the PDF total
	Currency string
}

// Registry resolves renderers by format or template extension
type Registry struct {
	renderers map[receipt.Format]receipt.Renderer
}

// NewRegistry returns a registry with every built-in renderer
func NewRegistry(opts Options) *Registry {
	r := &Registry{renderers: make(map[receipt.Format]receipt.Renderer)}
	r.Register(DOCXRenderer{})
	r.Register(TextRenderer{})
	r.Register(HTMLRenderer{})
	r.Register(PDFRenderer{FontPath: opts.PDFFontPath, Currency: opts.Currency})
	return r
}

// Register adds or replaces the renderer for its format
func (r *Registry) Register(renderer receipt.Renderer) {
	r.renderers[renderer.Format()] = renderer
}

// Get returns the renderer for a format
func (r *Registry) Get(format receipt.Format) (receipt.Renderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, errors.NotSupported("receipt format", string(format)).
			WithContext("supported", r.Formats())
	}
	return renderer, nil
}

// Resolve picks a renderer from an explicit format, falling back to the
// template file extension.
func (r *Registry) Resolve(format, templatePath string) (receipt.Renderer, error) {
	if strings.TrimSpace(format) != "" {
		f, err := ParseFormat(format)
		if err != nil {
			return nil, errors.NotSupported("receipt format", format).
				WithContext("supported", r.Formats())
		}
		return r.Get(f)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(templatePath)), ".")
	if ext == "" {
		return nil, errors.Input("cannot infer receipt format: template has no extension")
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return nil, err
	}
	return r.Get(f)
}

// Formats returns the registered formats, sorted
func (r *Registry) Formats() []receipt.Format {
	out := make([]receipt.Format, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFormat maps a format name or file extension to a Format
func ParseFormat(s string) (receipt.Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "docx", "word":
		return receipt.FormatDOCX, nil
	case "pdf":
		return receipt.FormatPDF, nil
	case "html", "htm":
		return receipt.FormatHTML, nil
	case "txt", "text", "md", "markdown":
		return receipt.FormatText, nil
	}
	return "", errors.NotSupported("receipt format", s)
}
