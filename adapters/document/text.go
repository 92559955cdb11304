package document

import (
	"context"
	"html"
	"io"

	"phone-bill/core/receipt"
)

// TextRenderer fills plain-text and markdown templates
type TextRenderer struct{}

func (TextRenderer) Format() receipt.Format { return receipt.FormatText }
func (TextRenderer) Extension() string      { return "txt" }
func (TextRenderer) NeedsTemplate() bool    { return true }

func (TextRenderer) Render(ctx context.Context, tmpl []byte, fields receipt.Fields, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(w, substitute(string(tmpl), fields.Replacements(), nil))
	return err
}

// HTMLRenderer fills HTML templates, escaping every value
type HTMLRenderer struct{}

func (HTMLRenderer) Format() receipt.Format { return receipt.FormatHTML }
func (HTMLRenderer) Extension() string      { return "html" }
func (HTMLRenderer) NeedsTemplate() bool    { return true }

func (HTMLRenderer) Render(ctx context.Context, tmpl []byte, fields receipt.Fields, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(w, substitute(string(tmpl), fields.Replacements(), html.EscapeString))
	return err
}
