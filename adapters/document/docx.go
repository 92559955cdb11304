package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"path"
	"regexp"
	"strings"

	"phone-bill/core/receipt"
	"phone-bill/internal/errors"
)

var (
	paragraphRe = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	textRunRe   = regexp.MustCompile(`(?s)(<w:t(?:\s[^>]*[^/])?>)(.*?)(</w:t>)`)
)

// DOCXRenderer fills Word templates. It performs a replace-all over the
// document body, headers, footers and notes, like Word's own find/replace.
type DOCXRenderer struct{}

func (DOCXRenderer) Format() receipt.Format { return receipt.FormatDOCX }
func (DOCXRenderer) Extension() string      { return "docx" }
func (DOCXRenderer) NeedsTemplate() bool    { return true }

func (DOCXRenderer) Render(ctx context.Context, tmpl []byte, fields receipt.Fields, w io.Writer) error {
	zr, err := zip.NewReader(bytes.NewReader(tmpl), int64(len(tmpl)))
	if err != nil {
		return errors.Render("receipt template is not a valid .docx archive", err)
	}

	repl := make(map[string]string)
	for marker, value := range fields.Replacements() {
		repl[escapeXML(marker)] = escapeXML(value)
	}

	zw := zip.NewWriter(w)
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := readZipEntry(f)
		if err != nil {
			return errors.Wrapf(errors.TypeRender, err, "failed to read %s from template", f.Name)
		}
		if isContentPart(f.Name) {
			data = []byte(fillWordXML(string(data), repl))
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return errors.Wrapf(errors.TypeRender, err, "failed to write %s", f.Name)
		}
		if _, err := fw.Write(data); err != nil {
			return errors.Wrapf(errors.TypeRender, err, "failed to write %s", f.Name)
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Render("failed to finalize .docx archive", err)
	}
	return nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// isContentPart reports whether a package part holds user-visible text
func isContentPart(name string) bool {
	dir, base := path.Split(name)
	if dir != "word/" || !strings.HasSuffix(base, ".xml") {
		return false
	}
	switch {
	case base == "document.xml", base == "footnotes.xml", base == "endnotes.xml":
		return true
	case strings.HasPrefix(base, "header"), strings.HasPrefix(base, "footer"):
		return true
	}
	return false
}

// fillWordXML replaces escaped markers in a WordprocessingML part.
// Word often splits a marker across several runs; the characters of such a
// marker are gathered into the run holding its first character, so the rest
// of the paragraph keeps its runs, formatting and tabs.
func fillWordXML(doc string, repl map[string]string) string {
	markers := sortedMarkers(repl)
	if len(markers) == 0 {
		return doc
	}

	doc = paragraphRe.ReplaceAllStringFunc(doc, func(p string) string {
		return mergeSplitMarkers(p, markers)
	})
	return substitute(doc, repl, nil)
}

func mergeSplitMarkers(paragraph string, markers []string) string {
	runs := textRunRe.FindAllStringSubmatch(paragraph, -1)
	if len(runs) < 2 {
		return paragraph
	}

	// owner[i] is the run that byte i of the joined text belongs to
	var joined strings.Builder
	var owner []int
	for i, r := range runs {
		joined.WriteString(r[2])
		for range len(r[2]) {
			owner = append(owner, i)
		}
	}
	text := joined.String()

	claimed := make([]bool, len(text))
	moved := false
	for _, m := range markers {
		for from := 0; from < len(text); {
			at := strings.Index(text[from:], m)
			if at < 0 {
				break
			}
			start, end := from+at, from+at+len(m)
			from = end
			if owner[start] == owner[end-1] || anyClaimed(claimed[start:end]) {
				continue
			}
			for i := start; i < end; i++ {
				owner[i] = owner[start]
				claimed[i] = true
			}
			moved = true
		}
	}
	if !moved {
		return paragraph
	}

	texts := make([]strings.Builder, len(runs))
	for i := 0; i < len(text); i++ {
		texts[owner[i]].WriteByte(text[i])
	}

	n := 0
	return textRunRe.ReplaceAllStringFunc(paragraph, func(run string) string {
		i := n
		n++
		if texts[i].String() == runs[i][2] {
			return run
		}
		return `<w:t xml:space="preserve">` + texts[i].String() + `</w:t>`
	})
}

func anyClaimed(c []bool) bool {
	for _, v := range c {
		if v {
			return true
		}
	}
	return false
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
