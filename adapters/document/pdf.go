package document

import (
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"phone-bill/core/receipt"
	"phone-bill/internal/errors"
)

const pdfFontFamily = "receipt-unicode"

// PDFRenderer lays out a receipt without a template file. Text is set in
// the embedded Go fonts, which cover Cyrillic; FontPath replaces them with
// another UTF-8 TrueType font.
type PDFRenderer struct {
	FontPath string
	Currency string
}

func (PDFRenderer) Format() receipt.Format { return receipt.FormatPDF }
func (PDFRenderer) Extension() string      { return "pdf" }
func (PDFRenderer) NeedsTemplate() bool    { return false }

func (r PDFRenderer) Render(ctx context.Context, _ []byte, fields receipt.Fields, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fonts, err := r.fonts()
	if err != nil {
		return err
	}
	builder := config.NewBuilder().
		WithCustomFonts(fonts).
		WithDefaultFont(&props.Font{Family: pdfFontFamily})

	m := maroto.New(builder.Build())

	m.AddRow(20,
		text.NewCol(8, "Квитанция об оплате", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "№ "+fields.Value(receipt.FieldNumber), props.Text{
			Size:  12,
			Align: align.Right,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Плательщик", props.Text{Style: fontstyle.Bold}),
			text.New(fields.Value(receipt.FieldPayerName), props.Text{Top: 5}),
			text.New(fields.Value(receipt.FieldPayerAddress), props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Дата платежа: "+fields.Value(receipt.FieldDate), props.Text{Align: align.Right}),
			text.New("Тариф: "+fields.Value(receipt.FieldPlan), props.Text{Top: 5, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Минут использовано", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(6, fields.Value(receipt.FieldMinutes), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(6, "Минут сверх нормы", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(6, fields.Value(receipt.FieldOverage), props.Text{Size: 9, Align: align.Right}),
	)

	total := fields.Value(receipt.FieldAmount)
	if r.Currency != "" {
		total += " " + r.Currency
	}
	m.AddRow(15,
		col.New(6),
		text.NewCol(3, "Сумма к оплате", props.Text{Style: fontstyle.Bold, Top: 5}),
		text.NewCol(3, total, props.Text{Style: fontstyle.Bold, Top: 5, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return errors.Render("failed to generate PDF receipt", err)
	}
	_, err = w.Write(doc.GetBytes())
	return err
}

// fonts loads FontPath, or the embedded Go fonts when it is unset
func (r PDFRenderer) fonts() ([]*entity.CustomFont, error) {
	repo := repository.New()
	if r.FontPath == "" {
		repo = repo.
			AddUTF8FontFromBytes(pdfFontFamily, fontstyle.Normal, goregular.TTF).
			AddUTF8FontFromBytes(pdfFontFamily, fontstyle.Bold, gobold.TTF)
	} else {
		repo = repo.
			AddUTF8Font(pdfFontFamily, fontstyle.Normal, r.FontPath).
			AddUTF8Font(pdfFontFamily, fontstyle.Bold, r.FontPath)
	}

	fonts, err := repo.Load()
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to load PDF font %s", r.FontPath)
	}
	return fonts, nil
}
