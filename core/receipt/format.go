package receipt

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the dd.MM.yyyy layout used on receipts and in file names
const DateLayout = "02.01.2006"

// DefaultDecimalSeparator is the separator written into amounts
const DefaultDecimalSeparator = ","

// DefaultFilePrefix starts every generated file name
const DefaultFilePrefix = "Чек"

// FormatAmount renders d with two fixed decimals and the given separator.
// An empty separator means DefaultDecimalSeparator.
func FormatAmount(d decimal.Decimal, sep string) string {
	if sep == "" {
		sep = DefaultDecimalSeparator
	}
	s := d.StringFixed(2)
	if sep == "." {
		return s
	}
	return strings.Replace(s, ".", sep, 1)
}

// FormatDate renders t as dd.MM.yyyy
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FileName builds "<prefix>_<number>_<dd.MM.yyyy>.<ext>"
func FileName(prefix string, number int64, issuedAt time.Time, ext string) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	prefix = strings.Map(func(r rune) rune {
		if r == filepath.Separator || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, prefix)

	return fmt.Sprintf("%s_%d_%s.%s", prefix, number, FormatDate(issuedAt), strings.TrimPrefix(ext, "."))
}
