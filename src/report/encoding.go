package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The declaration layout is positional: fields are joined by a pipe and each
// row ends with CRLF. A pipe inside a field value would shift every field
// after it, so text fields refuse to encode one.
const fieldDelimiter = "|"

type fieldKind int

const (
	fieldEmpty fieldKind = iota
	fieldDate
	fieldDecimal
	fieldText
)

// Field is a single typed value of a report row.
type Field struct {
	kind      fieldKind
	date      time.Time
	value     decimal.Decimal
	precision int32
	text      string
}

// DateField renders as DDMMYYYY, zero padded, no separators.
func DateField(t time.Time) Field {
	return Field{kind: fieldDate, date: t}
}

// DecimalField renders with exactly precision digits after a comma decimal
// separator. Midpoints round half away from zero.
func DecimalField(v decimal.Decimal, precision int32) Field {
	return Field{kind: fieldDecimal, value: v, precision: precision}
}

// TextField renders the value verbatim.
func TextField(s string) Field {
	return Field{kind: fieldText, text: s}
}

// EmptyField renders as a zero-length string, used for absent optional values.
func EmptyField() Field {
	return Field{kind: fieldEmpty}
}

// Encode returns the canonical text form of the field.
func (f Field) Encode() (string, error) {
	switch f.kind {
	case fieldDate:
		return fmt.Sprintf("%02d%02d%04d", f.date.Day(), int(f.date.Month()), f.date.Year()), nil
	case fieldDecimal:
		return strings.Replace(f.value.StringFixed(f.precision), ".", ",", 1), nil
	case fieldText:
		if strings.Contains(f.text, fieldDelimiter) {
			return "", fmt.Errorf("field value %q contains the %q delimiter", f.text, fieldDelimiter)
		}
		return f.text, nil
	case fieldEmpty:
		return "", nil
	default:
		return "", fmt.Errorf("unknown field kind %d", f.kind)
	}
}

// WriteRow writes one report row: the encoded fields joined by the pipe
// delimiter, terminated by CRLF. Any field that fails to encode aborts the
// row before a single byte is written.
func WriteRow(w io.Writer, fields []Field) error {
	encoded := make([]string, len(fields))
	for i, f := range fields {
		s, err := f.Encode()
		if err != nil {
			return fmt.Errorf("encoding field %d: %w", i, err)
		}
		encoded[i] = s
	}
	_, err := io.WriteString(w, strings.Join(encoded, fieldDelimiter)+"\r\n")
	return err
}
