package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDecimalFieldEncoding(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		precision int32
		want      string
	}{
		{"rounds excess digits", "1234.567", 2, "1234,57"},
		{"zero precision", "1234.5", 0, "1235"},
		{"small value", "0.005", 2, "0,01"},
		{"pads to precision", "10000", 2, "10000,00"},
		{"midpoint rounds away from zero", "2.345", 2, "2,35"},
		{"negative midpoint rounds away from zero", "-2.345", 2, "-2,35"},
		{"amount precision", "0.5", 10, "0,5000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalField(mustDecimal(t, tt.value), tt.precision).Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateFieldEncoding(t *testing.T) {
	got, err := DateField(time.Date(2023, 12, 31, 15, 4, 5, 0, time.UTC)).Encode()
	require.NoError(t, err)
	assert.Equal(t, "31122023", got)

	got, err = DateField(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)).Encode()
	require.NoError(t, err)
	assert.Equal(t, "05012024", got)
}

func TestTextFieldRejectsDelimiter(t *testing.T) {
	_, err := TextField("a|b").Encode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delimiter")
}

func TestEmptyFieldEncoding(t *testing.T) {
	got, err := EmptyField().Encode()
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestWriteRow(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRow(&buf, []Field{
		TextField("I550"),
		TextField("José Silva"),
		EmptyField(),
		TextField("96325874177"),
	})
	require.NoError(t, err)
	assert.Equal(t, "I550|José Silva||96325874177\r\n", buf.String())
}

func TestWriteRowAllEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRow(&buf, []Field{TextField("I550"), EmptyField(), EmptyField(), EmptyField()})
	require.NoError(t, err)
	assert.Equal(t, "I550|||\r\n", buf.String())
}

func TestWriteRowEncodingFailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRow(&buf, []Field{TextField("ok"), TextField("bad|value")})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
