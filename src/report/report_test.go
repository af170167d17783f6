package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapOf(t *testing.T, received string) *SwapTransaction {
	t.Helper()
	return &SwapTransaction{
		OperationDate:        testDate(),
		ReceivedCryptoSymbol: received,
		ReceivedCryptoAmount: mustDecimal(t, "1"),
		GivenCryptoSymbol:    "BTC",
		GivenCryptoAmount:    mustDecimal(t, "1"),
		Exchange:             testExchange,
	}
}

func TestWriteReportOrdersByRecordCode(t *testing.T) {
	transactions := []Transaction{
		&WithdrawalFromExchangeTransaction{
			Base:           TransactionBase{OperationDate: testDate(), CryptoSymbol: "BTC", CryptoAmount: mustDecimal(t, "1")},
			OriginExchange: testExchange,
		},
		&PurchaseTransaction{
			Base:           TransactionBase{OperationDate: testDate(), CryptoSymbol: "BTC", CryptoAmount: mustDecimal(t, "1")},
			OperationValue: mustDecimal(t, "100"),
			BuyerExchange:  testExchange,
		},
		swapOf(t, "ETH"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, transactions))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "0110|"))
	assert.True(t, strings.HasPrefix(lines[1], "0210|"))
	assert.True(t, strings.HasPrefix(lines[2], "0510|"))
}

func TestWriteReportKeepsInputOrderForEqualCodes(t *testing.T) {
	transactions := []Transaction{
		swapOf(t, "ETH"),
		swapOf(t, "SOL"),
		swapOf(t, "ADA"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, transactions))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "|ETH|")
	assert.Contains(t, lines[1], "|SOL|")
	assert.Contains(t, lines[2], "|ADA|")
}

func TestWriteReportDoesNotReorderInput(t *testing.T) {
	transactions := []Transaction{swapOf(t, "ETH"), &PurchaseTransaction{
		Base:           TransactionBase{OperationDate: testDate(), CryptoSymbol: "BTC", CryptoAmount: mustDecimal(t, "1")},
		OperationValue: mustDecimal(t, "100"),
		BuyerExchange:  testExchange,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, transactions))

	_, ok := transactions[0].(*SwapTransaction)
	assert.True(t, ok, "caller's slice must keep its order")
}

type failingWriter struct{ err error }

func (w *failingWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestWriteReportPropagatesWriteError(t *testing.T) {
	wantErr := errors.New("disk full")
	err := WriteReport(&failingWriter{err: wantErr}, []Transaction{swapOf(t, "ETH")})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Contains(t, err.Error(), "0210")
}

func TestGenerateReportWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "declaration.txt")
	require.NoError(t, GenerateReport([]Transaction{swapOf(t, "ETH")}, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "0210|"))
	assert.True(t, strings.HasSuffix(string(content), "\r\n"))
}

func TestGenerateReportEmptyInputProducesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "declaration.txt")
	require.NoError(t, GenerateReport(nil, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}
