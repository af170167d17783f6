package report

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionBase holds the fields shared across most record variants.
// Amounts are magnitudes in the asset's own unit; fees are already expressed
// in the reporting currency (BRL) by the classifier.
type TransactionBase struct {
	OperationDate time.Time
	OperationFees *decimal.Decimal // nil when no fee was charged
	CryptoSymbol  string
	CryptoAmount  decimal.Decimal
}

// ExchangeInfo identifies the counterparty venue disclosed on a record.
type ExchangeInfo struct {
	Name    string
	URL     string
	Country string
}

func (e ExchangeInfo) fields() []Field {
	return []Field{
		TextField(e.Name),
		TextField(e.URL),
		TextField(e.Country),
	}
}

func feeField(fees *decimal.Decimal) Field {
	if fees == nil {
		return EmptyField()
	}
	return DecimalField(*fees, 2)
}

// commonFields returns the shared trailer for the 0410/0510/0710/0720
// layouts: date, category, fee, symbol, amount at 10 decimals.
func (b TransactionBase) commonFields(category string) []Field {
	return []Field{
		DateField(b.OperationDate),
		TextField(category),
		feeField(b.OperationFees),
		TextField(b.CryptoSymbol),
		DecimalField(b.CryptoAmount, 10),
	}
}

// Transaction is one declaration record. The record code and roman-numeral
// category are fixed data on each variant; the assembler orders rows by the
// code and the same code is written as the row's first field, so the ordering
// key can never drift from the file content.
type Transaction interface {
	// RecordType returns the 4-digit record code and the roman-numeral
	// category of the variant.
	RecordType() (code string, category string)
	// Fields returns the complete row layout, first field included.
	Fields() []Field
}

// PurchaseTransaction is record 0110: crypto bought against fiat.
type PurchaseTransaction struct {
	Base TransactionBase
	// Operation value in the reporting currency, fees excluded.
	OperationValue decimal.Decimal
	BuyerExchange  ExchangeInfo
}

func (t *PurchaseTransaction) RecordType() (string, string) { return "0110", "I" }

func (t *PurchaseTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := []Field{
		TextField(code),
		DateField(t.Base.OperationDate),
		TextField(category),
		DecimalField(t.OperationValue, 2),
		feeField(t.Base.OperationFees),
		TextField(t.Base.CryptoSymbol),
		DecimalField(t.Base.CryptoAmount, 10),
	}
	return append(fields, t.BuyerExchange.fields()...)
}

// SaleTransaction is record 0120: crypto sold for fiat. The amount is
// declared at 12 decimals, unlike every other layout.
type SaleTransaction struct {
	Base           TransactionBase
	OperationValue decimal.Decimal
	SellerExchange ExchangeInfo
}

func (t *SaleTransaction) RecordType() (string, string) { return "0120", "I" }

func (t *SaleTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := []Field{
		TextField(code),
		DateField(t.Base.OperationDate),
		TextField(category),
		DecimalField(t.OperationValue, 2),
		feeField(t.Base.OperationFees),
		TextField(t.Base.CryptoSymbol),
		DecimalField(t.Base.CryptoAmount, 12),
	}
	return append(fields, t.SellerExchange.fields()...)
}

// SwapTransaction is record 0210: a crypto-for-crypto exchange. There is no
// base/quote asymmetry and no fiat operation value, only the two legs.
type SwapTransaction struct {
	OperationDate        time.Time
	OperationFees        *decimal.Decimal
	ReceivedCryptoSymbol string
	ReceivedCryptoAmount decimal.Decimal
	GivenCryptoSymbol    string
	GivenCryptoAmount    decimal.Decimal
	Exchange             ExchangeInfo
}

func (t *SwapTransaction) RecordType() (string, string) { return "0210", "II" }

func (t *SwapTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := []Field{
		TextField(code),
		DateField(t.OperationDate),
		TextField(category),
		feeField(t.OperationFees),
		TextField(t.ReceivedCryptoSymbol),
		DecimalField(t.ReceivedCryptoAmount, 10),
		TextField(t.GivenCryptoSymbol),
		DecimalField(t.GivenCryptoAmount, 10),
	}
	return append(fields, t.Exchange.fields()...)
}

// TransferToExchangeTransaction is record 0410: crypto deposited into the
// exchange from outside. Origin details are optional; the ledger usually
// does not carry them.
type TransferToExchangeTransaction struct {
	Base               TransactionBase
	OriginWallet       string // empty when unknown
	OriginExchangeName string // empty when unknown
}

func (t *TransferToExchangeTransaction) RecordType() (string, string) { return "0410", "IV" }

func (t *TransferToExchangeTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := append([]Field{TextField(code)}, t.Base.commonFields(category)...)
	return append(fields, optionalTextField(t.OriginWallet), optionalTextField(t.OriginExchangeName))
}

// WithdrawalFromExchangeTransaction is record 0510: crypto leaving the
// exchange.
type WithdrawalFromExchangeTransaction struct {
	Base           TransactionBase
	OriginExchange ExchangeInfo
}

func (t *WithdrawalFromExchangeTransaction) RecordType() (string, string) { return "0510", "V" }

func (t *WithdrawalFromExchangeTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := append([]Field{TextField(code)}, t.Base.commonFields(category)...)
	return append(fields, t.OriginExchange.fields()...)
}

// CryptoPaymentReceiverTransaction is record 0710: crypto received in
// payment.
type CryptoPaymentReceiverTransaction struct {
	Base             TransactionBase
	ReceiverExchange ExchangeInfo
}

func (t *CryptoPaymentReceiverTransaction) RecordType() (string, string) { return "0710", "VII" }

func (t *CryptoPaymentReceiverTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := append([]Field{TextField(code)}, t.Base.commonFields(category)...)
	return append(fields, t.ReceiverExchange.fields()...)
}

// CryptoPaymentSenderTransaction is record 0720: crypto given in payment.
type CryptoPaymentSenderTransaction struct {
	Base           TransactionBase
	SenderExchange ExchangeInfo
}

func (t *CryptoPaymentSenderTransaction) RecordType() (string, string) { return "0720", "VII" }

func (t *CryptoPaymentSenderTransaction) Fields() []Field {
	code, category := t.RecordType()
	fields := append([]Field{TextField(code)}, t.Base.commonFields(category)...)
	return append(fields, t.SenderExchange.fields()...)
}

func optionalTextField(s string) Field {
	if s == "" {
		return EmptyField()
	}
	return TextField(s)
}

// WriteTransaction writes the record as one report row.
func WriteTransaction(w io.Writer, t Transaction) error {
	return WriteRow(w, t.Fields())
}
