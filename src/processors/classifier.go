package processors

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/criptofolio/src/models"
	"github.com/username/criptofolio/src/report"
	"github.com/username/criptofolio/src/utils"
)

// ActivityClassifier turns raw exchange activity into declaration records.
// It owns the domain rules: fiat movements carry no crypto declaration
// obligation, trade amounts are netted of fees, and every value is converted
// to the reporting currency through the injected rate provider. Any rate or
// input failure aborts the whole run; a declaration with guessed values is
// worse than no declaration.
type ActivityClassifier struct {
	rates    RateProvider
	pairs    PairResolver
	exchange report.ExchangeInfo
}

func NewActivityClassifier(rates RateProvider, pairs PairResolver, exchange report.ExchangeInfo) *ActivityClassifier {
	return &ActivityClassifier{rates: rates, pairs: pairs, exchange: exchange}
}

// Classify processes deposits, withdrawals and trades into an unordered
// collection of declaration records. Ordering is the report assembler's job.
func (c *ActivityClassifier) Classify(
	deposits []models.DepositEntry,
	withdrawals []models.WithdrawalEntry,
	trades []models.TradeEntry,
) ([]report.Transaction, error) {
	var transactions []report.Transaction

	for _, d := range deposits {
		t, err := c.classifyDeposit(d)
		if err != nil {
			return nil, err
		}
		if t != nil {
			transactions = append(transactions, t)
		}
	}

	for _, w := range withdrawals {
		t, err := c.classifyWithdrawal(w)
		if err != nil {
			return nil, err
		}
		if t != nil {
			transactions = append(transactions, t)
		}
	}

	for _, tr := range trades {
		t, err := c.classifyTrade(tr)
		if err != nil {
			return nil, err
		}
		if t != nil {
			transactions = append(transactions, t)
		}
	}

	return transactions, nil
}

// classifyDeposit emits a 0410 transfer for non-fiat deposits. The ledger
// already reports the deposit fee in the reporting currency, so no rate
// lookup happens here. The origin wallet and exchange are unknown from this
// source and stay empty.
func (c *ActivityClassifier) classifyDeposit(d models.DepositEntry) (report.Transaction, error) {
	if utils.IsFiat(d.Asset) {
		return nil, nil
	}
	amount, err := parseDecimal("deposit amount", d.Amount)
	if err != nil {
		return nil, fmt.Errorf("deposit of %s: %w", d.Asset, err)
	}
	fee, err := parseDecimal("deposit fee", d.Fee)
	if err != nil {
		return nil, fmt.Errorf("deposit of %s: %w", d.Asset, err)
	}

	return &report.TransferToExchangeTransaction{
		Base: report.TransactionBase{
			OperationDate: time.Unix(d.Time, 0).UTC(),
			OperationFees: &fee,
			CryptoSymbol:  c.pairs.Altname(d.Asset),
			CryptoAmount:  amount,
		},
	}, nil
}

// classifyWithdrawal emits a 0510 withdrawal for non-fiat assets. The fee is
// charged in the withdrawn asset and must be converted to the reporting
// currency at the operation date's rate.
func (c *ActivityClassifier) classifyWithdrawal(w models.WithdrawalEntry) (report.Transaction, error) {
	if utils.IsFiat(w.Asset) {
		return nil, nil
	}
	amount, err := parseDecimal("withdrawal amount", w.Amount)
	if err != nil {
		return nil, fmt.Errorf("withdrawal of %s: %w", w.Asset, err)
	}
	fee, err := parseDecimal("withdrawal fee", w.Fee)
	if err != nil {
		return nil, fmt.Errorf("withdrawal of %s: %w", w.Asset, err)
	}

	date := time.Unix(w.Time, 0).UTC()
	symbol := c.pairs.Altname(w.Asset)
	_, rate, err := c.rates.GetRate(date, symbol)
	if err != nil {
		return nil, fmt.Errorf("exchange rate for %s on %s: %w", symbol, date.Format("2006-01-02"), err)
	}
	feeBRL := fee.Mul(rate)

	return &report.WithdrawalFromExchangeTransaction{
		Base: report.TransactionBase{
			OperationDate: date,
			OperationFees: &feeBRL,
			CryptoSymbol:  symbol,
			CryptoAmount:  amount,
		},
		OriginExchange: c.exchange,
	}, nil
}

func (c *ActivityClassifier) classifyTrade(tr models.TradeEntry) (report.Transaction, error) {
	base, quote, ok := c.pairs.Resolve(tr.Pair)
	if !ok {
		return nil, fmt.Errorf("unknown trading pair %q", tr.Pair)
	}

	vol, err := parseDecimal("trade volume", tr.Vol)
	if err != nil {
		return nil, fmt.Errorf("trade on %s: %w", tr.Pair, err)
	}
	cost, err := parseDecimal("trade cost", tr.Cost)
	if err != nil {
		return nil, fmt.Errorf("trade on %s: %w", tr.Pair, err)
	}
	fee, err := parseDecimal("trade fee", tr.Fee)
	if err != nil {
		return nil, fmt.Errorf("trade on %s: %w", tr.Pair, err)
	}
	price, err := parseDecimal("trade price", tr.Price)
	if err != nil {
		return nil, fmt.Errorf("trade on %s: %w", tr.Pair, err)
	}
	date, err := tradeDate(tr.Time)
	if err != nil {
		return nil, fmt.Errorf("trade on %s: %w", tr.Pair, err)
	}

	switch baseFiat, quoteFiat := utils.IsFiat(base), utils.IsFiat(quote); {
	case !baseFiat && quoteFiat:
		return c.classifyFiatTrade(tr, base, quote, vol, cost, fee, price, date)
	case !baseFiat && !quoteFiat:
		return c.classifySwapTrade(tr, base, quote, vol, cost, fee, date)
	case baseFiat && !quoteFiat:
		// The upstream pair table never lists fiat as the base of a crypto
		// pair; seeing it means the pair data is corrupt.
		return nil, fmt.Errorf("unexpected fiat/crypto pair ordering %q (%s/%s)", tr.Pair, base, quote)
	default:
		// Fiat-for-fiat trades carry no crypto declaration obligation.
		return nil, nil
	}
}

// classifyFiatTrade handles crypto traded against a fiat quote: a 0110
// purchase or 0120 sale. The fee is charged in the quote currency, so the
// declared crypto amount is net of its base-unit equivalent (fee/price) and
// the declared value is net of the fee itself. Both the value and the fee
// are converted to the reporting currency at the quote currency's rate.
func (c *ActivityClassifier) classifyFiatTrade(tr models.TradeEntry, base, quote string, vol, cost, fee, price decimal.Decimal, date time.Time) (report.Transaction, error) {
	if price.IsZero() {
		return nil, fmt.Errorf("trade on %s: price is zero", tr.Pair)
	}
	operationValue := cost.Sub(fee)
	cryptoAmount := vol.Sub(fee.Div(price))

	_, rate, err := c.rates.GetRate(date, quote)
	if err != nil {
		return nil, fmt.Errorf("exchange rate for %s on %s: %w", quote, date.Format("2006-01-02"), err)
	}
	feeBRL := fee.Mul(rate)

	txBase := report.TransactionBase{
		OperationDate: date,
		OperationFees: &feeBRL,
		CryptoSymbol:  base,
		CryptoAmount:  cryptoAmount,
	}
	switch tr.Type {
	case "buy":
		return &report.PurchaseTransaction{
			Base:           txBase,
			OperationValue: operationValue.Mul(rate),
			BuyerExchange:  c.exchange,
		}, nil
	case "sell":
		return &report.SaleTransaction{
			Base:           txBase,
			OperationValue: operationValue.Mul(rate),
			SellerExchange: c.exchange,
		}, nil
	default:
		return nil, fmt.Errorf("unknown trade side %q on pair %s", tr.Type, tr.Pair)
	}
}

// classifySwapTrade handles crypto-for-crypto trades: a 0210 swap with no
// fiat operation value. The fee is charged in the quote asset but valued at
// the base asset's reporting-currency rate, matching the rule the filings
// were produced with. The trade side decides which leg was received: a buy
// receives the base (volume) and gives the quote (cost); a sell is the
// mirror image.
func (c *ActivityClassifier) classifySwapTrade(tr models.TradeEntry, base, quote string, vol, cost, fee decimal.Decimal, date time.Time) (report.Transaction, error) {
	_, rate, err := c.rates.GetRate(date, base)
	if err != nil {
		return nil, fmt.Errorf("exchange rate for %s on %s: %w", base, date.Format("2006-01-02"), err)
	}
	feeBRL := fee.Mul(rate)

	swap := &report.SwapTransaction{
		OperationDate: date,
		OperationFees: &feeBRL,
		Exchange:      c.exchange,
	}
	switch tr.Type {
	case "buy":
		swap.ReceivedCryptoSymbol = base
		swap.ReceivedCryptoAmount = vol
		swap.GivenCryptoSymbol = quote
		swap.GivenCryptoAmount = cost
	case "sell":
		swap.ReceivedCryptoSymbol = quote
		swap.ReceivedCryptoAmount = cost
		swap.GivenCryptoSymbol = base
		swap.GivenCryptoAmount = vol
	default:
		return nil, fmt.Errorf("unknown trade side %q on pair %s", tr.Type, tr.Pair)
	}
	return swap, nil
}

// tradeDate truncates a decimal unix timestamp to whole seconds. A truncated
// value that does not fit an int64 is corrupt input, not something to clamp.
func tradeDate(ts fmt.Stringer) (time.Time, error) {
	d, err := decimal.NewFromString(ts.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing trade timestamp %q: %w", ts.String(), err)
	}
	seconds := d.Truncate(0).BigInt()
	if !seconds.IsInt64() {
		return time.Time{}, fmt.Errorf("trade timestamp %q out of range", ts.String())
	}
	return time.Unix(seconds.Int64(), 0).UTC(), nil
}

func parseDecimal(what, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", what, value, err)
	}
	return d, nil
}
