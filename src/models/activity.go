package models

import "encoding/json"

// Raw activity entries as returned by the Kraken private API. Monetary
// values stay strings until the classifier parses them into decimals, so no
// precision is lost in transit.

// DepositEntry is one row of DepositStatus.
type DepositEntry struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Time   int64  `json:"time"`
}

// WithdrawalEntry is one row of WithdrawStatus.
type WithdrawalEntry struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Time   int64  `json:"time"`
}

// TradeEntry is one row of TradesHistory. Vol is in base units; Cost, Fee
// and Price are in quote units. Time arrives as a decimal number of unix
// seconds with a fractional part.
type TradeEntry struct {
	Pair  string      `json:"pair"`
	Type  string      `json:"type"`
	Vol   string      `json:"vol"`
	Cost  string      `json:"cost"`
	Fee   string      `json:"fee"`
	Price string      `json:"price"`
	Time  json.Number `json:"time"`
}
