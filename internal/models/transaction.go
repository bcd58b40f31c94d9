package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Origin tags expense records with the cardholder they belong to.
type Origin string

const (
	OriginNone      Origin = ""
	OriginPrimary   Origin = "primary"
	OriginSecondary Origin = "secondary"
)

// Layout records which token layout a transaction line was parsed with.
type Layout string

const (
	LayoutStandard Layout = "standard"
	LayoutCredit   Layout = "credit"
)

// TransactionRecord is a single card transaction reconstructed from a statement line.
type TransactionRecord struct {
	Date              string          `json:"transaction_date"` // source format, e.g. 15-03-2024
	Description       string          `json:"transaction_description"`
	Currency          string          `json:"currency"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	BillingAmount     decimal.Decimal `json:"billing_amount"`
	Origin            Origin          `json:"transaction_origin,omitempty"`
	Layout            Layout          `json:"-"`
}

// IsCredit reports whether the line carried the CR marker.
func (r TransactionRecord) IsCredit() bool {
	return r.Layout == LayoutCredit
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// transactionJSON is the wire shape of a record: amounts are JSON numbers
// with two decimals, so API responses match the file exports.
type transactionJSON struct {
	Date              string      `json:"transaction_date"`
	Description       string      `json:"transaction_description"`
	Currency          string      `json:"currency"`
	TransactionAmount json.Number `json:"transaction_amount"`
	BillingAmount     json.Number `json:"billing_amount"`
	Origin            Origin      `json:"transaction_origin,omitempty"`
}

func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:              r.Date,
		Description:       r.Description,
		Currency:          r.Currency,
		TransactionAmount: json.Number(FormatAmount(r.TransactionAmount)),
		BillingAmount:     json.Number(FormatAmount(r.BillingAmount)),
		Origin:            r.Origin,
	})
}
