package writer

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// document mirrors one spreadsheet sheet per section. Records marshal with
// two-decimal numeric amounts.
type document struct {
	BasicCardExpenses         []models.TransactionRecord `json:"Basic Card Expenses"`
	SupplementaryCardExpenses []models.TransactionRecord `json:"Supplementary Card Expenses"`
	RefundData                []models.TransactionRecord `json:"Refund Data"`
	FeesData                  []models.TransactionRecord `json:"Fees Data"`
}

// sheetOrder is the section order of JSON, YAML and XLSX exports.
var sheetOrder = []models.Section{
	models.SectionPrimary,
	models.SectionSecondary,
	models.SectionRefunds,
	models.SectionFees,
}

func newDocument(stmt *models.Statement) document {
	return document{
		BasicCardExpenses:         nonNil(stmt.PrimaryExpenses),
		SupplementaryCardExpenses: nonNil(stmt.SecondaryExpenses),
		RefundData:                nonNil(stmt.Refunds),
		FeesData:                  nonNil(stmt.Fees),
	}
}

// nonNil keeps empty sections as [] rather than null.
func nonNil(records []models.TransactionRecord) []models.TransactionRecord {
	if records == nil {
		return []models.TransactionRecord{}
	}
	return records
}

func formatAmount(amount decimal.Decimal) string {
	return models.FormatAmount(amount)
}
