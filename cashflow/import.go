/*
import.go - Bulk-import row handling

PURPOSE:
  Accepts positionally-mapped rows from an external tabular source
  (spreadsheet upload, bulk-entry form) and merges the valid ones into
  the ledger. Validation is a FILTER, not a gate: rows missing a required
  field or carrying a non-numeric / non-positive amount are dropped
  silently and the rest of the batch goes through. Partial success is the
  norm; error reporting, if any, belongs to the collaborator that
  produced the rows.

ROW SHAPES (one per entity type):
  BankRow     code, name
  BalanceRow  bank (name or code), amount
  RevenueRow  clientName, documentType, documentNumber, issueDate,
              dueDate, type, amount
  SupplierRow name, cashFlowType, supplierType

SEE ALSO:
  - ledger.go: the merge-by-key operations the batches land in
*/
package cashflow

import "github.com/shopspring/decimal"

type BankRow struct {
	Code string
	Name string
}

type BalanceRow struct {
	Bank   string // bank name or code, resolved against the current bank list
	Amount string
}

type RevenueRow struct {
	ClientName     string
	DocumentType   string
	DocumentNumber string
	IssueDate      string // YYYY-MM-DD
	DueDate        string // YYYY-MM-DD
	Type           string
	Amount         string
}

type SupplierRow struct {
	Name         string
	CashFlowType string
	SupplierType string
}

// ImportBanks upserts valid rows by code. Returns rows applied.
func (l *Ledger) ImportBanks(rows []BankRow) int {
	var banks []Bank
	for _, row := range rows {
		if row.Code == "" || row.Name == "" {
			continue
		}
		banks = append(banks, Bank{Code: row.Code, Name: row.Name})
	}
	l.AddBanks(banks)
	return len(banks)
}

// ImportBalances resolves each row's bank by name or code and upserts the
// balance. Rows with an unknown bank or a bad amount are dropped.
func (l *Ledger) ImportBalances(rows []BalanceRow) int {
	banks := l.Banks()
	var balances []InitialBalance
	for _, row := range rows {
		code, ok := resolveBankCode(banks, row.Bank)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil || !amount.IsPositive() {
			continue
		}
		balances = append(balances, InitialBalance{BankCode: code, Amount: amount})
	}
	l.UpsertInitialBalances(balances)
	return len(balances)
}

func resolveBankCode(banks []Bank, nameOrCode string) (string, bool) {
	for _, b := range banks {
		if b.Code == nameOrCode || b.Name == nameOrCode {
			return b.Code, true
		}
	}
	return "", false
}

// ImportRevenues creates a receivable per valid row, deriving credit
// dates exactly like manual entry. Required: client name, category type,
// parsable due date, positive numeric amount. An unparsable issue date
// degrades to today rather than dropping the row.
func (l *Ledger) ImportRevenues(rows []RevenueRow) int {
	applied := 0
	for _, row := range rows {
		if row.ClientName == "" || row.Type == "" {
			continue
		}
		dueDate, err := ParseDay(row.DueDate)
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil || !amount.IsPositive() {
			continue
		}
		issueDate, err := ParseDay(row.IssueDate)
		if err != nil {
			issueDate = Today()
		}
		l.AddRevenue(NewRevenue{
			ClientName:     row.ClientName,
			Type:           row.Type,
			Amount:         amount,
			DocumentType:   DocumentType(row.DocumentType),
			DocumentNumber: row.DocumentNumber,
			IssueDate:      issueDate,
			DueDate:        dueDate,
		})
		applied++
	}
	return applied
}

// ImportSuppliers appends a supplier per valid row.
func (l *Ledger) ImportSuppliers(rows []SupplierRow) int {
	applied := 0
	for _, row := range rows {
		if row.Name == "" || row.CashFlowType == "" || row.SupplierType == "" {
			continue
		}
		l.AddSupplier(Supplier{
			Name:         row.Name,
			CashFlowType: CashFlowType(row.CashFlowType),
			SupplierType: row.SupplierType,
		})
		applied++
	}
	return applied
}
