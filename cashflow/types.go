/*
Package cashflow holds the ledger side of the cash-flow planner.

PURPOSE:
  This package contains the entity model (banks, balances, receivables,
  suppliers, payments), the business-day resolver that derives credit
  dates, the mutable ledger store behind named operations, the snapshot
  exchange format, and bulk-import row handling.

KEY CONCEPTS IN THIS FILE (types.go):
  - Bank / InitialBalance: master data and the opening cash position
  - Revenue: a receivable; CreditDate is derived at creation and frozen
  - Supplier: the classification axis for payments (Operating /
    Investing / Financing x free-text supplier type)
  - Outflow: a payment holding a WEAK reference to its supplier

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every amount, never float64
  2. Sign convention: amounts are non-negative; outflow semantics come
     from row placement in the report, not from sign
  3. Weak references: Outflow.SupplierID is resolved at projection time;
     a dangling reference drops the payment from output, never errors

SEE ALSO:
  - ledger.go: the store operating on these types
  - ../report: the projection engine consuming a Snapshot of them
*/
package cashflow

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BANKS AND OPENING BALANCES
// =============================================================================

// Bank is master data; identity is the code, later writes overwrite.
type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultBanks seeds a fresh ledger.
func DefaultBanks() []Bank {
	return []Bank{
		{Code: "341", Name: "Itaú Unibanco"},
		{Code: "237", Name: "Bradesco"},
		{Code: "001", Name: "Banco do Brasil"},
		{Code: "033", Name: "Santander"},
		{Code: "104", Name: "Caixa Econômica Federal"},
	}
}

// InitialBalance is the opening cash position of one bank. One balance
// per bank code; the sum across banks opens day zero of every report.
// A code without a matching Bank is tolerated and displayed raw.
type InitialBalance struct {
	BankCode string          `json:"bankCode"`
	Amount   decimal.Decimal `json:"amount"`
}

// =============================================================================
// RECEIVABLES
// =============================================================================

type DocumentType string

const (
	DocumentNF        DocumentType = "NF"
	DocumentForecast  DocumentType = "Forecast"
	DocumentPortfolio DocumentType = "Portfolio"
)

// Revenue is a receivable. CreditDate is derived from DueDate via
// NextBusinessDay when the record is created and never recomputed.
// Confirmation lives in the ledger's confirmed-id set, not on the record,
// so the record stays immutable after creation.
type Revenue struct {
	ID             int64           `json:"id"`
	ClientName     string          `json:"clientName"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	DocumentType   DocumentType    `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
	IssueDate      Day             `json:"issueDate"`
	DueDate        Day             `json:"dueDate"`
	CreditDate     Day             `json:"creditDate"`
}

// =============================================================================
// SUPPLIERS AND PAYMENTS
// =============================================================================

// CashFlowType is the coarse classification of a payment in the direct
// cash-flow statement. Values outside the three known ones never match a
// report section and are silently invisible there.
type CashFlowType string

const (
	CashFlowOperating CashFlowType = "Operating"
	CashFlowInvesting CashFlowType = "Investing"
	CashFlowFinancing CashFlowType = "Financing"
)

// Supplier defines where its payments land in the report: CashFlowType
// picks the section, SupplierType the leaf row within it.
type Supplier struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	CashFlowType CashFlowType `json:"cashFlowType"`
	SupplierType string       `json:"supplierType"`
	BankCode     string       `json:"bankCode,omitempty"`
}

// Outflow is a payment. SupplierID is a weak reference: removing the
// supplier orphans the outflow, which then drops out of projections.
type Outflow struct {
	ID         int64           `json:"id"`
	SupplierID int64           `json:"supplierId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Day             `json:"date"`
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NextID returns a caller-assignable id: millisecond timestamp widened
// with random low bits, unique enough within a single ledger and roughly
// monotonic across calls.
func NextID() int64 {
	return time.Now().UnixMilli()<<10 | rand.Int63n(1<<10)
}
