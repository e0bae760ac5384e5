/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  domain model from the wire contract. Amounts travel as decimal strings
  ("1234.56"), entity dates as YYYY-MM-DD. The one exception is the
  /api/state payloads, which use the snapshot exchange format directly
  (cashflow.Snapshot) so saved states round-trip byte-compatibly.

NAMING CONVENTION:
  - *DTO: response types
  - *Request: request body types

VALIDATION:
  Handlers validate; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

// =============================================================================
// ENTITY DTOs
// =============================================================================

type BankDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type InitialBalanceDTO struct {
	BankCode string `json:"bank_code"`
	Amount   string `json:"amount"`
}

type RevenueDTO struct {
	ID             int64  `json:"id"`
	ClientName     string `json:"client_name"`
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	IssueDate      string `json:"issue_date"`
	DueDate        string `json:"due_date"`
	CreditDate     string `json:"credit_date"`
	Confirmed      bool   `json:"confirmed"`
	DaysOverdue    int    `json:"days_overdue,omitempty"`
}

type SupplierDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CashFlowType string `json:"cash_flow_type"`
	SupplierType string `json:"supplier_type"`
	BankCode     string `json:"bank_code,omitempty"`
}

type OutflowDTO struct {
	ID         int64  `json:"id"`
	SupplierID int64  `json:"supplier_id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreateRevenueRequest struct {
	ClientName     string `json:"client_name"`
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	IssueDate      string `json:"issue_date"`
	DueDate        string `json:"due_date"`
}

type CreateSupplierRequest struct {
	Name         string `json:"name"`
	CashFlowType string `json:"cash_flow_type"`
	SupplierType string `json:"supplier_type"`
	BankCode     string `json:"bank_code,omitempty"`
}

type CreateOutflowRequest struct {
	SupplierID int64  `json:"supplier_id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
}

type UpsertBalanceRequest struct {
	BankCode string `json:"bank_code"`
	Amount   string `json:"amount"`
}

type CreateBankRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ImportRequest wraps positionally-mapped rows for one entity type.
// Each row is a slice of cells in the documented column order.
type ImportRequest struct {
	Rows [][]string `json:"rows"`
}

type ImportResponse struct {
	Applied int `json:"applied"`
	Dropped int `json:"dropped"`
}

type SaveStateRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// REPORT DTOs
// =============================================================================

type ReportRowDTO struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Indent   int      `json:"indent"`
	Bold     bool     `json:"bold"`
	Subtotal bool     `json:"subtotal"`
	Values   []string `json:"values"`
}

type ReportDetailDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type ReportDTO struct {
	Dates   []string                     `json:"dates"`
	Rows    []ReportRowDTO               `json:"rows"`
	Details map[string][]ReportDetailDTO `json:"details"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
