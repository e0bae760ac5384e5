/*
handlers.go - HTTP handlers over the ledger and projection engine

PURPOSE:
  Exposes the cash-flow planner via REST. Handlers parse and validate
  input, call the ledger / engine, and serialize DTOs. Domain semantics
  (silent import filtering, idempotent confirmation, orphan skipping)
  live below this layer.

ENDPOINTS:
  Banks:      GET/POST /api/banks, POST /api/banks/import
  Balances:   GET/PUT /api/balances, DELETE /api/balances/{bankCode},
              POST /api/balances/import, DELETE /api/balances
  Revenues:   GET/POST /api/revenues, DELETE /api/revenues/{id},
              POST /api/revenues/{id}/confirm, POST /api/revenues/import,
              DELETE /api/revenues,
              GET /api/revenues/pending, GET /api/revenues/overdue
  Suppliers:  GET/POST /api/suppliers, DELETE /api/suppliers/{id},
              POST /api/suppliers/import, DELETE /api/suppliers
  Outflows:   GET/POST /api/outflows, DELETE /api/outflows/{id},
              DELETE /api/outflows
  Report:     GET /api/report?start=YYYY-MM-DD&days=N
  State:      GET/PUT /api/state (exchange format),
              POST /api/state/save, POST /api/state/load (sqlite),
              POST /api/reset

ERROR HANDLING:
  400 invalid input, 404 unknown snapshot/date, 413 oversized state
  payload, 500 store failures.
  Ledger mutations themselves cannot fail.

SEE ALSO:
  - dto.go: wire shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fluxo/cashflow-engine/cashflow"
	"github.com/fluxo/cashflow-engine/report"
	"github.com/fluxo/cashflow-engine/store/sqlite"
)

// defaultSnapshotName is used by /api/state/save|load when no name is given.
const defaultSnapshotName = "default"

// maxStateBytes caps the /api/state upload, the one endpoint that buffers
// the whole body before decoding.
const maxStateBytes = 10 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger    *cashflow.Ledger
	Engine    report.Engine
	Snapshots *sqlite.Store // optional; state save/load returns 503 when nil
	Log       *zap.Logger
}

func NewHandler(ledger *cashflow.Ledger, snapshots *sqlite.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Ledger: ledger, Snapshots: snapshots, Log: log}
}

// =============================================================================
// BANKS
// =============================================================================

func (h *Handler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks := h.Ledger.Banks()
	dtos := make([]BankDTO, 0, len(banks))
	for _, b := range banks {
		dtos = append(dtos, BankDTO{Code: b.Code, Name: b.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req CreateBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "code and name are required")
		return
	}
	h.Ledger.AddBank(cashflow.Bank{Code: req.Code, Name: req.Name})
	writeJSON(w, http.StatusCreated, BankDTO{Code: req.Code, Name: req.Name})
}

func (h *Handler) ImportBanks(w http.ResponseWriter, r *http.Request) {
	rows, ok := decodeImportRows(w, r)
	if !ok {
		return
	}
	bankRows := make([]cashflow.BankRow, 0, len(rows))
	for _, cells := range rows {
		bankRows = append(bankRows, cashflow.BankRow{Code: cell(cells, 0), Name: cell(cells, 1)})
	}
	applied := h.Ledger.ImportBanks(bankRows)
	writeJSON(w, http.StatusOK, ImportResponse{Applied: applied, Dropped: len(rows) - applied})
}

// =============================================================================
// INITIAL BALANCES
// =============================================================================

func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances := h.Ledger.InitialBalances()
	dtos := make([]InitialBalanceDTO, 0, len(balances))
	for _, b := range balances {
		dtos = append(dtos, InitialBalanceDTO{BankCode: b.BankCode, Amount: b.Amount.String()})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpsertBalance(w http.ResponseWriter, r *http.Request) {
	var req UpsertBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BankCode == "" {
		writeError(w, http.StatusBadRequest, "bank_code is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount is not numeric")
		return
	}
	h.Ledger.UpsertInitialBalance(cashflow.InitialBalance{BankCode: req.BankCode, Amount: amount})
	writeJSON(w, http.StatusOK, InitialBalanceDTO{BankCode: req.BankCode, Amount: amount.String()})
}

func (h *Handler) RemoveBalance(w http.ResponseWriter, r *http.Request) {
	h.Ledger.RemoveInitialBalance(chi.URLParam(r, "bankCode"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImportBalances(w http.ResponseWriter, r *http.Request) {
	rows, ok := decodeImportRows(w, r)
	if !ok {
		return
	}
	balanceRows := make([]cashflow.BalanceRow, 0, len(rows))
	for _, cells := range rows {
		balanceRows = append(balanceRows, cashflow.BalanceRow{Bank: cell(cells, 0), Amount: cell(cells, 1)})
	}
	applied := h.Ledger.ImportBalances(balanceRows)
	writeJSON(w, http.StatusOK, ImportResponse{Applied: applied, Dropped: len(rows) - applied})
}

func (h *Handler) ClearBalances(w http.ResponseWriter, r *http.Request) {
	h.Ledger.ClearInitialBalances()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REVENUES
// =============================================================================

func (h *Handler) ListRevenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.revenueDTOs(h.Ledger.Revenues(), cashflow.Day{}))
}

func (h *Handler) CreateRevenue(w http.ResponseWriter, r *http.Request) {
	var req CreateRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ClientName == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "client_name and type are required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	dueDate, err := cashflow.ParseDay(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}
	issueDate, err := cashflow.ParseDay(req.IssueDate)
	if err != nil {
		issueDate = cashflow.Today()
	}

	rev := h.Ledger.AddRevenue(cashflow.NewRevenue{
		ClientName:     req.ClientName,
		Type:           req.Type,
		Amount:         amount,
		DocumentType:   cashflow.DocumentType(req.DocumentType),
		DocumentNumber: req.DocumentNumber,
		IssueDate:      issueDate,
		DueDate:        dueDate,
	})
	writeJSON(w, http.StatusCreated, h.revenueDTO(rev, cashflow.Day{}))
}

func (h *Handler) RemoveRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.Ledger.RemoveRevenue(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ConfirmRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.Ledger.ConfirmRevenue(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImportRevenues(w http.ResponseWriter, r *http.Request) {
	rows, ok := decodeImportRows(w, r)
	if !ok {
		return
	}
	revenueRows := make([]cashflow.RevenueRow, 0, len(rows))
	for _, cells := range rows {
		revenueRows = append(revenueRows, cashflow.RevenueRow{
			ClientName:     cell(cells, 0),
			DocumentType:   cell(cells, 1),
			DocumentNumber: cell(cells, 2),
			IssueDate:      cell(cells, 3),
			DueDate:        cell(cells, 4),
			Type:           cell(cells, 5),
			Amount:         cell(cells, 6),
		})
	}
	applied := h.Ledger.ImportRevenues(revenueRows)
	writeJSON(w, http.StatusOK, ImportResponse{Applied: applied, Dropped: len(rows) - applied})
}

func (h *Handler) ClearRevenues(w http.ResponseWriter, r *http.Request) {
	h.Ledger.ClearRevenues()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPendingRevenues(w http.ResponseWriter, r *http.Request) {
	filter, asOf, ok := parseRevenueFilter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.revenueDTOs(h.Ledger.PendingRevenues(asOf, filter), cashflow.Day{}))
}

func (h *Handler) ListOverdueRevenues(w http.ResponseWriter, r *http.Request) {
	filter, asOf, ok := parseRevenueFilter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.revenueDTOs(h.Ledger.OverdueRevenues(asOf, filter), asOf))
}

// =============================================================================
// SUPPLIERS
// =============================================================================

func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers := h.Ledger.Suppliers()
	dtos := make([]SupplierDTO, 0, len(suppliers))
	for _, s := range suppliers {
		dtos = append(dtos, SupplierDTO{
			ID:           s.ID,
			Name:         s.Name,
			CashFlowType: string(s.CashFlowType),
			SupplierType: s.SupplierType,
			BankCode:     s.BankCode,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.CashFlowType == "" || req.SupplierType == "" {
		writeError(w, http.StatusBadRequest, "name, cash_flow_type and supplier_type are required")
		return
	}
	s := h.Ledger.AddSupplier(cashflow.Supplier{
		Name:         req.Name,
		CashFlowType: cashflow.CashFlowType(req.CashFlowType),
		SupplierType: req.SupplierType,
		BankCode:     req.BankCode,
	})
	writeJSON(w, http.StatusCreated, SupplierDTO{
		ID:           s.ID,
		Name:         s.Name,
		CashFlowType: string(s.CashFlowType),
		SupplierType: s.SupplierType,
		BankCode:     s.BankCode,
	})
}

func (h *Handler) RemoveSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.Ledger.RemoveSupplier(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImportSuppliers(w http.ResponseWriter, r *http.Request) {
	rows, ok := decodeImportRows(w, r)
	if !ok {
		return
	}
	supplierRows := make([]cashflow.SupplierRow, 0, len(rows))
	for _, cells := range rows {
		supplierRows = append(supplierRows, cashflow.SupplierRow{
			Name:         cell(cells, 0),
			CashFlowType: cell(cells, 1),
			SupplierType: cell(cells, 2),
		})
	}
	applied := h.Ledger.ImportSuppliers(supplierRows)
	writeJSON(w, http.StatusOK, ImportResponse{Applied: applied, Dropped: len(rows) - applied})
}

func (h *Handler) ClearSuppliers(w http.ResponseWriter, r *http.Request) {
	h.Ledger.ClearSuppliers()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OUTFLOWS
// =============================================================================

func (h *Handler) ListOutflows(w http.ResponseWriter, r *http.Request) {
	outflows := h.Ledger.Outflows()
	dtos := make([]OutflowDTO, 0, len(outflows))
	for _, o := range outflows {
		dtos = append(dtos, OutflowDTO{
			ID:         o.ID,
			SupplierID: o.SupplierID,
			Amount:     o.Amount.String(),
			Date:       o.Date.Key(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateOutflow(w http.ResponseWriter, r *http.Request) {
	var req CreateOutflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	date, err := cashflow.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	o := h.Ledger.AddOutflow(cashflow.Outflow{SupplierID: req.SupplierID, Amount: amount, Date: date})
	writeJSON(w, http.StatusCreated, OutflowDTO{
		ID:         o.ID,
		SupplierID: o.SupplierID,
		Amount:     o.Amount.String(),
		Date:       o.Date.Key(),
	})
}

func (h *Handler) RemoveOutflow(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.Ledger.RemoveOutflow(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearOutflows(w http.ResponseWriter, r *http.Request) {
	h.Ledger.ClearOutflows()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT
// =============================================================================

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	start, err := cashflow.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
	}

	rep := h.Engine.Project(report.ProjectionInput{
		Snapshot: h.Ledger.Snapshot(),
		Start:    start,
		Days:     days,
	})
	writeJSON(w, http.StatusOK, reportDTO(rep))
}

func reportDTO(rep *report.Report) ReportDTO {
	dto := ReportDTO{
		Dates:   make([]string, 0, len(rep.Dates)),
		Rows:    make([]ReportRowDTO, 0, len(rep.Rows)),
		Details: make(map[string][]ReportDetailDTO),
	}
	for _, d := range rep.Dates {
		dto.Dates = append(dto.Dates, d.Key())
	}
	for _, row := range rep.Rows {
		values := make([]string, 0, len(row.Values))
		for _, v := range row.Values {
			values = append(values, report.FormatCell(v))
		}
		dto.Rows = append(dto.Rows, ReportRowDTO{
			ID:       row.ID,
			Label:    row.Label,
			Indent:   row.Indent,
			Bold:     row.Bold,
			Subtotal: row.Subtotal,
			Values:   values,
		})
		if !row.IsLeaf() {
			continue
		}
		for _, d := range rep.Details(row.ID) {
			dto.Details[row.ID] = append(dto.Details[row.ID], ReportDetailDTO{
				ID:          d.ID,
				Date:        d.Date.Key(),
				Description: d.Description,
				Amount:      d.Amount.String(),
			})
		}
	}
	return dto
}

// =============================================================================
// STATE EXCHANGE AND PERSISTENCE
// =============================================================================

// GetState hands out the full snapshot in the exchange format.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Ledger.Snapshot())
}

// PutState replaces the ledger with an externally-sourced snapshot.
// Only a structurally undecodable payload is rejected; bad dates inside
// individual records already degraded to "now" during decoding.
func (h *Handler) PutState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStateBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "state payload too large")
		return
	}
	snap, err := cashflow.DecodeSnapshot(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "snapshot payload not decodable")
		return
	}
	h.Ledger.Replace(*snap)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveState(w http.ResponseWriter, r *http.Request) {
	if h.Snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	name := stateName(r)
	if err := h.Snapshots.Save(r.Context(), name, h.Ledger.Snapshot()); err != nil {
		h.Log.Error("snapshot save failed", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LoadState(w http.ResponseWriter, r *http.Request) {
	if h.Snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	name := stateName(r)
	snap, err := h.Snapshots.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, cashflow.ErrSnapshotNotFound) {
			writeError(w, http.StatusNotFound, "no snapshot saved under that name")
			return
		}
		h.Log.Error("snapshot load failed", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	h.Ledger.Replace(*snap)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Ledger.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func stateName(r *http.Request) string {
	var req SaveStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Name != "" {
		return req.Name
	}
	return defaultSnapshotName
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) revenueDTO(rev cashflow.Revenue, overdueAsOf cashflow.Day) RevenueDTO {
	dto := RevenueDTO{
		ID:             rev.ID,
		ClientName:     rev.ClientName,
		Type:           rev.Type,
		Amount:         rev.Amount.String(),
		DocumentType:   string(rev.DocumentType),
		DocumentNumber: rev.DocumentNumber,
		IssueDate:      rev.IssueDate.Key(),
		DueDate:        rev.DueDate.Key(),
		CreditDate:     rev.CreditDate.Key(),
		Confirmed:      h.Ledger.IsConfirmed(rev.ID),
	}
	if !overdueAsOf.IsZero() {
		dto.DaysOverdue = cashflow.DaysOverdue(overdueAsOf, rev)
	}
	return dto
}

func (h *Handler) revenueDTOs(revenues []cashflow.Revenue, overdueAsOf cashflow.Day) []RevenueDTO {
	dtos := make([]RevenueDTO, 0, len(revenues))
	for _, rev := range revenues {
		dtos = append(dtos, h.revenueDTO(rev, overdueAsOf))
	}
	return dtos
}

func parseRevenueFilter(w http.ResponseWriter, r *http.Request) (cashflow.RevenueFilter, cashflow.Day, bool) {
	var filter cashflow.RevenueFilter
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		d, err := cashflow.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return filter, cashflow.Day{}, false
		}
		filter.From = &d
	}
	if v := q.Get("to"); v != "" {
		d, err := cashflow.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return filter, cashflow.Day{}, false
		}
		filter.To = &d
	}
	filter.IncludeFuture = q.Get("include_future") == "true"
	return filter, cashflow.Today(), true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func decodeImportRows(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return req.Rows, true
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
