package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/shared/middleware"
)

type TransactionHandler struct {
	transactions *transaction.Service
}

func NewTransactionHandler(transactions *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type CreateTransactionRequest struct {
	AccountID   string   `json:"accountId"`
	Amount      float64  `json:"amount"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Merchant    string   `json:"merchant,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Date        string   `json:"date"`
	Type        string   `json:"type,omitempty"`
}

type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Merchant    *string  `json:"merchant"`
	Tags        []string `json:"tags"`
	Date        *string  `json:"date"`
	Type        *string  `json:"type"`
}

type BatchCreateRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions"`
}

// HandleTransactions lists the user's transactions through the filter
// engine, or creates a new one.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.handleCreate(w, r, userID)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	spec, err := parseFilterSpec(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	page, err := h.transactions.List(r.Context(), userID, spec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writePage(w, page)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params, err := req.toParams()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := h.transactions.Create(r.Context(), userID, params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// HandleBatchCreate imports a batch of transactions all-or-nothing.
func (h *TransactionHandler) HandleBatchCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BatchCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payloads := make([]transaction.CreateParams, 0, len(req.Transactions))
	for _, tr := range req.Transactions {
		params, err := tr.toParams()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		payloads = append(payloads, params)
	}

	created, err := h.transactions.BulkCreate(r.Context(), userID, payloads)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// HandleTransactionByID serves GET, PUT, and DELETE on a single
// transaction.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID := r.PathValue("id")
	if transactionID == "" {
		writeMessage(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, userID, transactionID)
	case http.MethodPut:
		h.handleUpdate(w, r, userID, transactionID)
	case http.MethodDelete:
		h.handleDelete(w, r, userID, transactionID)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request, userID, transactionID string) {
	t, err := h.transactions.Get(r.Context(), transactionID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID, transactionID string) {
	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params := transaction.UpdateParams{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Merchant:    req.Merchant,
		Tags:        req.Tags,
		Type:        req.Type,
	}
	if req.Date != nil {
		date, err := transaction.ParseDateBound("date", *req.Date)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		params.Date = date
	}

	updated, err := h.transactions.Update(r.Context(), transactionID, userID, params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID, transactionID string) {
	if err := h.transactions.Delete(r.Context(), transactionID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch runs a text-only query over the user's transactions.
func (h *TransactionHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeMessage(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	limit, err := parseIntParam(r, "limit")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	offset, err := parseIntParam(r, "offset")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	page, err := h.transactions.Search(r.Context(), userID, query, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writePage(w, page)
}

// HandleSummary returns the dashboard snapshot.
func (h *TransactionHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.transactions.Summary(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, summary)
}

func (req CreateTransactionRequest) toParams() (transaction.CreateParams, error) {
	params := transaction.CreateParams{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Merchant:    req.Merchant,
		Tags:        req.Tags,
		Type:        req.Type,
	}
	date, err := transaction.ParseDateBound("date", req.Date)
	if err != nil {
		return transaction.CreateParams{}, err
	}
	if date != nil {
		params.Date = *date
	}
	return params, nil
}

// parseFilterSpec builds a FilterSpec from the list query parameters.
// Malformed values are rejected instead of silently dropped.
func parseFilterSpec(r *http.Request) (transaction.FilterSpec, error) {
	q := r.URL.Query()
	var spec transaction.FilterSpec
	var err error

	if spec.DateFrom, err = transaction.ParseDateBound("dateFrom", q.Get("dateFrom")); err != nil {
		return spec, err
	}
	if spec.DateTo, err = transaction.ParseDateBound("dateTo", q.Get("dateTo")); err != nil {
		return spec, err
	}

	spec.AccountIDs = splitParam(q.Get("accountIds"))
	spec.Categories = splitParam(q.Get("categories"))
	spec.Types = splitParam(q.Get("types"))
	spec.SearchQuery = q.Get("search")

	if spec.MinAmount, err = parseFloatParam(q.Get("minAmount"), "minAmount"); err != nil {
		return spec, err
	}
	if spec.MaxAmount, err = parseFloatParam(q.Get("maxAmount"), "maxAmount"); err != nil {
		return spec, err
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return spec, &transaction.InvalidFilterError{Field: "limit", Value: v, Reason: "expected an integer"}
		}
		spec.SetLimit(limit)
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return spec, &transaction.InvalidFilterError{Field: "offset", Value: v, Reason: "expected an integer"}
		}
		spec.Offset = offset
	}

	return spec, nil
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloatParam(value, field string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, &transaction.InvalidFilterError{Field: field, Value: value, Reason: "expected a number"}
	}
	return &f, nil
}

func parseIntParam(r *http.Request, field string) (int, error) {
	value := r.URL.Query().Get(field)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &transaction.InvalidFilterError{Field: field, Value: value, Reason: "expected an integer"}
	}
	return n, nil
}
