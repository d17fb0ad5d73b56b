package http

import (
	"encoding/json"
	"net/http"
	"time"

	"spendtrack/internal/core"
)

type (
	transactionRequest struct {
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note"`
	}

	transactionResponse struct {
		ID           int64  `json:"id"`
		Amount       string `json:"amount"`
		CategoryID   int64  `json:"categoryId,omitempty"`
		CategoryName string `json:"categoryName,omitempty"`
		Note         string `json:"note,omitempty"`
		CreatedAt    string `json:"createdAt"`
		UpdatedAt    string `json:"updatedAt,omitempty"`
	}

	categoryRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	categoryResponse struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		CreatedAt   string `json:"createdAt"`
	}
)

func toTransactionResponse(t core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:           t.ID,
		Amount:       core.FormatAmount(t.Amount),
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		Note:         t.Note,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
	if !t.UpdatedAt.IsZero() {
		resp.UpdatedAt = t.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

// handleTransactions serves POST (record) and GET (recent or by category)
// on /api/spending/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTransaction(w, r)
	case http.MethodGet:
		s.listTransactions(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}

	tx, err := s.transactions.RecordTransaction(r.Context(),
		sanitizeInput(req.Amount),
		sanitizeInput(req.Category),
		sanitizeInput(req.Note))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboards()
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if category := sanitizeInput(query.Get("category")); category != "" {
		txs, err := s.transactions.TransactionsByCategory(r.Context(), category)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponses(txs))
		return
	}

	if query.Get("startDate") != "" || query.Get("endDate") != "" {
		now := time.Now()
		start, ok := parseDateQuery(r, "startDate", now)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid startDate, want YYYY-MM-DD"})
			return
		}
		end, ok := parseDateQuery(r, "endDate", now)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid endDate, want YYYY-MM-DD"})
			return
		}
		txs, err := s.transactions.TransactionsBetween(r.Context(), core.Day(start).Start, core.Day(end).End)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponses(txs))
		return
	}

	limit := parseCountQuery(r, "limit", 10)
	txs, err := s.transactions.RecentTransactions(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

type todaySpendingResponse struct {
	Date         string                `json:"date"`
	Total        string                `json:"total"`
	Transactions []transactionResponse `json:"transactions"`
}

// handleTodaySpending serves GET /api/spending/today.
func (s *Server) handleTodaySpending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	txs, total, err := s.transactions.TodaySpending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todaySpendingResponse{
		Date:         time.Now().Format("2006-01-02"),
		Total:        core.FormatAmount(total),
		Transactions: toTransactionResponses(txs),
	})
}

// handleTransactionByID serves GET, PUT and DELETE on
// /api/spending/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/api/spending/transactions/")
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.transactions.GetTransaction(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponse(tx))

	case http.MethodPut:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
			return
		}
		tx, err := s.transactions.UpdateTransaction(r.Context(), id,
			sanitizeInput(req.Amount),
			sanitizeInput(req.Category),
			sanitizeInput(req.Note))
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateDashboards()
		writeJSON(w, http.StatusOK, toTransactionResponse(tx))

	case http.MethodDelete:
		if err := s.transactions.DeleteTransaction(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateDashboards()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// handleCategories serves GET (list) and POST (create) on
// /api/spending/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.categories.ListCategories(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]categoryResponse, 0, len(cats))
		for _, c := range cats {
			out = append(out, toCategoryResponse(c))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
			return
		}
		created, err := s.categories.CreateCategory(r.Context(),
			sanitizeInput(req.Name), sanitizeInput(req.Description))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCategoryResponse(created))

	default:
		methodNotAllowed(w)
	}
}

// handleCategoryByID serves GET and PUT (rename) on
// /api/spending/categories/{id}.
func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/api/spending/categories/")
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.categories.GetCategory(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toCategoryResponse(c))

	case http.MethodPut:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
			return
		}
		renamed, err := s.categories.RenameCategory(r.Context(), id, sanitizeInput(req.Name))
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateDashboards()
		writeJSON(w, http.StatusOK, toCategoryResponse(renamed))

	default:
		methodNotAllowed(w)
	}
}
