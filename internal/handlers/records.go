package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/model"
	"github.com/xixi-finance/tracker/internal/service"
)

// Insights is the slice of the analysis advisor the gateway needs.
type Insights interface {
	Refresh()
	State() model.AnalysisState
}

// Handler is the HTTP gateway: it validates user actions at the boundary and
// forwards them to the store and the advisor.
type Handler struct {
	store    *service.Store
	insights Insights
	validate *validator.Validate
	now      func() time.Time
}

func New(store *service.Store, insights Insights, validate *validator.Validate) *Handler {
	return &Handler{
		store:    store,
		insights: insights,
		validate: validate,
		now:      time.Now,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/records", h.listRecords)
		r.Post("/records", h.createRecord)
		r.Put("/records/{id}", h.updateRecord)
		r.Delete("/records/{id}", h.deleteRecord)
		r.Get("/summary", h.summary)
		r.Get("/categories", h.categories)
		r.Get("/insight", h.insight)
		r.Post("/insight/refresh", h.refreshInsight)
	})
	return r
}

// recordRequest is a draft transaction as submitted by the user. The amount
// boundary rule lives here: amount must be strictly positive.
type recordRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" validate:"required"`
	Type        model.Type      `json:"type" validate:"required,oneof=income expense savings loans"`
	Description string          `json:"description"`
}

func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request) (recordRequest, bool) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return req, false
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "amount must be greater than zero")
		return req, false
	}
	return req, true
}

func (h *Handler) listRecords(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	record, err := h.store.Create(r.Context(), model.Transaction{
		Date:        req.Date,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		logrus.Errorf("handler couldn't create record: %v", err)
		writeError(w, http.StatusInternalServerError, "couldn't persist record")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	found, err := h.store.Update(r.Context(), id, model.Transaction{
		Date:        req.Date,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		logrus.Errorf("handler couldn't update record %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "couldn't persist record")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	// destructive-action guard: the caller must confirm explicitly
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "deletion requires confirm=true")
		return
	}

	id := chi.URLParam(r, "id")
	found, err := h.store.Delete(r.Context(), id)
	if err != nil {
		logrus.Errorf("handler couldn't delete record %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "couldn't persist record")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Categories)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("handler couldn't encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
