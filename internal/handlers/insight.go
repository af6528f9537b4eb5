package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/xixi-finance/tracker/internal/model"
	"github.com/xixi-finance/tracker/internal/service"
)

type summaryResponse struct {
	Balance    decimal.Decimal                `json:"balance"`
	Inflow     decimal.Decimal                `json:"inflow"`
	Outflow    decimal.Decimal                `json:"outflow"`
	Totals     map[model.Type]decimal.Decimal `json:"totals"`
	ByCategory []service.CategoryTotal        `json:"byCategory"`
	Monthly    []service.MonthBucket          `json:"monthly"`
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	records := h.store.List()
	writeJSON(w, http.StatusOK, summaryResponse{
		Balance:    service.Balance(records),
		Inflow:     service.Inflow(records),
		Outflow:    service.Outflow(records),
		Totals:     service.TotalsByType(records),
		ByCategory: service.CategoryBreakdown(records),
		Monthly:    service.MonthlyHistogram(records, h.now()),
	})
}

func (h *Handler) insight(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.insights.State())
}

func (h *Handler) refreshInsight(w http.ResponseWriter, _ *http.Request) {
	h.insights.Refresh()
	w.WriteHeader(http.StatusAccepted)
}
