package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

func TestInternalHandlers_RefreshStats(t *testing.T) {
	refreshed := 0
	stats := &stubStatsService{
		refreshFunc: func(context.Context) (domain.DashboardStats, error) {
			refreshed++
			return domain.DashboardStats{TotalOrders: 4}, nil
		},
	}
	router := chi.NewRouter()
	NewInternalHandlers(stats).Routes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/stats/snapshot", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", refreshed)
	}
}

func TestInternalHandlers_RefreshStatsUnavailable(t *testing.T) {
	stats := &stubStatsService{
		refreshFunc: func(context.Context) (domain.DashboardStats, error) {
			return domain.DashboardStats{}, services.ErrStatsUnavailable
		},
	}
	router := chi.NewRouter()
	NewInternalHandlers(stats).Routes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/stats/snapshot", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
