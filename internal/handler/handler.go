// Package handler provides the HTTP surface of the storefront service:
// the order endpoint, the gateway webhook, and the catalog proxy.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tgstore/internal/bot"
	"tgstore/internal/commerce"
	"tgstore/internal/middleware"
	"tgstore/internal/model"
	"tgstore/internal/order"
	"tgstore/internal/telegram"
)

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// defaultPageSize is the catalog page size when the client sends none.
const defaultPageSize = 10

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	orders        *order.Service
	backend       commerce.Backend
	bot           *bot.Bot
	webhookSecret string
	logger        *slog.Logger
}

// New creates a Handler. webhookSecret guards the gateway webhook route;
// requests without the matching secret_hash query parameter are refused.
func New(orders *order.Service, backend commerce.Backend, b *bot.Bot, webhookSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		orders:        orders,
		backend:       backend,
		bot:           b,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Router builds the service route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.Logging(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.handleCreateOrder)
		r.Post("/telegram/webhook", h.handleWebhook)
		r.Get("/products", h.handleProducts)
		r.Get("/categories", h.handleCategories)
	})
	r.Get("/health", h.handleHealth)

	return r
}

// handleCreateOrder serves the order placement endpoint.
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	resp, err := h.orders.PlaceOrder(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleWebhook receives gateway updates. The gateway retries non-200
// responses, so processing failures are logged and acknowledged anyway;
// only an unauthenticated or unreadable request is refused.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("secret_hash") != h.webhookSecret {
		h.writeError(w, &model.APIError{
			Code:       "FORBIDDEN",
			Message:    "invalid webhook secret",
			StatusCode: http.StatusForbidden,
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, model.NewValidationError("body", "malformed update"))
		return
	}

	if err := h.bot.HandleUpdate(r.Context(), &update); err != nil {
		h.logger.Error("webhook update failed",
			slog.Int64("update_id", update.UpdateID),
			slog.String("error", err.Error()))
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleProducts proxies one catalog page to the mini-app.
func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	query := commerce.ProductQuery{
		Page:       queryInt(r, "page", 1),
		PerPage:    queryInt(r, "per_page", defaultPageSize),
		CategoryID: queryInt(r, "category", 0),
	}

	products, err := h.backend.Products(r.Context(), query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

// handleCategories proxies the category list to the mini-app.
func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.backend.Categories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	h.writeJSON(w, http.StatusOK, categories)
}

// handleHealth serves liveness checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError
// if present. Uses errors.As() to unwrap error chains.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, apiErr)
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
