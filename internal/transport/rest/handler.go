// Package rest provides HTTP handlers for the CRM resources.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/service"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.CRMService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler on top of the given service.
func NewHandler(svc service.CRMService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		validate: service.NewValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// BulkCreateCustomersRequest is the body of POST /api/v1/customers/bulk.
type BulkCreateCustomersRequest struct {
	Customers []service.CustomerInput `json:"customers" validate:"required"`
}

// RegisterRoutes registers the HTTP routes of the CRM.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Post("/bulk", h.BulkCreateCustomers)
			r.Get("/{id}", h.FindCustomerByID)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Post("/restock", h.RestockLowStock)
			r.Get("/{id}", h.FindProductByID)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.PlaceOrder)
			r.Get("/{id}", h.FindOrderByID)
		})
	})
	r.Get("/healthz", h.HealthCheck)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var in service.CustomerInput
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &in) {
		return
	}

	result, err := h.service.CreateCustomer(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to create customer")
		return
	}
	mLogger.InfoContext(r.Context(), "Customer created successfully", slog.String("ID", result.Customer.ID.String()))
	web.RespondJSON(w, mLogger, http.StatusCreated, result)
}

func (h *Handler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req BulkCreateCustomersRequest
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &req) {
		return
	}

	result, err := h.service.BulkCreateCustomers(r.Context(), req.Customers)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to create customers")
		return
	}
	mLogger.InfoContext(r.Context(), "Bulk customer creation processed",
		"created", len(result.Customers), "rejected", len(result.Errors))
	web.RespondJSON(w, mLogger, http.StatusOK, result)
}

func (h *Handler) FindCustomerByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindCustomerByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to retrieve customer")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := parsePage(w, r, mLogger)
	if !ok {
		return
	}
	filter := store.CustomerFilter{
		NameIContains:   queryParam(r, "name"),
		EmailIContains:  queryParam(r, "email"),
		PhoneStartsWith: queryParam(r, "phone_prefix"),
		Page:            page,
	}

	list, err := h.service.ListCustomers(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to fetch customers")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var in service.ProductInput
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &in) {
		return
	}

	created, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", slog.String("ID", created.ID.String()))
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

func (h *Handler) RestockLowStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	result, err := h.service.RestockLowStock(r.Context())
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to restock products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, result)
}

func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindProductByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to retrieve product")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := parsePage(w, r, mLogger)
	if !ok {
		return
	}
	filter := store.ProductFilter{NameIContains: queryParam(r, "name"), Page: page}
	if r.URL.Query().Get("low_stock") == "true" {
		lowStock := true
		filter.LowStock = &lowStock
	}

	list, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var in service.OrderInput
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &in) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to place order", "customer_id", in.CustomerID, "products", len(in.ProductIDs))
	created, err := h.service.PlaceOrder(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to create order")
		return
	}
	mLogger.InfoContext(r.Context(), "Order created successfully", slog.String("ID", created.ID.String()))
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

func (h *Handler) FindOrderByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindOrderByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to retrieve order")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := parsePage(w, r, mLogger)
	if !ok {
		return
	}
	filter := store.OrderFilter{
		CustomerName: queryParam(r, "customer_name"),
		ProductName:  queryParam(r, "product_name"),
		Page:         page,
	}

	list, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, "Failed to fetch orders")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError maps error kinds to status codes. Domain messages are passed through,
// anything else is logged and answered with fallback.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var status int
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	default:
		logger.ErrorContext(r.Context(), fallback, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, fallback)
		return
	}
	logger.WarnContext(r.Context(), "Request rejected", "status", status, "reason", err.Error())
	web.RespondError(w, logger, status, err.Error())
}

func parsePage(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (store.Page, bool) {
	limit, offset, ok := web.ParsePagination(w, r, logger)
	if !ok {
		return store.Page{}, false
	}
	return store.Page{
		OrderBy: r.URL.Query().Get("order_by"),
		Limit:   uint64(limit),
		Offset:  uint64(offset),
	}, true
}

func queryParam(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
