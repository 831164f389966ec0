// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	perrors "github.com/abgdnv/productos/internal/product/errors"
	"github.com/abgdnv/productos/internal/product/service"
	"github.com/abgdnv/productos/pkg/web"
	"github.com/go-chi/chi/v5"
)

const (
	msgCreated  = "Producto creado"
	msgReplaced = "Producto actualizado"
	msgPatched  = "Producto modificado parcialmente"
	msgDeleted  = "Producto eliminado correctamente"
	msgMethods  = "Métodos soportados para /productos"

	msgInvalidBody = "invalid request body"
)

// SupportedMethods lists the methods advertised by OPTIONS /productos.
var SupportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
	http.MethodTrace,
}

// MessageDto is the body of successful mutations.
type MessageDto struct {
	Message string              `json:"mensaje"`
	Data    *service.ProductDto `json:"data,omitempty"`
}

// ExistsDto is the body of HEAD /productos/{id}.
type ExistsDto struct {
	Exists bool `json:"existe"`
}

// MethodsDto is the body of OPTIONS /productos.
type MethodsDto struct {
	Methods     []string `json:"metodos"`
	Description string   `json:"descripcion"`
}

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/productos", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Options("/", h.Options)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.Replace)
			r.Patch("/", h.PartialUpdate)
			r.Delete("/", h.DeleteByID)
			r.Head("/", h.Exists)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	fields, ok := h.decodeFields(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "nombre", fields.Name, "precio", fields.Price)

	created, err := h.service.Create(r.Context(), fields)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, 0)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, MessageDto{Message: msgCreated, Data: created})
}

// Replace overwrites name and price of a product.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	fields, ok := h.decodeFields(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to replace product", "ID", id)

	updated, err := h.service.Replace(r.Context(), id, fields)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product replaced successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, MessageDto{Message: msgReplaced, Data: updated})
}

// PartialUpdate changes only the fields present in the body.
func (h *Handler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	fields, ok := h.decodeFields(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to patch product", "ID", id)

	updated, err := h.service.PartialUpdate(r.Context(), id, fields)
	if err != nil {
		h.respondServiceError(w, r, mLogger, err, id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product patched successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, MessageDto{Message: msgPatched, Data: updated})
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, mLogger, err, id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, MessageDto{Message: msgDeleted})
}

// Exists answers HEAD requests. net/http drops the body on the wire; the status carries the answer.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	exists := h.service.Exists(r.Context(), id)
	mLogger.DebugContext(r.Context(), "Checked product existence", "ID", id, "exists", exists)
	status := http.StatusOK
	if !exists {
		status = http.StatusNotFound
	}
	web.RespondJSON(w, mLogger, status, ExistsDto{Exists: exists})
}

// Options lists the supported methods.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	mLogger := h.requestLogger(r)
	w.Header().Set("Allow", strings.Join(SupportedMethods, ", "))
	web.RespondJSON(w, mLogger, http.StatusOK, MethodsDto{Methods: SupportedMethods, Description: msgMethods})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) decodeFields(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (service.ProductFieldsDto, bool) {
	var fields service.ProductFieldsDto
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, msgInvalidBody)
		return fields, false
	}
	return fields, true
}

// respondServiceError maps service errors to 400, 404 or 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error, id int) {
	var vErr *perrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		mLogger.WarnContext(r.Context(), "Validation failed", "ID", id, "field", vErr.Field, "error", vErr)
		web.RespondError(w, mLogger, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, perrors.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, perrors.ErrProductNotFound.Error())
	default:
		mLogger.ErrorContext(r.Context(), "Error processing product request", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to process product request")
	}
}

// requestLogger scopes the handler logger to the request route.
// request_id is added by the logger's context handler.
func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With("method", r.Method, "path", r.URL.Path)
}
