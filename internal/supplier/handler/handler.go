package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/middleware"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/supplier"
	"github.com/glowdesk/inventory-service/internal/supplier/dto"
	"github.com/glowdesk/inventory-service/internal/validation"
)

type Handler struct {
	uc    supplier.UseCase
	authn auth.Authenticator
	opts  middleware.Options
}

func NewHandler(uc supplier.UseCase, authn auth.Authenticator, opts middleware.Options) *Handler {
	return &Handler{uc: uc, authn: authn, opts: opts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.list())
		r.Post("/", h.create())
		r.Get("/{supplierID}", h.get())
		r.Patch("/{supplierID}", h.update())
		r.Delete("/{supplierID}", h.delete())
	})
}

func (h *Handler) list() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]model.Supplier] {
		activeOnly := r.URL.Query().Get("activeOnly") == "true"
		return h.uc.List(r.Context(), id.TenantID, activeOnly)
	}, h.opts)
}

func (h *Handler) create() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Supplier] {
		return result.FlatMap(validation.DecodeAndValidate[dto.CreateSupplierInput](r.Body), func(in dto.CreateSupplierInput) result.Result[model.Supplier] {
			in.TenantID = id.TenantID
			return h.uc.Create(r.Context(), &in)
		})
	}, h.opts)
}

func (h *Handler) get() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Supplier] {
		return h.uc.Get(r.Context(), id.TenantID, chi.URLParam(r, "supplierID"))
	}, h.opts)
}

func (h *Handler) update() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Supplier] {
		return result.FlatMap(validation.DecodeAndValidate[dto.UpdateSupplierInput](r.Body), func(in dto.UpdateSupplierInput) result.Result[model.Supplier] {
			in.TenantID = id.TenantID
			in.SupplierID = chi.URLParam(r, "supplierID")
			return h.uc.Update(r.Context(), &in)
		})
	}, h.opts)
}

func (h *Handler) delete() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "supplierID"))
	}, h.opts)
}
