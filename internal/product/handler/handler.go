package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/middleware"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/product"
	"github.com/glowdesk/inventory-service/internal/product/dto"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
)

type Handler struct {
	uc    product.UseCase
	authn auth.Authenticator
	opts  middleware.Options
}

func NewHandler(uc product.UseCase, authn auth.Authenticator, opts middleware.Options) *Handler {
	return &Handler{uc: uc, authn: authn, opts: opts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list())
		r.Post("/", h.create())
		r.Get("/{productID}", h.get())
		r.Patch("/{productID}", h.update())
		r.Delete("/{productID}", h.delete())
	})
}

func (h *Handler) list() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.ProductPage[model.Product]] {
		return result.FlatMap(middleware.BindQuery[dto.ProductFilters](r), func(f dto.ProductFilters) result.Result[dto.ProductPage[model.Product]] {
			f.TenantID = id.TenantID
			return h.uc.List(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) create() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Product] {
		return result.FlatMap(validation.DecodeAndValidate[dto.CreateProductInput](r.Body), func(in dto.CreateProductInput) result.Result[model.Product] {
			in.TenantID = id.TenantID
			return h.uc.Create(r.Context(), &in)
		})
	}, h.opts)
}

func (h *Handler) get() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Product] {
		return h.uc.Get(r.Context(), id.TenantID, chi.URLParam(r, "productID"))
	}, h.opts)
}

func (h *Handler) update() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Product] {
		return result.FlatMap(validation.DecodeAndValidate[dto.UpdateProductInput](r.Body), func(in dto.UpdateProductInput) result.Result[model.Product] {
			in.TenantID = id.TenantID
			in.ProductID = chi.URLParam(r, "productID")
			return h.uc.Update(r.Context(), &in)
		})
	}, h.opts)
}

func (h *Handler) delete() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "productID"))
	}, h.opts)
}
