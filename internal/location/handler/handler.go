package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/location"
	"github.com/glowdesk/inventory-service/internal/location/dto"
	"github.com/glowdesk/inventory-service/internal/middleware"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
)

type Handler struct {
	uc    location.UseCase
	authn auth.Authenticator
	opts  middleware.Options
}

func NewHandler(uc location.UseCase, authn auth.Authenticator, opts middleware.Options) *Handler {
	return &Handler{uc: uc, authn: authn, opts: opts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/locations", func(r chi.Router) {
		r.Get("/", h.list())
		r.Post("/", h.create())
		r.Get("/{locationID}", h.get())
		r.Patch("/{locationID}", h.update())
		r.Delete("/{locationID}", h.delete())
	})
}

func (h *Handler) list() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]model.Location] {
		activeOnly := r.URL.Query().Get("activeOnly") == "true"
		return h.uc.List(r.Context(), id.TenantID, activeOnly)
	}, h.opts)
}

func (h *Handler) create() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Location] {
		return result.FlatMap(validation.DecodeAndValidate[dto.CreateLocationInput](r.Body), func(in dto.CreateLocationInput) result.Result[model.Location] {
			in.TenantID = id.TenantID
			return h.uc.Create(r.Context(), &in)
		})
	}, h.opts)
}

func (h *Handler) get() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Location] {
		return h.uc.Get(r.Context(), id.TenantID, chi.URLParam(r, "locationID"))
	}, h.opts)
}

func (h *Handler) update() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Location] {
		return result.FlatMap(validation.DecodeAndValidate[dto.UpdateLocationInput](r.Body), func(in dto.UpdateLocationInput) result.Result[model.Location] {
			in.TenantID = id.TenantID
			in.LocationID = chi.URLParam(r, "locationID")
			return h.uc.Update(r.Context(), &in)
		})
	}, h.opts)
}

func (h *Handler) delete() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "locationID"))
	}, h.opts)
}
