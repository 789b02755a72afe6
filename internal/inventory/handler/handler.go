package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/inventory"
	"github.com/glowdesk/inventory-service/internal/inventory/dto"
	"github.com/glowdesk/inventory-service/internal/middleware"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
)

type Handler struct {
	uc    inventory.UseCase
	authn auth.Authenticator
	opts  middleware.Options
}

func NewHandler(uc inventory.UseCase, authn auth.Authenticator, opts middleware.Options) *Handler {
	return &Handler{uc: uc, authn: authn, opts: opts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.list())
		r.Post("/", h.create())
		r.Post("/deduct", h.deduct())
		r.Get("/product/{productID}", h.getByProduct())
		r.Patch("/{inventoryID}", h.update())
		r.Delete("/{inventoryID}", h.delete())
	})

	r.Get("/services/{serviceID}/products", h.serviceProducts())
	r.Post("/service-products", h.addServiceProduct())
	r.Delete("/service-products/{serviceProductID}", h.removeServiceProduct())

	r.Get("/transactions", h.transactions())

	r.Route("/movements", func(r chi.Router) {
		r.Get("/", h.movements())
		r.Post("/", h.createMovement())
	})

	r.Route("/transfers", func(r chi.Router) {
		r.Get("/", h.transfers())
		r.Post("/", h.createTransfer())
		r.Get("/{transferID}", h.transferByID())
		r.Patch("/{transferID}", h.updateTransfer())
		r.Delete("/{transferID}", h.deleteTransfer())
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.alerts())
		r.Post("/", h.createAlert())
		r.Get("/{alertID}", h.alertByID())
		r.Patch("/{alertID}", h.updateAlert())
		r.Delete("/{alertID}", h.deleteAlert())
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/low-stock", h.lowStockReport())
		r.Get("/stock-value", h.stockValueReport())
		r.Get("/movement-summary", h.movementSummaryReport())
		r.Get("/product-performance", h.productPerformanceReport())
	})
}

// body decodes and validates a JSON body, then hands it to fn with the
// caller's identity already resolved.
func body[B, T any](h *Handler, fn func(r *http.Request, id auth.Identity, b B) result.Result[T]) http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[T] {
		return result.FlatMap(validation.DecodeAndValidate[B](r.Body), func(b B) result.Result[T] {
			return fn(r, id, b)
		})
	}, h.opts)
}

func (h *Handler) list() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.Page[dto.StockItem]] {
		return result.FlatMap(middleware.BindQuery[dto.InventoryFilters](r), func(f dto.InventoryFilters) result.Result[dto.Page[dto.StockItem]] {
			f.TenantID = id.TenantID
			return h.uc.List(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) create() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.CreateStockInput) result.Result[model.Inventory] {
		in.TenantID = id.TenantID
		in.PerformedBy = &id.UserID
		return h.uc.Create(r.Context(), &in)
	})
}

func (h *Handler) getByProduct() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.Inventory] {
		return h.uc.GetByProduct(r.Context(), id.TenantID, chi.URLParam(r, "productID"))
	}, h.opts)
}

func (h *Handler) update() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.UpdateStockInput) result.Result[model.Inventory] {
		in.TenantID = id.TenantID
		in.InventoryID = chi.URLParam(r, "inventoryID")
		in.PerformedBy = &id.UserID
		return h.uc.Update(r.Context(), &in)
	})
}

func (h *Handler) delete() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "inventoryID"))
	}, h.opts)
}

func (h *Handler) serviceProducts() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]model.ServiceProduct] {
		return h.uc.ServiceProducts(r.Context(), id.TenantID, chi.URLParam(r, "serviceID"))
	}, h.opts)
}

func (h *Handler) addServiceProduct() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.AddServiceProductInput) result.Result[model.ServiceProduct] {
		in.TenantID = id.TenantID
		return h.uc.AddServiceProduct(r.Context(), &in)
	})
}

func (h *Handler) removeServiceProduct() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.RemoveServiceProduct(r.Context(), id.TenantID, chi.URLParam(r, "serviceProductID"))
	}, h.opts)
}

func (h *Handler) deduct() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.DeductForServiceInput) result.Result[dto.DeductionResult] {
		in.TenantID = id.TenantID
		in.PerformedBy = &id.UserID
		return h.uc.DeductForService(r.Context(), &in)
	})
}

func (h *Handler) transactions() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.Page[model.InventoryTransaction]] {
		return result.FlatMap(middleware.BindQuery[dto.TransactionFilters](r), func(f dto.TransactionFilters) result.Result[dto.Page[model.InventoryTransaction]] {
			f.TenantID = id.TenantID
			return h.uc.Transactions(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) movements() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.Page[model.InventoryTransaction]] {
		return result.FlatMap(middleware.BindQuery[dto.TransactionFilters](r), func(f dto.TransactionFilters) result.Result[dto.Page[model.InventoryTransaction]] {
			f.TenantID = id.TenantID
			return h.uc.Movements(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) createMovement() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.CreateMovementInput) result.Result[model.InventoryTransaction] {
		in.TenantID = id.TenantID
		in.PerformedBy = &id.UserID
		return h.uc.CreateMovement(r.Context(), &in)
	})
}

func (h *Handler) transfers() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.Page[dto.TransferView]] {
		return result.FlatMap(middleware.BindQuery[dto.TransferFilters](r), func(f dto.TransferFilters) result.Result[dto.Page[dto.TransferView]] {
			f.TenantID = id.TenantID
			return h.uc.Transfers(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) createTransfer() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.CreateTransferInput) result.Result[dto.TransferView] {
		in.TenantID = id.TenantID
		in.PerformedBy = &id.UserID
		return h.uc.CreateTransfer(r.Context(), &in)
	})
}

func (h *Handler) transferByID() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.TransferView] {
		return h.uc.TransferByID(r.Context(), id.TenantID, chi.URLParam(r, "transferID"))
	}, h.opts)
}

func (h *Handler) updateTransfer() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.UpdateTransferInput) result.Result[dto.TransferView] {
		in.TenantID = id.TenantID
		in.TransferID = chi.URLParam(r, "transferID")
		return h.uc.UpdateTransfer(r.Context(), &in)
	})
}

func (h *Handler) deleteTransfer() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.DeleteTransfer(r.Context(), id.TenantID, chi.URLParam(r, "transferID"))
	}, h.opts)
}

func (h *Handler) alerts() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[dto.Page[model.InventoryAlert]] {
		return result.FlatMap(middleware.BindQuery[dto.AlertFilters](r), func(f dto.AlertFilters) result.Result[dto.Page[model.InventoryAlert]] {
			f.TenantID = id.TenantID
			return h.uc.Alerts(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) createAlert() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.CreateAlertInput) result.Result[model.InventoryAlert] {
		in.TenantID = id.TenantID
		return h.uc.CreateAlert(r.Context(), &in)
	})
}

func (h *Handler) alertByID() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[model.InventoryAlert] {
		return h.uc.AlertByID(r.Context(), id.TenantID, chi.URLParam(r, "alertID"))
	}, h.opts)
}

func (h *Handler) updateAlert() http.HandlerFunc {
	return body(h, func(r *http.Request, id auth.Identity, in dto.UpdateAlertInput) result.Result[model.InventoryAlert] {
		in.TenantID = id.TenantID
		in.AlertID = chi.URLParam(r, "alertID")
		return h.uc.UpdateAlert(r.Context(), &in)
	})
}

func (h *Handler) deleteAlert() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[bool] {
		return h.uc.DeleteAlert(r.Context(), id.TenantID, chi.URLParam(r, "alertID"))
	}, h.opts)
}

func (h *Handler) lowStockReport() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]dto.LowStockRow] {
		return h.uc.LowStockReport(r.Context(), id.TenantID)
	}, h.opts)
}

func (h *Handler) stockValueReport() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]dto.StockValueRow] {
		return result.FlatMap(middleware.BindQuery[dto.ReportFilters](r), func(f dto.ReportFilters) result.Result[[]dto.StockValueRow] {
			f.TenantID = id.TenantID
			return h.uc.StockValueReport(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) movementSummaryReport() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]dto.MovementSummaryRow] {
		return result.FlatMap(middleware.BindQuery[dto.ReportFilters](r), func(f dto.ReportFilters) result.Result[[]dto.MovementSummaryRow] {
			f.TenantID = id.TenantID
			return h.uc.MovementSummaryReport(r.Context(), &f)
		})
	}, h.opts)
}

func (h *Handler) productPerformanceReport() http.HandlerFunc {
	return middleware.WithAuth(h.authn, func(r *http.Request, id auth.Identity) result.Result[[]dto.ProductPerformanceRow] {
		return result.FlatMap(middleware.BindQuery[dto.ReportFilters](r), func(f dto.ReportFilters) result.Result[[]dto.ProductPerformanceRow] {
			f.TenantID = id.TenantID
			return h.uc.ProductPerformanceReport(r.Context(), &f)
		})
	}, h.opts)
}
