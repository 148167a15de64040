package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petbazaar/petbazaar-backend/api/responses"
	"github.com/petbazaar/petbazaar-backend/api/validators"
	cartsvc "github.com/petbazaar/petbazaar-backend/internal/cart"
	catalogsvc "github.com/petbazaar/petbazaar-backend/internal/catalog"
	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
	"github.com/petbazaar/petbazaar-backend/pkg/logger"
)

type cartTotalsResponse struct {
	SubtotalPKR decimal.Decimal `json:"subtotal_pkr"`
	TaxPKR      decimal.Decimal `json:"tax_pkr"`
	ShippingPKR decimal.Decimal `json:"shipping_pkr"`
	TotalPKR    decimal.Decimal `json:"total_pkr"`
}

type cartResponse struct {
	Items  []cartsvc.LineItem `json:"items"`
	Totals cartTotalsResponse `json:"totals"`
}

func newCartResponse(store *cartsvc.Store) cartResponse {
	return cartResponse{
		Items: store.Snapshot().Lines(),
		Totals: cartTotalsResponse{
			SubtotalPKR: store.Subtotal(),
			TaxPKR:      store.Tax(),
			ShippingPKR: store.Shipping(),
			TotalPKR:    store.Total(),
		},
	}
}

// CartFetch returns the caller's cart with derived totals.
func CartFetch(carts *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := carts.Open(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type addCartItemRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=product pet"`
	EntityID string `json:"entity_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddItem resolves a catalog entity into a cart line and adds it.
func CartAddItem(carts *cartsvc.Manager, catalog catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil || catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseItemKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item kind"))
			return
		}

		entityID, err := validators.ParsePathUUID(payload.EntityID, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := catalog.CartLine(r.Context(), kind, entityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity > 0 {
			line.Quantity = payload.Quantity
		}

		store, err := carts.Open(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.AddItem(r.Context(), line); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type setCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartSetQuantity adjusts a line's quantity; zero removes the line.
func CartSetQuantity(carts *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, entityID, err := cartLineParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := carts.Open(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetQuantity(r.Context(), entityID, kind, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(carts *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, entityID, err := cartLineParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := carts.Open(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.RemoveItem(r.Context(), entityID, kind); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartClear empties the cart and drops its snapshot.
func CartClear(carts *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := carts.Open(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartValidate re-checks every cart line against live catalog state.
func CartValidate(carts *cartsvc.Manager, catalog catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil || catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := carts.Open(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap := store.Snapshot()
		avail, err := catalog.AvailabilityFor(r.Context(), snap)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := cartsvc.IssuesError(cartsvc.Validate(snap, avail)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

func cartLineParams(r *http.Request) (enums.ItemKind, uuid.UUID, error) {
	kind, err := enums.ParseItemKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item kind")
	}
	id, err := validators.ParsePathUUID(chi.URLParam(r, "entityId"), "entityId")
	if err != nil {
		return "", uuid.Nil, err
	}
	return kind, id, nil
}
