package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/responses"
	"github.com/careplushealth/careplus-backend/api/validators"
	"github.com/careplushealth/careplus-backend/internal/memberships"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/logger"
)

// MembershipCardsList serves the public membership catalog. Unauthenticated
// callers only see purchasable products.
func MembershipCardsList(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "memberships service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cards, err := svc.ListCards(r.Context(), r.URL.Query().Get("include_unavailable") != "true")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cards)
	}
}

// MembershipCardCreate is the admin catalog endpoint.
func MembershipCardCreate(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "memberships service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body memberships.CreateCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.CreateCard(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "membership card created", card)
	}
}

// MembershipPurchase buys a catalog card for the authenticated patient.
func MembershipPurchase(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "memberships service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body memberships.PurchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membership, err := svc.Purchase(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "membership purchased", membership)
	}
}

// MembershipsList returns the authenticated user's memberships.
func MembershipsList(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "memberships service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID := actorID
		if raw := r.URL.Query().Get("user_id"); raw != "" {
			targetID, err = validators.ParsePathUUID(raw, "user_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		rows, err := svc.ListUserMemberships(r.Context(), actorID, role, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// MembershipUseService consumes quota from the benefit ledger.
func MembershipUseService(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "memberships service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membershipID, err := validators.ParsePathUUID(chi.URLParam(r, "membershipID"), "membershipID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithCardID(r.Context(), membershipID.String())

		var body memberships.UseServiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		membership, err := svc.UseService(ctx, actorID, role, membershipID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "service consumed", membership)
	}
}

// MembershipCancel cancels an active membership.
func MembershipCancel(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "memberships service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membershipID, err := validators.ParsePathUUID(chi.URLParam(r, "membershipID"), "membershipID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membership, err := svc.Cancel(r.Context(), actorID, role, membershipID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "membership cancelled", membership)
	}
}
