package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/responses"
	"github.com/careplushealth/careplus-backend/api/validators"
	"github.com/careplushealth/careplus-backend/internal/rightscards"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/logger"
)

// RightsCardsList serves the rights-card catalog, optionally filtered by type.
func RightsCardsList(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cards, err := svc.ListCards(r.Context(), r.URL.Query().Get("type"), r.URL.Query().Get("include_unavailable") != "true")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cards)
	}
}

// RightsCardCreate is the admin catalog endpoint.
func RightsCardCreate(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rightscards.CreateCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.CreateCard(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "rights card created", card)
	}
}

// RightsCardPurchase buys a catalog card; the instance starts inactive.
func RightsCardPurchase(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rightscards.PurchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		instance, err := svc.Purchase(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "rights card purchased", instance)
	}
}

// RightsCardsListMine returns the authenticated user's card instances.
func RightsCardsListMine(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
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

		rows, err := svc.ListUserCards(r.Context(), actorID, role, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// RightsCardActivate opens the coverage window on an inactive card.
func RightsCardActivate(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cardID, err := validators.ParsePathUUID(chi.URLParam(r, "cardID"), "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		instance, err := svc.Activate(r.Context(), actorID, role, cardID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "card activated", instance)
	}
}

// RightsCardRecordUsage appends a usage-log entry for an active card.
func RightsCardRecordUsage(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cardID, err := validators.ParsePathUUID(chi.URLParam(r, "cardID"), "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithCardID(r.Context(), cardID.String())

		var body rightscards.RecordUsageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.RecordUsage(ctx, actorID, role, cardID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "usage recorded", record)
	}
}

// RightsCardUsageList returns the audit log for one card.
func RightsCardUsageList(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cardID, err := validators.ParsePathUUID(chi.URLParam(r, "cardID"), "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListUsage(r.Context(), actorID, role, cardID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// RightsCardUsageReview records the staff decision on a pending usage record.
func RightsCardUsageReview(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordID, err := validators.ParsePathUUID(chi.URLParam(r, "recordID"), "recordID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rightscards.ReviewUsageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ReviewUsage(r.Context(), actorID, recordID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "usage reviewed", record)
	}
}

// RightsCardCancel cancels a card instance.
func RightsCardCancel(svc rightscards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rights cards service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cardID, err := validators.ParsePathUUID(chi.URLParam(r, "cardID"), "cardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		instance, err := svc.Cancel(r.Context(), actorID, role, cardID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "card cancelled", instance)
	}
}
