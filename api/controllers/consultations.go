package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/responses"
	"github.com/careplushealth/careplus-backend/api/validators"
	"github.com/careplushealth/careplus-backend/internal/consultations"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/logger"
)

// ConsultationCreate opens a question thread for the authenticated patient.
func ConsultationCreate(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "consultations service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body consultations.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		thread, err := svc.Create(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "consultation created", thread)
	}
}

// ConsultationsList returns the authenticated user's threads.
func ConsultationsList(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "consultations service unavailable")
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

		rows, err := svc.ListByUser(r.Context(), actorID, role, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// ConsultationsOpenQueue feeds the staff work queue.
func ConsultationsOpenQueue(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "consultations service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// ConsultationReply records the staff answer.
func ConsultationReply(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "consultations service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		consultationID, err := validators.ParsePathUUID(chi.URLParam(r, "consultationID"), "consultationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body consultations.ReplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		thread, err := svc.Reply(r.Context(), actorID, consultationID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "reply sent", thread)
	}
}

// ConsultationClose closes a thread.
func ConsultationClose(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "consultations service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		consultationID, err := validators.ParsePathUUID(chi.URLParam(r, "consultationID"), "consultationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		thread, err := svc.Close(r.Context(), actorID, role, consultationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "consultation closed", thread)
	}
}
