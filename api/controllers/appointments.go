package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/responses"
	"github.com/careplushealth/careplus-backend/api/validators"
	"github.com/careplushealth/careplus-backend/internal/appointments"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/logger"
)

// AppointmentBook reserves a doctor slot for the authenticated patient.
func AppointmentBook(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body appointments.BookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.Book(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "appointment booked", appointment)
	}
}

// AppointmentsList returns the authenticated user's appointments.
func AppointmentsList(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable")
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

// AppointmentCancel cancels a booked appointment.
func AppointmentCancel(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := validators.ParsePathUUID(chi.URLParam(r, "appointmentID"), "appointmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.Cancel(r.Context(), actorID, role, appointmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "appointment cancelled", appointment)
	}
}

// AppointmentComplete marks a booked appointment done. Staff only.
func AppointmentComplete(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := validators.ParsePathUUID(chi.URLParam(r, "appointmentID"), "appointmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.Complete(r.Context(), appointmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "appointment completed", appointment)
	}
}
