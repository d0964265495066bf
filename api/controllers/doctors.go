package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/responses"
	"github.com/careplushealth/careplus-backend/api/validators"
	"github.com/careplushealth/careplus-backend/internal/doctors"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/logger"
	"github.com/careplushealth/careplus-backend/pkg/pagination"
)

// DoctorsList serves the doctor catalog with optional department filtering.
func DoctorsList(svc doctors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "doctors service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer"))
				return
			}
			limit = parsed
		}

		page, err := svc.List(r.Context(), doctors.ListFilters{
			Department:    r.URL.Query().Get("department"),
			AvailableOnly: r.URL.Query().Get("include_unavailable") != "true",
		}, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// DoctorGet loads one doctor profile.
func DoctorGet(svc doctors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "doctors service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doctorID, err := validators.ParsePathUUID(chi.URLParam(r, "doctorID"), "doctorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doctor, err := svc.Get(r.Context(), doctorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, doctor)
	}
}

// DoctorCreate is the admin endpoint for adding a doctor.
func DoctorCreate(svc doctors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "doctors service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body doctors.CreateDoctorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doctor, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "doctor created", doctor)
	}
}

// DoctorUpdate is the admin endpoint for patching a doctor profile.
func DoctorUpdate(svc doctors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "doctors service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doctorID, err := validators.ParsePathUUID(chi.URLParam(r, "doctorID"), "doctorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body doctors.UpdateDoctorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doctor, err := svc.Update(r.Context(), doctorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "doctor updated", doctor)
	}
}
