package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/responses"
	"github.com/careplushealth/careplus-backend/api/validators"
	"github.com/careplushealth/careplus-backend/internal/faq"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/logger"
)

// FAQList serves published help articles to everyone.
func FAQList(svc faq.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), r.URL.Query().Get("category"), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// FAQAdminList includes unpublished drafts.
func FAQAdminList(svc faq.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), r.URL.Query().Get("category"), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// FAQCreate is the admin endpoint for adding an article.
func FAQCreate(svc faq.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body faq.CreateEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "faq entry created", entry)
	}
}

// FAQUpdate is the admin endpoint for patching an article.
func FAQUpdate(svc faq.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryID, err := validators.ParsePathUUID(chi.URLParam(r, "entryID"), "entryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body faq.UpdateEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Update(r.Context(), entryID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "faq entry updated", entry)
	}
}

// FAQDelete is the admin endpoint for removing an article.
func FAQDelete(svc faq.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryID, err := validators.ParsePathUUID(chi.URLParam(r, "entryID"), "entryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, "faq entry deleted", nil)
	}
}
