package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/api/validators"
	cmssvc "github.com/avelinestudio/aveline-backend/internal/cms"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

func HomepageGet(svc *cmssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable"))
			return
		}

		homepage, err := svc.Homepage(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, homepage)
	}
}

type updateHomepageRequest struct {
	HeroTitle       string   `json:"hero_title"`
	HeroSubtitle    string   `json:"hero_subtitle"`
	HeroImage       string   `json:"hero_image" validate:"omitempty,url"`
	FeaturedHandles []string `json:"featured_handles" validate:"omitempty,dive,required"`
	Announcement    string   `json:"announcement"`
}

func HomepageUpdate(svc *cmssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable"))
			return
		}

		var payload updateHomepageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		homepage, err := svc.UpdateHomepage(r.Context(), cmssvc.Homepage{
			HeroTitle:       payload.HeroTitle,
			HeroSubtitle:    payload.HeroSubtitle,
			HeroImage:       payload.HeroImage,
			FeaturedHandles: payload.FeaturedHandles,
			Announcement:    payload.Announcement,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, homepage)
	}
}

func ProductOverrideGet(svc *cmssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable"))
			return
		}

		override, err := svc.Override(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if override == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no override for product"))
			return
		}

		responses.WriteSuccess(w, override)
	}
}

type setOverrideRequest struct {
	Description string   `json:"description"`
	ExtraImages []string `json:"extra_images" validate:"omitempty,dive,url"`
	Fabric      string   `json:"fabric"`
}

func ProductOverrideSet(svc *cmssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable"))
			return
		}

		var payload setOverrideRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		override, err := svc.SetOverride(r.Context(), chi.URLParam(r, "productID"), cmssvc.ProductOverride{
			Description: payload.Description,
			ExtraImages: payload.ExtraImages,
			Fabric:      payload.Fabric,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, override)
	}
}
