package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelinestudio/aveline-backend/api/responses"
	mediasvc "github.com/avelinestudio/aveline-backend/internal/media"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

const mediaFormField = "image"

// MediaUpload accepts a multipart image upload and stores it in the asset
// bucket. The response carries the public URL for the stored object.
func MediaUpload(svc *mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes())
		if err := r.ParseMultipartForm(svc.MaxBytes()); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "upload exceeds size limit"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile(mediaFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		result, err := svc.UploadImage(r.Context(), header.Filename, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MediaDelete removes a stored image. The route wildcard carries the key
// suffix under the image prefix.
func MediaDelete(svc *mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		key := "images/" + chi.URLParam(r, "*")
		if err := svc.DeleteImage(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"deleted_key": key})
	}
}
