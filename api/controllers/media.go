package controllers

import (
	"net/http"

	"github.com/mobelhaus/showroom-backend/api/responses"
	"github.com/mobelhaus/showroom-backend/internal/media"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
)

const mediaFormField = "file"

// AdminUploadMedia accepts a multipart image and stores it for product use.
func AdminUploadMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		file, header, err := r.FormFile(mediaFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		result, err := svc.Upload(r.Context(), contentType, header.Size, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
