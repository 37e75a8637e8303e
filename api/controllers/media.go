package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmruiz/floresta-backend/api/responses"
	"github.com/dmruiz/floresta-backend/api/validators"
	"github.com/dmruiz/floresta-backend/internal/media"
	"github.com/dmruiz/floresta-backend/pkg/enums"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
	"github.com/dmruiz/floresta-backend/pkg/logger"
	"github.com/dmruiz/floresta-backend/pkg/storage"
)

// Uploads are buffered to disk past this threshold; the per-request body
// limit is enforced by the server configuration, not here.
const uploadMemoryLimit = 32 << 20

// UploadMedia handles multipart image uploads for one owner pair. Files
// arrive under the "files" field alongside mediable_type and mediable_id
// form values.
func UploadMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		mediableType, mediableID, err := parseMediableForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fileHeaders := r.MultipartForm.File["files"]
		uploads, closers, err := openUploadFiles(fileHeaders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer func() {
			for _, closer := range closers {
				closer.Close()
			}
		}()

		if len(uploads) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no files provided").
				WithDetails(pkgerrors.FieldErrors{"files": "at least one non-empty file is required"}))
			return
		}

		items, err := svc.UploadForMediable(r.Context(), media.UploadInput{
			MediableType: mediableType,
			MediableID:   mediableID,
			Files:        uploads,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, items)
	}
}

// openUploadFiles opens every non-empty part. Zero-byte files are skipped
// rather than rejected so one empty input in a batch does not fail the rest.
func openUploadFiles(headers []*multipart.FileHeader) ([]storage.UploadFile, []multipart.File, error) {
	var uploads []storage.UploadFile
	var closers []multipart.File
	for _, header := range headers {
		if header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			for _, closer := range closers {
				closer.Close()
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload part")
		}
		closers = append(closers, file)
		uploads = append(uploads, storage.UploadFile{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Content:  file,
		})
	}
	return uploads, closers, nil
}

// ListMedia handles listing media, scoped to an owner pair when both
// mediable_type and mediable_id query parameters are present.
func ListMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		query := r.URL.Query()
		if !query.Has("mediable_type") && !query.Has("mediable_id") {
			items, err := svc.ListMedia(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, items)
			return
		}

		// A scoped listing needs the whole owner pair.
		rawType, err := validators.RequireQuery(r, "mediable_type")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rawID, err := validators.RequireQuery(r, "mediable_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mediableType, mediableID, err := parseMediablePair(rawType, rawID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMediaByMediable(r.Context(), mediableType, mediableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetMedia handles fetching a single media record by id.
func GetMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetMediaByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

type updateMediaRequest struct {
	MediableType *string `json:"mediable_type,omitempty"`
	MediableID   *string `json:"mediable_id,omitempty"`
	Kind         *string `json:"kind,omitempty"`
	URL          *string `json:"url,omitempty"`
	Filename     *string `json:"filename,omitempty"`
}

func (r updateMediaRequest) toInput() (media.UpdateMediaInput, error) {
	input := media.UpdateMediaInput{
		MediableID: r.MediableID,
		URL:        r.URL,
		Filename:   r.Filename,
	}
	if r.MediableType != nil {
		parsed, err := enums.ParseMediableType(strings.TrimSpace(*r.MediableType))
		if err != nil {
			return media.UpdateMediaInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mediable_type").
				WithDetails(pkgerrors.FieldErrors{"mediable_type": "must be a registered owner kind"})
		}
		input.MediableType = &parsed
	}
	if r.Kind != nil {
		parsed, err := enums.ParseMediaKind(strings.TrimSpace(*r.Kind))
		if err != nil {
			return media.UpdateMediaInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind").
				WithDetails(pkgerrors.FieldErrors{"kind": "must be a known media kind"})
		}
		input.Kind = &parsed
	}
	return input, nil
}

// UpdateMedia handles media record mutation. The payload must carry the full
// field set; partial payloads fail validation downstream.
func UpdateMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateMediaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateMedia(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteMedia handles removal of a media record and its stored file.
func DeleteMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMedia(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type reorderMediaRequest struct {
	MediableType string `json:"mediable_type" validate:"required"`
	MediableID   string `json:"mediable_id" validate:"required"`
	Order        *int   `json:"order"`
}

func (r reorderMediaRequest) toInput() (media.ReorderMediaInput, error) {
	mediableType, err := enums.ParseMediableType(strings.TrimSpace(r.MediableType))
	if err != nil {
		return media.ReorderMediaInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mediable_type").
			WithDetails(pkgerrors.FieldErrors{"mediable_type": "must be a registered owner kind"})
	}
	return media.ReorderMediaInput{
		MediableType: mediableType,
		MediableID:   r.MediableID,
		Order:        r.Order,
	}, nil
}

// ReorderMedia handles moving one media record to a new position within its
// owner pair's sequence.
func ReorderMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reorderMediaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ReorderMedia(r.Context(), id, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMediaByMediable(r.Context(), input.MediableType, input.MediableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func parseMediableForm(r *http.Request) (enums.MediableType, string, error) {
	return parseMediablePair(
		strings.TrimSpace(r.FormValue("mediable_type")),
		strings.TrimSpace(r.FormValue("mediable_id")),
	)
}

func parseMediablePair(rawType, rawID string) (enums.MediableType, string, error) {
	errs := pkgerrors.FieldErrors{}
	mediableType, err := enums.ParseMediableType(rawType)
	if err != nil {
		errs["mediable_type"] = "is required and must be a registered owner kind"
	}
	if rawID == "" {
		errs["mediable_id"] = "is required"
	}
	if errs.HasErrors() {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "invalid mediable reference").WithDetails(errs)
	}
	return mediableType, rawID, nil
}
