package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
	"github.com/itchan-dev/attachstore/shared/utils"
	"github.com/itchan-dev/attachstore/shared/validation"
)

const multipartBuffer = 1 << 20

// parseMultipartRequest parses a multipart form request and extracts the JSON payload
// and the uploaded files. The caller closes the files with validation.ClosePendingFiles.
func parseMultipartRequest[T any](w http.ResponseWriter, r *http.Request, h *Handler) (body T, pendingFiles []*domain.PendingFile, err error) {
	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxFileCount, h.cfg.Public.MaxFileSize, multipartBuffer)
	if err = validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		return
	}

	jsonPayload := r.FormValue("json")
	if jsonPayload == "" {
		err = &errors.ErrorWithStatusCode{Message: "Missing JSON payload in multipart form", StatusCode: http.StatusBadRequest}
		return
	}
	if err = utils.DecodeValidate(io.NopCloser(strings.NewReader(jsonPayload)), &body); err != nil {
		return
	}

	files := r.MultipartForm.File["attachments"]
	// count is checked before any file is opened
	if err = h.limits.Count(len(files)); err != nil {
		return
	}
	pendingFiles, err = validation.ValidateAttachments(files, h.cfg.Public.AllowedMimeTypes)
	return
}

func parseMessageId(r *http.Request) (domain.MsgId, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "message"), 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: "Invalid message id: must be an integer", StatusCode: http.StatusBadRequest}
	}
	return id, nil
}

func parseFileUid(r *http.Request) (domain.FileUid, error) {
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		return uuid.Nil, &errors.ErrorWithStatusCode{Message: "Invalid attachment uid", StatusCode: http.StatusBadRequest}
	}
	return uid, nil
}
