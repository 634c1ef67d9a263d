package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/itchan-dev/attachstore/shared/api"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/logger"
	"github.com/itchan-dev/attachstore/shared/utils"
	"github.com/itchan-dev/attachstore/shared/validation"
)

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	body, pendingFiles, err := parseMultipartRequest[api.CreateMessageRequest](w, r, h)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.ClosePendingFiles(pendingFiles)

	msg, err := h.message.Create(r.Context(), domain.MessageCreationData{
		Text:         body.Text,
		PendingFiles: pendingFiles,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	logger.Log.Info("message created", "message_id", msg.Id, "attachments", len(msg.Attachments))
	utils.WriteJSON(w, http.StatusCreated, api.NewMessageResponse(msg))
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseMessageId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msg, err := h.message.Get(r.Context(), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewMessageResponse(msg))
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseMessageId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.message.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	logger.Log.Info("message deleted", "message_id", id)
	w.WriteHeader(http.StatusOK)
}

// DownloadAttachment streams a stored file with the name and type it was uploaded with.
func (h *Handler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := parseMessageId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	uid, err := parseFileUid(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	attachment, data, err := h.message.GetAttachment(r.Context(), id, uid)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer data.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Name}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, data); err != nil {
		logger.Log.Error("failed to stream attachment", "message_id", id, "path", attachment.Path, "error", err)
	}
}
