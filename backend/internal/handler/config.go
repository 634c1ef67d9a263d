package handler

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/itchan-dev/attachstore/shared/api"
	"github.com/itchan-dev/attachstore/shared/utils"
)

// GetPublicConfig exposes upload limits so clients can check files before sending them.
func (h *Handler) GetPublicConfig(w http.ResponseWriter, r *http.Request) {
	allowed := h.cfg.Public.AllowedMimeTypes
	if allowed == nil {
		allowed = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, api.PublicConfigResponse{
		MaxFileCount:     h.cfg.Public.MaxFileCount,
		MaxFileSize:      h.cfg.Public.MaxFileSize,
		MaxFileSizeHuman: humanize.Bytes(uint64(h.cfg.Public.MaxFileSize)),
		AllowedMimeTypes: allowed,
	})
}
