package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/attachstore/shared/config"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	name        string
	contentType string
	content     []byte
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		MaxFileCount:     2,
		MaxFileSize:      5000,
		AllowedMimeTypes: []string{"image/png", "text/plain"},
	}}
}

func newTestHandler(service *MockMessageService) *Handler {
	return New(service, testConfig(), &MockHealthChecker{})
}

// serve routes the request through chi so URL params resolve.
func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/v1/messages", h.CreateMessage)
	r.Get("/v1/messages/{message}", h.GetMessage)
	r.Delete("/v1/messages/{message}", h.DeleteMessage)
	r.Get("/v1/messages/{message}/attachments/{uid}", h.DownloadAttachment)
	r.Get("/v1/public_config", h.GetPublicConfig)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func multipartRequest(t *testing.T, jsonPayload string, files ...testFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if jsonPayload != "" {
		require.NoError(t, mw.WriteField("json", jsonPayload))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="attachments"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
