package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newFileHeader builds a real multipart file header of the given size by
// parsing a form the way the HTTP stack would.
func newFileHeader(t *testing.T, name string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", name)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })

	headers := req.MultipartForm.File["files"]
	require.Len(t, headers, 1)
	return headers[0]
}

func TestReadUploadKeepsFullPayload(t *testing.T) {
	header := newFileHeader(t, "sunset.jpg", 1024)

	file, err := readUpload(header)
	require.NoError(t, err)
	assert.Equal(t, "sunset.jpg", file.Name)
	assert.Len(t, file.Data, 1024)
}

func TestReadUploadRejectsOversizedFile(t *testing.T) {
	header := newFileHeader(t, "huge.jpg", maxUploadSize+1024)

	_, err := readUpload(header)
	assert.ErrorIs(t, err, errUploadTooLarge)
}
