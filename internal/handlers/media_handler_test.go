package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMediaStore struct {
	objects map[string][]byte

	uploadErr error
	deleted   []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: map[string][]byte{}}
}

func (s *fakeMediaStore) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	objectName := folder + "/" + header.Filename
	s.objects[objectName] = data
	return objectName, nil
}

func (s *fakeMediaStore) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.objects[objectName])), nil
}

func (s *fakeMediaStore) Delete(ctx context.Context, objectName string) error {
	s.deleted = append(s.deleted, objectName)
	delete(s.objects, objectName)
	return nil
}

func (s *fakeMediaStore) Exists(ctx context.Context, objectName string) (bool, error) {
	_, ok := s.objects[objectName]
	return ok, nil
}

func mediaApp(store MediaStore) *fiber.App {
	app := fiber.New()
	handler := NewMediaHandler(store)
	app.Post("/api/v1/admin/media", handler.Upload)
	app.Get("/api/v1/admin/media/*", handler.Download)
	app.Delete("/api/v1/admin/media/*", handler.Delete)
	return app
}

func multipartUpload(t *testing.T, filename, folder string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if folder != "" {
		require.NoError(t, writer.WriteField("folder", folder))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestMediaUploadStoresObject(t *testing.T) {
	store := newFakeMediaStore()
	app := mediaApp(store)

	body, contentType := multipartUpload(t, "boleto.pdf", "slips", []byte("%PDF-1.4"))
	req := httptest.NewRequest("POST", "/api/v1/admin/media", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, []byte("%PDF-1.4"), store.objects["slips/boleto.pdf"])
}

func TestMediaUploadRequiresFile(t *testing.T) {
	app := mediaApp(newFakeMediaStore())

	req := httptest.NewRequest("POST", "/api/v1/admin/media", bytes.NewReader(nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMediaUploadStorageFailure(t *testing.T) {
	store := newFakeMediaStore()
	store.uploadErr = assert.AnError
	app := mediaApp(store)

	body, contentType := multipartUpload(t, "photo.jpg", "", []byte{0xff, 0xd8})
	req := httptest.NewRequest("POST", "/api/v1/admin/media", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestMediaDownloadStreamsObject(t *testing.T) {
	store := newFakeMediaStore()
	store.objects["attachments/photo.jpg"] = []byte("jpeg-bytes")
	app := mediaApp(store)

	req := httptest.NewRequest("GET", "/api/v1/admin/media/attachments/photo.jpg", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestMediaDownloadMissingObject(t *testing.T) {
	app := mediaApp(newFakeMediaStore())

	req := httptest.NewRequest("GET", "/api/v1/admin/media/attachments/missing.jpg", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMediaDeleteRemovesObject(t *testing.T) {
	store := newFakeMediaStore()
	store.objects["attachments/old.jpg"] = []byte("x")
	app := mediaApp(store)

	req := httptest.NewRequest("DELETE", "/api/v1/admin/media/attachments/old.jpg", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"attachments/old.jpg"}, store.deleted)
	assert.Empty(t, store.objects)
}
