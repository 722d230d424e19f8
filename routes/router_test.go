package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rixeldev/studio-api/config"
	"github.com/rixeldev/studio-api/models"
	"github.com/rixeldev/studio-api/storage"
	"github.com/rixeldev/studio-api/utils"
)

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "studio-api-test")
	if err != nil {
		panic(err)
	}

	os.Setenv("ADMIN_SESSION_SECRET", "test-session-secret")
	os.Setenv("PIN_HASH_SECRET", "test-pin-secret")
	os.Setenv("ADMIN_USERNAME", "admin")
	os.Setenv("ADMIN_PASSWORD", "admin-password")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("GIN_PATH", filepath.Join(tmp, "gin.log"))
	os.Setenv("LOG_PATH", filepath.Join(tmp, "app.log"))
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Gallery{}, &models.Photo{}, &models.Selection{}, &models.Project{}))

	store, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	return &testServer{router: SetupRouter(db, store), db: db}
}

// do sends a request carrying the cookies collected so far and keeps any
// cookies the response sets.
func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/admin/login", gin.H{
		"username": "admin",
		"password": "admin-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *testServer) createGallery(t *testing.T, title string) (galleryID, pin string) {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/admin/galleries", gin.H{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	gallery := body["gallery"].(map[string]any)
	return gallery["id"].(string), body["pin"].(string)
}

func (s *testServer) uploadPhotos(t *testing.T, galleryID string, names ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("binary-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/galleries/"+galleryID+"/photos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return s.do(t, req)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := s.do(t, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := s.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found."}`, w.Body.String())
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/admin/galleries", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/api/admin/galleries", gin.H{"title": "X"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Username and password are required."}`, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials."}`, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/api/admin/login", gin.H{"username": "someone", "password": "admin-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/admin/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login(t)

	w = s.doJSON(t, http.MethodGet, "/api/admin/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"admin"}`, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/api/admin/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.doJSON(t, http.MethodGet, "/api/admin/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateGalleryRequiresTitle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.doJSON(t, http.MethodPost, "/api/admin/galleries", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Title is required."}`, w.Body.String())
}

func TestUploadRequiresFiles(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	galleryID, _ := s.createGallery(t, "Empty")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/galleries/"+galleryID+"/photos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"At least one file must be provided."}`, w.Body.String())
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	galleryID, _ := s.createGallery(t, "Huge")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "huge.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), 50*1024*1024+1024))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/galleries/"+galleryID+"/photos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := s.do(t, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"message":"File exceeds the 50MB upload limit."}`, w.Body.String())

	// nothing was stored
	w = s.doJSON(t, http.MethodGet, "/api/admin/galleries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := decodeBody(t, w)["data"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(0), overview["photoCount"])
}

func TestGalleryAccessFlow(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	galleryID, pin := s.createGallery(t, "Boda María")

	w := s.uploadPhotos(t, galleryID, "sunset.jpg", "dunes.jpg")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	uploaded := decodeBody(t, w)["photos"].([]any)
	require.Len(t, uploaded, 2)

	// overview reflects the uploads
	w = s.doJSON(t, http.MethodGet, "/api/admin/galleries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]any)
	require.Len(t, data, 1)
	overview := data[0].(map[string]any)
	assert.Equal(t, float64(2), overview["photoCount"])
	assert.NotContains(t, w.Body.String(), "pin_hash")

	// wrong PIN rejected
	w = s.doJSON(t, http.MethodPost, "/api/gallery/access", gin.H{"pin": "999999"})
	if w.Code != http.StatusUnauthorized {
		// astronomically unlikely collision with the generated PIN
		t.Fatalf("expected 401 for wrong pin, got %d", w.Code)
	}
	assert.JSONEq(t, `{"message":"Invalid PIN."}`, w.Body.String())

	// correct PIN opens the gallery
	w = s.doJSON(t, http.MethodPost, "/api/gallery/access", gin.H{"pin": pin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	gallery := body["gallery"].(map[string]any)
	assert.Equal(t, galleryID, gallery["id"])
	assert.Len(t, body["photos"].([]any), 2)
	assert.Empty(t, body["selectedCodes"].([]any))

	// selection keeps only codes matching uploaded photos
	w = s.doJSON(t, http.MethodPost, "/api/gallery/selection", gin.H{
		"pin":           pin,
		"galleryId":     galleryID,
		"selectedCodes": []string{"sunset", "ghost"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	require.Len(t, body["selectedCodes"].([]any), 1)
	assert.Equal(t, "sunset", body["selectedCodes"].([]any)[0])

	// selection survives re-access
	w = s.doJSON(t, http.MethodPost, "/api/gallery/access", gin.H{"pin": pin})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Len(t, body["selectedCodes"].([]any), 1)
}

func TestAccessValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodPost, "/api/gallery/access", gin.H{"pin": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"PIN is required."}`, w.Body.String())
}

func TestSelectionValidation(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	_, pin := s.createGallery(t, "Validation")

	w := s.doJSON(t, http.MethodPost, "/api/gallery/selection", gin.H{"pin": pin})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"PIN and galleryId are required."}`, w.Body.String())

	// PIN of one gallery cannot write selections of another
	otherID, _ := s.createGallery(t, "Other")
	w = s.doJSON(t, http.MethodPost, "/api/gallery/selection", gin.H{
		"pin":           pin,
		"galleryId":     otherID,
		"selectedCodes": []string{"a"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid PIN or gallery ID."}`, w.Body.String())
}

func TestDeletePhoto(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	galleryID, _ := s.createGallery(t, "Deletes")

	w := s.uploadPhotos(t, galleryID, "sunset.jpg")
	require.Equal(t, http.StatusCreated, w.Code)
	photo := decodeBody(t, w)["photos"].([]any)[0].(map[string]any)
	photoID := photo["id"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/galleries/"+galleryID+"/photos/"+photoID, nil)
	w = s.do(t, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/galleries/"+galleryID+"/photos/"+photoID, nil)
	w = s.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Photo not found."}`, w.Body.String())
}

func TestListProjects(t *testing.T) {
	s := newTestServer(t)

	require.NoError(t, s.db.Create(&models.Project{
		Slug:      "weddings",
		Title:     "Weddings",
		SortOrder: 1,
	}).Error)
	require.NoError(t, s.db.Create(&models.Project{
		Slug:      "portraits",
		Title:     "Portraits",
		SortOrder: 2,
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	w := s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "weddings", data[0].(map[string]any)["slug"])
}

func TestServedFiles(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	galleryID, _ := s.createGallery(t, "Files")

	w := s.uploadPhotos(t, galleryID, "sunset.jpg")
	require.Equal(t, http.StatusCreated, w.Code)
	photo := decodeBody(t, w)["photos"].([]any)[0].(map[string]any)
	url := photo["public_url"].(string)
	require.True(t, strings.HasPrefix(url, "/files/"), "got %q", url)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	w = s.do(t, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "binary-sunset.jpg", w.Body.String())
}