package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gallery/internal/database"
	"gallery/internal/domain/auth"
	imgdomain "gallery/internal/domain/image"
	"gallery/internal/middleware"
	jwtsvc "gallery/internal/pkg/jwt"
	"gallery/internal/storage"
	"gallery/internal/thumbnail"
)

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type suite struct {
	router    *gin.Engine
	imagesDir string
	thumbsDir string
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.AutoMigrate(&auth.User{}, &imgdomain.Image{}))

	imagesDir := t.TempDir()
	thumbsDir := t.TempDir()
	backend := storage.NewLocal(imagesDir, thumbsDir)

	j := jwtsvc.New("e2e-test-secret", time.Hour)
	zlog := zap.NewNop()

	authHandler := auth.NewHandler(auth.NewService(auth.NewRepository(db), j))

	thumbs := thumbnail.New(100, thumbnail.ModeFit, 80)
	imageService := imgdomain.NewService(imgdomain.NewRepository(db), backend, thumbs, zlog)
	imageHandler := imgdomain.NewHandler(imageService, 5*1024*1024)

	r := gin.New()
	v1 := r.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.Auth(j))
	auth.RegisterRoutes(v1, protected, authHandler)
	imgdomain.RegisterRoutes(v1, protected, imageHandler)

	return &suite{router: r, imagesDir: imagesDir, thumbsDir: thumbsDir}
}

func (s *suite) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, resp
}

func (s *suite) registerAndLogin(t *testing.T) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "secret123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w, resp := s.do(t, req)
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func pngPayload(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, token, title, tags string, payload []byte, contentType string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="upload.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("description", "uploaded during e2e"))
	if tags != "" {
		require.NoError(t, mw.WriteField("tags", tags))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func dirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestUploadFetchDeleteRoundTrip(t *testing.T) {
	s := setupSuite(t)
	token := s.registerAndLogin(t)

	// Upload.
	w, resp := s.do(t, multipartUpload(t, token, "Harbor at dawn", `["harbor","dawn"]`, pngPayload(t, 320, 240), "image/png"))
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	require.True(t, resp.Success)

	id := int64(resp.Data["id"].(float64))
	url, _ := resp.Data["url"].(string)
	thumbnailURL, _ := resp.Data["thumbnailUrl"].(string)
	assert.Contains(t, url, "/images/")
	assert.Contains(t, thumbnailURL, "/thumbnails/")

	// Both assets exist on disk.
	assert.FileExists(t, filepath.Join(s.imagesDir, filepath.Base(url)))
	assert.FileExists(t, filepath.Join(s.thumbsDir, filepath.Base(thumbnailURL)))

	// Fetch by id: metadata round-trips, dimensions are decoder-derived.
	w, resp = s.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/images/%d", id), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Harbor at dawn", resp.Data["title"])
	assert.Equal(t, "uploaded during e2e", resp.Data["description"])
	assert.Equal(t, []interface{}{"harbor", "dawn"}, resp.Data["tags"])
	assert.Equal(t, float64(320), resp.Data["width"])
	assert.Equal(t, float64(240), resp.Data["height"])

	// Listing contains the image.
	w1 := httptest.NewRecorder()
	s.router.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/api/v1/images", nil))
	require.Equal(t, http.StatusOK, w1.Code)
	assert.Contains(t, w1.Body.String(), "Harbor at dawn")

	// Delete removes record and both assets.
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/images/%d", id), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, _ = s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, dirEntries(t, s.imagesDir))
	assert.Zero(t, dirEntries(t, s.thumbsDir))

	// Second delete reports NOT_FOUND, never a second success.
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/images/%d", id), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, resp = s.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	// So does a subsequent fetch.
	w, _ = s.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/images/%d", id), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadCommaSeparatedTags(t *testing.T) {
	s := setupSuite(t)
	token := s.registerAndLogin(t)

	w, resp := s.do(t, multipartUpload(t, token, "Tagged", "a, b, c", pngPayload(t, 20, 20), "image/png"))
	require.Equal(t, http.StatusCreated, w.Code)

	id := int64(resp.Data["id"].(float64))
	w, resp = s.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/images/%d", id), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"a", "b", "c"}, resp.Data["tags"])
}

func TestUploadRejectsNonImage(t *testing.T) {
	s := setupSuite(t)
	token := s.registerAndLogin(t)

	w, resp := s.do(t, multipartUpload(t, token, "Not an image", "", []byte("plain text payload"), "text/plain"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_FILE_TYPE", resp.Error.Code)

	// Nothing was stored and nothing was recorded.
	assert.Zero(t, dirEntries(t, s.imagesDir))
	assert.Zero(t, dirEntries(t, s.thumbsDir))
	w1 := httptest.NewRecorder()
	s.router.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/api/v1/images", nil))
	assert.Equal(t, `{"data":[],"success":true}`, w1.Body.String())
}

func TestUploadRequiresTitle(t *testing.T) {
	s := setupSuite(t)
	token := s.registerAndLogin(t)

	w, resp := s.do(t, multipartUpload(t, token, "", "", pngPayload(t, 20, 20), "image/png"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Zero(t, dirEntries(t, s.imagesDir))
}

func TestUploadRequiresAuth(t *testing.T) {
	s := setupSuite(t)

	req := multipartUpload(t, "", "No token", "", pngPayload(t, 20, 20), "image/png")
	req.Header.Del("Authorization")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := setupSuite(t)
	s.registerAndLogin(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "tester@example.com",
		"password": "secret123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w, resp := s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, resp = s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	user, _ := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, "tester@example.com", user["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	s := setupSuite(t)
	s.registerAndLogin(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "tester@example.com",
		"password": "wrong",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w, resp := s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}
