package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Yash-Soni1/vectra-backend/config"
	"github.com/Yash-Soni1/vectra-backend/internal/auth"
	"github.com/Yash-Soni1/vectra-backend/internal/handler"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/Yash-Soni1/vectra-backend/internal/storage"
	"github.com/Yash-Soni1/vectra-backend/router"
	"github.com/Yash-Soni1/vectra-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type mailRecorder struct {
	links []string
}

func (r *mailRecorder) send(to, link string) error {
	r.links = append(r.links, link)
	return nil
}

func newTestServer(t *testing.T) (*gin.Engine, *mailRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"

	files := metadata.NewMemoryStore()
	folders := metadata.NewMemoryFolderStore()
	blobs := storage.NewMemoryBlobStore()
	mails := &mailRecorder{}

	provider := auth.NewLocalProvider(auth.NewMemoryUserStore(), utils.NewMemoryCache(), mails.send, "http://localhost:5000")
	fileSvc := service.NewFileService(files, blobs, "files-test", nil, nil)
	folderSvc := service.NewFolderService(folders, files)

	r := router.New(provider, handler.NewFileHandler(fileSvc), handler.NewFolderHandler(folderSvc))
	return r, mails
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// signUpAndLogin walks a fresh user through signup, verification and login
// and returns their access token.
func signUpAndLogin(t *testing.T, r *gin.Engine, mails *mailRecorder, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "hunter22"}

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NotEmpty(t, mails.links)
	link := mails.links[len(mails.links)-1]
	token := strings.Split(link, "token=")[1]
	w = doJSON(t, r, http.MethodGet, "/api/auth/verify?token="+token, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Session struct {
			AccessToken string `json:"access_token"`
		} `json:"session"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Session.AccessToken)
	return login.Session.AccessToken
}

func uploadFile(t *testing.T, r *gin.Engine, token, name, folderID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("contents of " + name))
	require.NoError(t, err)
	if folderID != "" {
		require.NoError(t, mw.WriteField("folder_id", folderID))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createFolder makes a folder and looks its id up from the root listing,
// since the create endpoint only returns a confirmation.
func createFolder(t *testing.T, r *gin.Engine, token, name string) uint64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/folders", token, map[string]interface{}{"name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Message string `json:"message"`
	}
	decode(t, w, &created)
	require.Equal(t, "Folder created", created.Message)

	w = doJSON(t, r, http.MethodGet, "/api/folders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var folders []struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	decode(t, w, &folders)
	for _, f := range folders {
		if f.Name == name {
			return f.ID
		}
	}
	t.Fatalf("folder %q not in listing", name)
	return 0
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/files", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var payload struct {
		Error string `json:"error"`
	}
	decode(t, w, &payload)
	require.NotEmpty(t, payload.Error)

	w = doJSON(t, r, http.MethodGet, "/api/files", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFileLifecycle(t *testing.T) {
	r, mails := newTestServer(t)
	token := signUpAndLogin(t, r, mails, "alice@example.com")

	// create a folder to upload into
	folderID := createFolder(t, r, token, "Docs")

	w := uploadFile(t, r, token, "report.pdf", fmt.Sprint(folderID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var uploaded struct {
		Message string `json:"message"`
		Path    string `json:"path"`
	}
	decode(t, w, &uploaded)
	require.Equal(t, "File uploaded successfully", uploaded.Message)
	require.True(t, strings.HasSuffix(uploaded.Path, ".pdf"))

	// root listing does not include the nested file
	w = doJSON(t, r, http.MethodGet, "/api/files", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rootList struct {
		Total int64 `json:"total"`
	}
	decode(t, w, &rootList)
	require.Zero(t, rootList.Total)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/files?folderId=%d", folderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var folderList struct {
		Total int64 `json:"total"`
		Files []struct {
			ID   uint64 `json:"id"`
			Name string `json:"name"`
		} `json:"files"`
	}
	decode(t, w, &folderList)
	require.Equal(t, int64(1), folderList.Total)
	require.Equal(t, "report.pdf", folderList.Files[0].Name)
	fileID := folderList.Files[0].ID

	// search is folder-scoped; the root level has no match
	w = doJSON(t, r, http.MethodGet, "/api/files/search?q=rep", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []struct {
		Name string `json:"name"`
	}
	decode(t, w, &found)
	require.Empty(t, found)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/files/search?q=rep&folderId=%d", folderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &found)
	require.Len(t, found, 1)
	require.Equal(t, "report.pdf", found[0].Name)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/files/download/%d", fileID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var link struct {
		URL string `json:"url"`
	}
	decode(t, w, &link)
	require.NotEmpty(t, link.URL)

	// folder cannot go while the file is inside
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/folders/%d", folderID), token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var conflict struct {
		Error string `json:"error"`
	}
	decode(t, w, &conflict)
	require.Equal(t, "Folder not empty (contains files).", conflict.Error)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/files/%d", fileID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/files/%d", fileID), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/folders/%d", folderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gone struct {
		Message string `json:"message"`
	}
	decode(t, w, &gone)
	require.Equal(t, "Folder deleted", gone.Message)
}

func TestUploadWithoutFile(t *testing.T) {
	r, mails := newTestServer(t)
	token := signUpAndLogin(t, r, mails, "bob@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("folder_id", "1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var payload struct {
		Error string `json:"error"`
	}
	decode(t, w, &payload)
	require.Equal(t, "No file uploaded", payload.Error)
}

func TestListFallsBackOnBadPagination(t *testing.T) {
	r, mails := newTestServer(t)
	token := signUpAndLogin(t, r, mails, "carol@example.com")

	for i := 0; i < 12; i++ {
		w := uploadFile(t, r, token, fmt.Sprintf("f-%02d.txt", i), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/files?limit=abc&offset=xyz", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total  int64 `json:"total"`
		Limit  int   `json:"limit"`
		Offset int   `json:"offset"`
		Files  []struct {
			Name string `json:"name"`
		} `json:"files"`
	}
	decode(t, w, &list)
	require.Equal(t, int64(12), list.Total)
	require.Equal(t, 10, list.Limit)
	require.Equal(t, 0, list.Offset)
	require.Len(t, list.Files, 10)
}

func TestOwnersAreIsolated(t *testing.T) {
	r, mails := newTestServer(t)
	aliceToken := signUpAndLogin(t, r, mails, "alice@example.com")
	bobToken := signUpAndLogin(t, r, mails, "bob@example.com")

	w := uploadFile(t, r, aliceToken, "secret.txt", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/files", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int64 `json:"total"`
	}
	decode(t, w, &list)
	require.Zero(t, list.Total)

	// alice's file id is 1; bob gets a 404, not a 403
	w = doJSON(t, r, http.MethodGet, "/api/files/download/1", bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/files/1", bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchRequiresQuery(t *testing.T) {
	r, mails := newTestServer(t)
	token := signUpAndLogin(t, r, mails, "dave@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/files/search", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var payload struct {
		Error string `json:"error"`
	}
	decode(t, w, &payload)
	require.Equal(t, "Search query is required", payload.Error)
}

func TestFolderRename(t *testing.T) {
	r, mails := newTestServer(t)
	token := signUpAndLogin(t, r, mails, "erin@example.com")

	folderID := createFolder(t, r, token, "Old")

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/folders/%d", folderID), token, map[string]string{"name": "New"})
	require.Equal(t, http.StatusOK, w.Code)
	var renamed struct {
		Message string `json:"message"`
	}
	decode(t, w, &renamed)
	require.Equal(t, "Folder renamed", renamed.Message)

	w = doJSON(t, r, http.MethodGet, "/api/folders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var folders []struct {
		Name string `json:"name"`
	}
	decode(t, w, &folders)
	require.Len(t, folders, 1)
	require.Equal(t, "New", folders[0].Name)

	w = doJSON(t, r, http.MethodPatch, "/api/folders/9999", token, map[string]string{"name": "New"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeReturnsCurrentUser(t *testing.T) {
	r, mails := newTestServer(t)
	token := signUpAndLogin(t, r, mails, "frank@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, w, &me)
	require.Equal(t, "frank@example.com", me.User.Email)
}
