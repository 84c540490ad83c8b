package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

var adminCookie = &http.Cookie{Name: services.AuthCookieName, Value: testSecret}

func newTestApp(t *testing.T, store repository.KVStore) (*fiber.App, repository.MovieRepository) {
	t.Helper()

	log, _ := logtest.NewNullLogger()
	repo := repository.NewMovieRepository(store, "movies")
	svc := services.NewMovieService(repo, nil, log)
	auth := services.NewAuthService(func() config.AdminConfig {
		return config.AdminConfig{Username: "admin", Password: "pw", Secret: testSecret}
	})

	app := NewApp(config.ServerConfig{}, log)
	Setup(app,
		handlers.NewMovieHandler(svc, log),
		handlers.NewAdminHandler(svc, false, log),
		handlers.NewAuthHandler(auth, log),
		middleware.RequireAuth(auth, log),
	)
	return app, repo
}

func do(t *testing.T, app *fiber.App, method, path string, form url.Values, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func inceptionForm() url.Values {
	return url.Values{
		"title":       {"Inception"},
		"poster":      {"https://x/p.jpg"},
		"review":      {"Great"},
		"screenshots": {"https://x/1.jpg, https://x/2.jpg"},
		"downloadUrl": {"https://x/d.mp4"},
	}
}

func TestScenario_AddListAndDetail(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())

	resp, _ := do(t, app, http.MethodPost, "/admin/add", inceptionForm(), adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	resp, body := do(t, app, http.MethodGet, "/admin", nil, adminCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Inception")

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	id := movies[0].ID

	resp, body = do(t, app, http.MethodGet, "/movie/"+id, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `src="https://x/1.jpg"`)
	assert.Contains(t, body, `src="https://x/2.jpg"`)
	assert.Contains(t, body, `href="https://x/d.mp4"`)

	resp, body = do(t, app, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `href="/movie/`+id+`"`)
}

func TestScenario_CreatedRecordMatchesSubmission(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())

	resp, _ := do(t, app, http.MethodPost, "/admin/add", inceptionForm(), adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)

	got, err := repo.GetByID(context.Background(), movies[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Inception", got.Title)
	assert.Equal(t, "https://x/p.jpg", got.Poster)
	assert.Equal(t, "Great", got.Review)
	assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg"}, got.Screenshots)
	assert.Equal(t, "https://x/d.mp4", got.DownloadURL)
}

func TestScenario_MovieDoesNotExist(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	resp, body := do(t, app, http.MethodGet, "/movie/does-not-exist", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, strings.ToLower(body), "not found")
}

func TestUnmatchedRoute(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	for _, path := range []string{"/nope", "/movie", "/movie/a/b"} {
		resp, body := do(t, app, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "Not Found", body, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain", path)
	}

	resp, _ := do(t, app, http.MethodPost, "/", url.Values{}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminRequiresAuth(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())
	require.NoError(t, repo.Upsert(context.Background(), &models.Movie{ID: "m1", Title: "Kept"}))

	tests := []struct {
		method string
		path   string
		form   url.Values
	}{
		{http.MethodGet, "/admin", nil},
		{http.MethodGet, "/admin/", nil},
		{http.MethodGet, "/admin/add", nil},
		{http.MethodPost, "/admin/add", inceptionForm()},
		{http.MethodGet, "/admin/edit/m1", nil},
		{http.MethodPost, "/admin/edit/m1", inceptionForm()},
		{http.MethodPost, "/admin/delete/m1", url.Values{}},
		{http.MethodGet, "/admin/delete/m1", nil},
		{http.MethodGet, "/admin/unknown", nil},
	}

	for _, cookie := range []*http.Cookie{nil, {Name: services.AuthCookieName, Value: "wrong"}} {
		for _, tt := range tests {
			t.Run(tt.method+" "+tt.path, func(t *testing.T) {
				resp, _ := do(t, app, tt.method, tt.path, tt.form, cookie)
				assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
				assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
			})
		}
	}

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Kept", movies[0].Title)
}

func TestLoginAndLogoutAreReachableWithoutAuth(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	resp, body := do(t, app, http.MethodGet, "/admin/login", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="password"`)

	resp, _ = do(t, app, http.MethodGet, "/logout", nil, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestLogin_Success(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	resp, _ := do(t, app, http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"pw"}}, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	cookie := findCookie(resp, services.AuthCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, testSecret, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	resp, body := do(t, app, http.MethodGet, "/admin", nil, &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Manage Movies")

	resp, _ = do(t, app, http.MethodGet, "/admin/login", nil, adminCookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestLogin_BadCredentials(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	for _, form := range []url.Values{
		{"username": {"admin"}, "password": {"wrong"}},
		{"username": {"root"}, "password": {"pw"}},
		{},
	} {
		resp, _ := do(t, app, http.MethodPost, "/admin/login", form, nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/admin/login?error=1", resp.Header.Get("Location"))
		assert.Nil(t, findCookie(resp, services.AuthCookieName))
	}

	resp, body := do(t, app, http.MethodGet, "/admin/login?error=1", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password")
}

func TestLogout_ExpiresCookie(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	resp, _ := do(t, app, http.MethodGet, "/logout", nil, adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	cookie := findCookie(resp, services.AuthCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestEdit_ReplacesEveryField(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &models.Movie{
		ID:          "m1",
		Title:       "Inception",
		Poster:      "https://x/p.jpg",
		Review:      "Great",
		Screenshots: []string{"https://x/1.jpg"},
		DownloadURL: "https://x/d.mp4",
		CreatedAt:   created,
	}))

	resp, body := do(t, app, http.MethodGet, "/admin/edit/m1", nil, adminCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Inception"`)

	resp, _ = do(t, app, http.MethodPost, "/admin/edit/m1", url.Values{"title": {"Tenet"}, "screenshots": {"https://y/9.jpg"}}, adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	got, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "Tenet", got.Title)
	assert.Empty(t, got.Poster)
	assert.Empty(t, got.Review)
	assert.Equal(t, []string{"https://y/9.jpg"}, got.Screenshots)
	assert.Empty(t, got.DownloadURL)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestEdit_Missing(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())

	resp, _ := do(t, app, http.MethodGet, "/admin/edit/ghost", nil, adminCookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/admin/edit/ghost", url.Values{"title": {"X"}}, adminCookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}

func TestAdd_MissingTitle(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())

	resp, body := do(t, app, http.MethodPost, "/admin/add", url.Values{"review": {"no title"}}, adminCookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "title is required")

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestAdd_FormPage(t *testing.T) {
	app, _ := newTestApp(t, repository.NewMemoryStore())

	resp, body := do(t, app, http.MethodGet, "/admin/add", nil, adminCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/admin/add"`)
}

func TestDelete(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())
	require.NoError(t, repo.Upsert(context.Background(), &models.Movie{ID: "m1", Title: "Gone"}))

	resp, _ := do(t, app, http.MethodPost, "/admin/delete/m1", url.Values{}, adminCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	resp, _ = do(t, app, http.MethodGet, "/movie/m1", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/admin/delete/m1", url.Values{}, adminCookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestDelete_RejectsGet(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())
	require.NoError(t, repo.Upsert(context.Background(), &models.Movie{ID: "m1", Title: "Kept"}))

	resp, _ := do(t, app, http.MethodGet, "/admin/delete/m1", nil, adminCookie)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))

	_, err := repo.GetByID(context.Background(), "m1")
	assert.NoError(t, err)
}

// failingStore fails every operation.
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) Get(context.Context, string, string) ([]byte, error) { return nil, errStoreDown }
func (failingStore) Scan(context.Context, string) ([]repository.KVPair, error) {
	return nil, errStoreDown
}
func (failingStore) Set(context.Context, string, string, []byte) error { return errStoreDown }
func (failingStore) Delete(context.Context, string, string) error      { return errStoreDown }

func TestStoreFailureIsGenericServerError(t *testing.T) {
	app, _ := newTestApp(t, failingStore{})

	for _, path := range []string{"/", "/movie/m1"} {
		resp, body := do(t, app, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, "Internal Server Error", body, path)
	}

	resp, body := do(t, app, http.MethodPost, "/admin/add", inceptionForm(), adminCookie)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, body, "store unavailable")
}

func TestRenderedPagesEscapeRecordFields(t *testing.T) {
	app, repo := newTestApp(t, repository.NewMemoryStore())
	require.NoError(t, repo.Upsert(context.Background(), &models.Movie{
		ID:     "m1",
		Title:  `<script>alert(1)</script>`,
		Review: `<b>bold</b>`,
	}))

	for _, path := range []string{"/", "/movie/m1"} {
		_, body := do(t, app, http.MethodGet, path, nil, nil)
		assert.NotContains(t, body, "<script>alert(1)</script>", path)
	}
	_, body := do(t, app, http.MethodGet, "/admin", nil, adminCookie)
	assert.NotContains(t, body, "<script>alert(1)</script>")
}
