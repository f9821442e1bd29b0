package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-board/internal/auth"
	"kanban-board/internal/repository/sqlite"
	"kanban-board/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, taskRepo.Init(ctx))

	key, err := auth.NewSessionKey()
	require.NoError(t, err)
	sessions := auth.NewSessionManager(key, time.Hour)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.LoadHTMLGlob("../../web/templates/*.html")

	handler := NewHandler(
		service.NewUserService(userRepo),
		service.NewTaskService(taskRepo),
		sessions,
		time.Hour,
		logger,
	)
	handler.RegisterRoutes(router)
	return router
}

// testClient replays cookies across requests the way a browser would.
type testClient struct {
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(router *gin.Engine) *testClient {
	return &testClient{router: router, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *testClient) signup(t *testing.T, username, password string) {
	t.Helper()
	w := c.do(http.MethodPost, "/signup", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
}

func (c *testClient) login(t *testing.T, username, password string) {
	t.Helper()
	w := c.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Contains(t, c.cookies, sessionCookieName)
}

func TestSignupAndLoginPagesRender(t *testing.T) {
	client := newTestClient(newTestRouter(t))

	w := client.do(http.MethodGet, "/signup", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign up")

	w = client.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log in")
}

func TestSignupDuplicateUsername(t *testing.T) {
	client := newTestClient(newTestRouter(t))
	client.signup(t, "admin", "password")

	w := client.do(http.MethodPost, "/signup", url.Values{"username": {"admin"}, "password": {"other"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username already existed!")

	// the first registration still wins
	client.login(t, "admin", "password")
}

func TestLoginMessages(t *testing.T) {
	router := newTestRouter(t)

	t.Run("unknown username", func(t *testing.T) {
		client := newTestClient(router)
		w := client.do(http.MethodPost, "/login", url.Values{"username": {"nobody"}, "password": {"x"}})
		require.Equal(t, http.StatusFound, w.Code)
		assert.NotContains(t, client.cookies, sessionCookieName)

		w = client.do(http.MethodGet, "/login", nil)
		assert.Contains(t, w.Body.String(), "Invalid username!")
	})

	t.Run("wrong password", func(t *testing.T) {
		client := newTestClient(router)
		client.signup(t, "admin", "password")
		w := client.do(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
		require.Equal(t, http.StatusFound, w.Code)
		assert.NotContains(t, client.cookies, sessionCookieName)

		w = client.do(http.MethodGet, "/login", nil)
		assert.Contains(t, w.Body.String(), "Incorrect password!")
	})

	t.Run("success", func(t *testing.T) {
		client := newTestClient(router)
		client.signup(t, "carol", "password")
		client.login(t, "carol", "password")

		w := client.do(http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Logged in successfully!")
		assert.Contains(t, w.Body.String(), "carol")
	})
}

func TestBoardRequiresLogin(t *testing.T) {
	client := newTestClient(newTestRouter(t))

	w := client.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	client := newTestClient(newTestRouter(t))
	client.signup(t, "admin", "password")
	client.login(t, "admin", "password")

	w := client.do(http.MethodGet, "/logout", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.NotContains(t, client.cookies, sessionCookieName)

	w = client.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusFound, w.Code)

	w = client.do(http.MethodGet, "/login", nil)
	assert.Contains(t, w.Body.String(), "Logged out successfully!")

	// idempotent while anonymous
	w = client.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestMutationsRequireSession(t *testing.T) {
	client := newTestClient(newTestRouter(t))

	w := client.do(http.MethodPost, "/add", url.Values{"task": {"x"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = client.do(http.MethodGet, "/task/1/done", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = client.do(http.MethodDelete, "/task/1", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangeStatusErrors(t *testing.T) {
	client := newTestClient(newTestRouter(t))
	client.signup(t, "admin", "password")
	client.login(t, "admin", "password")

	w := client.do(http.MethodGet, "/task/999/done", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = client.do(http.MethodPost, "/add", url.Values{"task": {"a task"}})
	require.Equal(t, http.StatusFound, w.Code)

	w = client.do(http.MethodGet, "/task/1/archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = client.do(http.MethodGet, "/task/abc/done", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTaskErrors(t *testing.T) {
	client := newTestClient(newTestRouter(t))
	client.signup(t, "admin", "password")
	client.login(t, "admin", "password")

	w := client.do(http.MethodGet, "/task/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = client.do(http.MethodPost, "/add", url.Values{"task": {"short lived"}})
	require.Equal(t, http.StatusFound, w.Code)

	w = client.do(http.MethodDelete, "/task/1", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = client.do(http.MethodDelete, "/task/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddTaskRejectsEmptyText(t *testing.T) {
	client := newTestClient(newTestRouter(t))
	client.signup(t, "admin", "password")
	client.login(t, "admin", "password")

	w := client.do(http.MethodPost, "/add", url.Values{"task": {"  "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndToEndFlow(t *testing.T) {
	client := newTestClient(newTestRouter(t))

	client.signup(t, "admin", "password")
	client.login(t, "admin", "password")

	w := client.do(http.MethodPost, "/add", url.Values{"task": {"Write tests"}})
	require.Equal(t, http.StatusFound, w.Code)

	// the new task lands in the to_do column
	body := client.do(http.MethodGet, "/", nil).Body.String()
	require.Contains(t, body, "Write tests")
	assert.Less(t, strings.Index(body, "Write tests"), strings.Index(body, "<h2>Doing</h2>"))

	w = client.do(http.MethodGet, "/task/1/done", nil)
	require.Equal(t, http.StatusFound, w.Code)

	body = client.do(http.MethodGet, "/", nil).Body.String()
	require.Contains(t, body, "Write tests")
	assert.Greater(t, strings.Index(body, "Write tests"), strings.Index(body, "<h2>Done</h2>"))

	w = client.do(http.MethodGet, "/task/1", nil)
	require.Equal(t, http.StatusFound, w.Code)

	body = client.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "Write tests")
}
