package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kanban-board/internal/auth"
	"kanban-board/internal/domain"
	"kanban-board/internal/repository"
	"kanban-board/internal/service"
)

const sessionCookieName = "kanban_session"

const (
	msgUsernameTaken = "Username already existed!"
	msgLoggedIn      = "Logged in successfully!"
	msgInvalidUser   = "Invalid username!"
	msgWrongPassword = "Incorrect password!"
	msgLoggedOut     = "Logged out successfully!"
	ctxUsernameKey   = "username"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	tasks      service.TaskService
	sessions   *auth.SessionManager
	sessionTTL time.Duration
	logger     *logrus.Logger
}

func NewHandler(users service.UserService, tasks service.TaskService, sessions *auth.SessionManager, sessionTTL time.Duration, logger *logrus.Logger) *Handler {
	return &Handler{
		users:      users,
		tasks:      tasks,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/signup", h.signupPage)
	router.POST("/signup", h.signup)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)

	router.GET("/", h.board)

	authed := router.Group("/", h.requireUser())
	{
		authed.POST("/add", h.addTask)
		authed.GET("/task/:id/:status", h.changeStatus)
		authed.GET("/task/:id", h.deleteTask)
		authed.POST("/task/:id", h.deleteTask)
		authed.DELETE("/task/:id", h.deleteTask)
	}
}

// requireUser rejects requests without a valid session. Task mutations get
// a bare 401 rather than a login redirect, matching the upstream behavior.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := h.currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(ctxUsernameKey, username)
		c.Next()
	}
}

func (h *Handler) currentUser(c *gin.Context) (string, bool) {
	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	username, err := h.sessions.Verify(token)
	if err != nil {
		return "", false
	}
	return username, true
}

func (h *Handler) signupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Flashes": consumeFlashes(c)})
}

func (h *Handler) signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.users.Register(c.Request.Context(), username, password)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.HTML(http.StatusOK, "signup.html", gin.H{"Flashes": []string{msgUsernameTaken}})
	default:
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"Flashes": []string{err.Error()}})
	}
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Flashes": consumeFlashes(c)})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	switch {
	case err == nil:
		token, signErr := h.sessions.Issue(user.Username)
		if signErr != nil {
			h.logger.WithError(signErr).Error("issue session token")
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
		c.SetCookie(sessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
		addFlash(c, msgLoggedIn)
	case errors.Is(err, service.ErrUnknownUsername):
		addFlash(c, msgInvalidUser)
	case errors.Is(err, service.ErrWrongPassword):
		addFlash(c, msgWrongPassword)
	default:
		h.logger.WithError(err).Error("authenticate user")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// logout clears the session cookie; safe to call while already anonymous.
func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	addFlash(c, msgLoggedOut)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) board(c *gin.Context) {
	username, ok := h.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	board, err := h.tasks.Board(c.Request.Context(), username)
	if err != nil {
		h.logger.WithError(err).Error("assemble board")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"User":    username,
		"ToDo":    board.ToDo,
		"Doing":   board.Doing,
		"Done":    board.Done,
		"Flashes": consumeFlashes(c),
	})
}

func (h *Handler) addTask(c *gin.Context) {
	username := c.GetString(ctxUsernameKey)

	if _, err := h.tasks.CreateTask(c.Request.Context(), username, c.PostForm("task")); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) changeStatus(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	err := h.tasks.UpdateStatus(c.Request.Context(), id, domain.TaskStatus(c.Param("status")))
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, service.ErrInvalidStatus):
		c.String(http.StatusBadRequest, "invalid task status")
	case errors.Is(err, repository.ErrNotFound):
		c.Status(http.StatusNotFound)
	default:
		h.logger.WithError(err).Error("change task status")
		c.String(http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), id)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, repository.ErrNotFound):
		c.Status(http.StatusNotFound)
	default:
		h.logger.WithError(err).Error("delete task")
		c.String(http.StatusInternalServerError, "internal error")
	}
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}
