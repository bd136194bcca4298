package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medpredict/internal/domain"
	"medpredict/internal/model"
	"medpredict/internal/pipeline"
	"medpredict/internal/service"
	"medpredict/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	sessions   *session.Manager
	anemia     *pipeline.Anemia
	brain      *pipeline.Brain
	diabetes   *pipeline.Diabetes
	sessionTTL time.Duration
	logger     *logrus.Logger
}

func NewHandler(users service.UserService, sessions *session.Manager, reg *model.Registry, sessionTTL time.Duration, logger *logrus.Logger) *Handler {
	return &Handler{
		users:      users,
		sessions:   sessions,
		anemia:     pipeline.NewAnemia(reg),
		brain:      pipeline.NewBrain(reg),
		diabetes:   pipeline.NewDiabetes(reg),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/", h.registerForm)
	router.POST("/", h.register)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)

	authed := router.Group("/", session.RequireSession(h.sessions))
	{
		authed.GET("/main_menu", h.mainMenu)
		authed.GET("/anemia", h.anemiaForm)
		authed.POST("/anemia", h.predictAnemia)
		authed.GET("/brain", h.brainForm)
		authed.POST("/brain", h.predictBrain)
		authed.GET("/diabetes", h.diabetesForm)
		authed.POST("/diabetes", h.predictDiabetes)
	}
}

func (h *Handler) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.users.Register(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			c.HTML(http.StatusConflict, "register.html", gin.H{"Error": "Username already exists. Please choose another."})
			return
		}
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid username or password"})
			return
		}
		h.logger.WithError(err).Error("authenticate user")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Something went wrong. Please try again."})
		return
	}

	token := h.sessions.Issue(user.ID)
	c.SetCookie(session.CookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/main_menu")
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil {
		h.sessions.Revoke(token)
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) mainMenu(c *gin.Context) {
	c.HTML(http.StatusOK, "main_menu.html", gin.H{})
}

func (h *Handler) anemiaForm(c *gin.Context) {
	c.HTML(http.StatusOK, "anemia.html", gin.H{})
}

func (h *Handler) predictAnemia(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderPredictionError(c, fmt.Errorf("%w: %v", pipeline.ErrInvalidInput, err))
		return
	}
	result, err := h.anemia.Predict(c.Request.PostForm)
	if err != nil {
		h.renderPredictionError(c, err)
		return
	}
	h.renderResult(c, result)
}

func (h *Handler) brainForm(c *gin.Context) {
	c.HTML(http.StatusOK, "brain.html", gin.H{})
}

func (h *Handler) predictBrain(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.renderPredictionError(c, fmt.Errorf("%w: image upload is required", pipeline.ErrInvalidInput))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.renderPredictionError(c, fmt.Errorf("%w: read upload: %v", pipeline.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	result, err := h.brain.Predict(file)
	if err != nil {
		h.renderPredictionError(c, err)
		return
	}
	h.renderResult(c, result)
}

func (h *Handler) diabetesForm(c *gin.Context) {
	c.HTML(http.StatusOK, "diabetes.html", gin.H{})
}

func (h *Handler) predictDiabetes(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderPredictionError(c, fmt.Errorf("%w: %v", pipeline.ErrInvalidInput, err))
		return
	}
	result, err := h.diabetes.Predict(c.Request.PostForm)
	if err != nil {
		h.renderPredictionError(c, err)
		return
	}
	h.renderResult(c, result)
}

func (h *Handler) renderResult(c *gin.Context, result *domain.PredictionResult) {
	data := gin.H{
		"Label": result.Label,
		"Color": result.Color,
	}
	if result.Probability != nil {
		data["Probability"] = fmt.Sprintf("%.2f", *result.Probability)
	}
	c.HTML(http.StatusOK, "result.html", data)
}

// renderPredictionError maps pipeline failures to status codes: caller
// mistakes get 400 with the validation message, everything else gets 500
// with a generic message and the detail only in the log.
func (h *Handler) renderPredictionError(c *gin.Context, err error) {
	if errors.Is(err, pipeline.ErrInvalidInput) {
		c.HTML(http.StatusBadRequest, "result.html", gin.H{
			"Label": err.Error(),
			"Color": pipeline.ColorRed,
		})
		return
	}

	h.logger.WithError(err).Error("prediction failed")
	c.HTML(http.StatusInternalServerError, "result.html", gin.H{
		"Label": "Prediction service is unavailable. Please try again later.",
		"Color": pipeline.ColorRed,
	})
}
