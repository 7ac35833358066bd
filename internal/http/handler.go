package http

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-cms/internal/service"
	"blog-cms/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	posts     service.PostService
	objects   storage.Service
	bucket    string
	keyPrefix string
	logger    logrus.FieldLogger
	pages     *template.Template
}

// NewHandler builds the handler. objects may be nil when the snapshot mirror
// is disabled.
func NewHandler(users service.UserService, posts service.PostService, objects storage.Service, bucket, keyPrefix string, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	setupValidator()
	return &Handler{
		users:     users,
		posts:     posts,
		objects:   objects,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		logger:    logger,
		pages:     parsePages(),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), accessLog(h.logger), cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	router.SetHTMLTemplate(h.pages)

	api := router.Group("/api")
	{
		api.POST("/users", h.createUser)
		api.GET("/users", h.listUsers)
		api.GET("/users/:id", h.getUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)

		api.POST("/posts", h.createPost)
		api.GET("/posts", h.listPosts)
		api.GET("/posts/:id", h.getPost)
		api.PUT("/posts/:id", h.updatePost)
		api.DELETE("/posts/:id", h.deletePost)

		api.GET("/backups", h.listBackups)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	router.GET("/", h.homePage)
	router.GET("/create", h.createPostPage)
	router.POST("/create", h.submitCreatePost)
	router.GET("/view/:id", h.viewPostPage)
	router.GET("/edit/:id", h.editPostPage)
	router.POST("/edit/:id", h.submitEditPost)
	router.POST("/delete/:id", h.submitDeletePost)

	router.NoRoute(h.notFound)
}

func (h *Handler) notFound(c *gin.Context) {
	if isAPIPath(c.Request.URL.Path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	h.renderError(c, http.StatusNotFound, "Page not found")
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
