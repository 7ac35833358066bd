package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blog-cms/internal/domain"
)

type postView struct {
	domain.Post
	AuthorLogin string
}

type homePageData struct {
	Title string
	Posts []postView
}

type createPageData struct {
	Title string
	Users []domain.User
}

type postPageData struct {
	Title  string
	Post   domain.Post
	Author domain.User
}

type errorPageData struct {
	Title string
	Error string
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", errorPageData{Title: "Error", Error: message})
}

// renderServiceError shows err on the error page with the status matching its kind.
func (h *Handler) renderServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("page failed")
		h.renderError(c, status, "Internal Server Error")
		return
	}
	h.renderError(c, status, err.Error())
}

func (h *Handler) homePage(c *gin.Context) {
	ctx := c.Request.Context()
	posts, err := h.posts.ListPosts(ctx)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	logins := make(map[int64]string, len(users))
	for _, u := range users {
		logins[u.ID] = u.Login
	}
	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = postView{Post: p, AuthorLogin: logins[p.AuthorID]}
	}
	c.HTML(http.StatusOK, "home.html", homePageData{Title: "Blog System", Posts: views})
}

func (h *Handler) createPostPage(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	if len(users) == 0 {
		h.renderError(c, http.StatusOK, "No users available. Please create a user first.")
		return
	}
	c.HTML(http.StatusOK, "create_post.html", createPageData{Title: "Create Post", Users: users})
}

func (h *Handler) submitCreatePost(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.PostForm("author_id"), 10, 64)
	if err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid author")
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), authorID, c.PostForm("title"), c.PostForm("content"))
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/view/%d", post.ID))
}

func (h *Handler) viewPostPage(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.GetPost(ctx, id)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	author, err := h.users.GetUser(ctx, post.AuthorID)
	if err != nil {
		h.renderError(c, http.StatusNotFound, "Author not found")
		return
	}
	c.HTML(http.StatusOK, "view_post.html", postPageData{Title: post.Title, Post: *post, Author: *author})
}

func (h *Handler) editPostPage(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit_post.html", postPageData{Title: "Edit Post", Post: *post})
}

func (h *Handler) submitEditPost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), id, c.PostForm("title"), c.PostForm("content"))
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/view/%d", post.ID))
}

func (h *Handler) submitDeletePost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), id); err != nil {
		h.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
