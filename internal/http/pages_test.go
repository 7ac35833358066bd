package http_test

import (
	"net/http"
	"net/url"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHomePage(t *testing.T) {
	c := qt.New(t)
	router := newRouter(nil)

	rec := do(router, http.MethodGet, "/", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "No posts yet.")

	author := createUser(c, router, "alice@example.com", "alice")
	createPost(c, router, author.ID, "First <post>", "Hello")

	rec = do(router, http.MethodGet, "/", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	body := rec.Body.String()
	c.Assert(body, qt.Contains, "First &lt;post&gt;")
	c.Assert(body, qt.Contains, "alice")
	c.Assert(body, qt.Contains, `href="/view/1"`)
}

func TestCreatePostPageRequiresUsers(t *testing.T) {
	c := qt.New(t)
	router := newRouter(nil)

	rec := do(router, http.MethodGet, "/create", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "No users available. Please create a user first.")

	createUser(c, router, "alice@example.com", "alice")
	rec = do(router, http.MethodGet, "/create", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `<option value="1">alice</option>`)
}

func TestSubmitCreatePost(t *testing.T) {
	c := qt.New(t)
	router := newRouter(nil)
	createUser(c, router, "alice@example.com", "alice")

	rec := postForm(router, "/create", url.Values{"title": {"Hi"}, "content": {"There"}, "author_id": {"1"}})
	c.Assert(rec.Code, qt.Equals, http.StatusSeeOther)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/view/1")

	rec = do(router, http.MethodGet, "/view/1", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "There")
	c.Assert(rec.Body.String(), qt.Contains, "alice")

	rec = postForm(router, "/create", url.Values{"title": {" "}, "content": {"x"}, "author_id": {"1"}})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(rec.Body.String(), qt.Contains, "Title cannot be empty")

	rec = postForm(router, "/create", url.Values{"title": {"t"}, "content": {"x"}, "author_id": {"7"}})
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(rec.Body.String(), qt.Contains, "Author not found")

	rec = postForm(router, "/create", url.Values{"title": {"t"}, "content": {"x"}, "author_id": {"abc"}})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	rec = postForm(router, "/create", url.Values{"title": {"t"}, "content": {"x"}, "author_id": {"0"}})
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(rec.Body.String(), qt.Contains, "Author not found")
}

func TestEditAndDeletePages(t *testing.T) {
	c := qt.New(t)
	router := newRouter(nil)
	author := createUser(c, router, "alice@example.com", "alice")
	createPost(c, router, author.ID, "Title", "Body")

	rec := do(router, http.MethodGet, "/edit/1", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `value="Title"`)

	rec = postForm(router, "/edit/1", url.Values{"title": {"Changed"}, "content": {"Body 2"}})
	c.Assert(rec.Code, qt.Equals, http.StatusSeeOther)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/view/1")

	rec = do(router, http.MethodGet, "/view/1", nil)
	c.Assert(rec.Body.String(), qt.Contains, "Changed")

	rec = postForm(router, "/edit/2", url.Values{"title": {"x"}, "content": {"y"}})
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(rec.Body.String(), qt.Contains, "Post not found")

	rec = postForm(router, "/delete/1", url.Values{})
	c.Assert(rec.Code, qt.Equals, http.StatusSeeOther)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/")

	rec = do(router, http.MethodGet, "/view/1", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)

	rec = do(router, http.MethodGet, "/edit/abc", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}
