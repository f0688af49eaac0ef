package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/todoapp/todo-api/internal/todo"
	"github.com/todoapp/todo-api/internal/todo/service"
	"github.com/todoapp/todo-api/pkg/logger"
	"github.com/todoapp/todo-api/pkg/metrics"
)

const (
	msgNotFound    = "Todo not found."
	msgStore       = "Database error occurred. Please try again later."
	msgUnexpected  = "An unexpected error occurred."
	msgInvalidPage = "Invalid page."
	msgMalformed   = "Malformed JSON request body."
)

// Handler maps the Todo REST resource onto a service.Service. It keeps no
// state between requests.
type Handler struct {
	svc service.Service
}

// RegisterTodoRoutes mounts the Todo resource under r.
func RegisterTodoRoutes(r gin.IRouter, svc service.Service) {
	h := &Handler{svc: svc}
	r.GET("/todos", h.List)
	r.POST("/todos", h.Create)
	r.GET("/todos/:id", h.Retrieve)
	r.PUT("/todos/:id", h.Update)
	r.PATCH("/todos/:id", h.PartialUpdate)
	r.DELETE("/todos/:id", h.Destroy)
}

// List returns every todo (newest first by default), or one page of them
// when pagination is configured.
func (h *Handler) List(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	page, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	if !page.Paginated() {
		respond(c, "list", http.StatusOK, page.Results)
		return
	}
	body := gin.H{"count": page.Count, "next": nil, "previous": nil, "results": page.Results}
	if page.HasNext() {
		body["next"] = pageURL(c, page.Number+1)
	}
	if page.HasPrevious() {
		body["previous"] = pageURL(c, page.Number-1)
	}
	respond(c, "list", http.StatusOK, body)
}

func (h *Handler) Create(c *gin.Context) {
	p, ok := bindPayload(c, "create")
	if !ok {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+strconv.FormatInt(t.ID, 10))
	respond(c, "create", http.StatusCreated, t)
}

func (h *Handler) Retrieve(c *gin.Context) {
	id, ok := parseID(c, "retrieve")
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "retrieve", err)
		return
	}
	respond(c, "retrieve", http.StatusOK, t)
}

// Update replaces title, description and status; title is required.
func (h *Handler) Update(c *gin.Context) {
	h.update(c, "update", false)
}

// PartialUpdate changes only the fields present in the body.
func (h *Handler) PartialUpdate(c *gin.Context) {
	h.update(c, "partial_update", true)
}

func (h *Handler) update(c *gin.Context, op string, partial bool) {
	id, ok := parseID(c, op)
	if !ok {
		return
	}
	p, ok := bindPayload(c, op)
	if !ok {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, p, partial)
	if err != nil {
		h.fail(c, op, err)
		return
	}
	respond(c, op, http.StatusOK, t)
}

func (h *Handler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "destroy")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "destroy", err)
		return
	}
	metrics.Requests.WithLabelValues("destroy", strconv.Itoa(http.StatusNoContent)).Inc()
	c.Status(http.StatusNoContent)
}

// fail translates a service outcome into the matching error response.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	var verr *todo.ValidationError
	var serr *todo.StoreError
	switch {
	case errors.As(err, &verr):
		respond(c, op, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, todo.ErrNotFound):
		respond(c, op, http.StatusNotFound, gin.H{"error": msgNotFound})
	case errors.Is(err, todo.ErrInvalidPage):
		respond(c, op, http.StatusNotFound, gin.H{"error": msgInvalidPage})
	case errors.As(err, &serr):
		metrics.StoreErrors.WithLabelValues(op).Inc()
		respond(c, op, http.StatusInternalServerError, gin.H{"error": msgStore})
	default:
		logger.Errorf("todo %s: unexpected error: %v", op, err)
		respond(c, op, http.StatusInternalServerError, gin.H{"error": msgUnexpected})
	}
}

func respond(c *gin.Context, op string, code int, body interface{}) {
	metrics.Requests.WithLabelValues(op, strconv.Itoa(code)).Inc()
	c.JSON(code, body)
}

// parseID answers 404 for ids that cannot name a stored todo. Only the
// canonical decimal form is accepted, so "+5" and "005" are not aliases of 5.
func parseID(c *gin.Context, op string) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 || strconv.FormatInt(id, 10) != raw {
		respond(c, op, http.StatusNotFound, gin.H{"error": msgNotFound})
		return 0, false
	}
	return id, true
}

// bindPayload decodes the JSON body. An empty body is an empty payload.
func bindPayload(c *gin.Context, op string) (todo.Payload, bool) {
	var p todo.Payload
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		logger.Debugf("todo %s: bad body: %v", op, err)
		respond(c, op, http.StatusBadRequest, gin.H{"error": msgMalformed})
		return todo.Payload{}, false
	}
	return p, true
}

func parseListQuery(c *gin.Context) (service.ListQuery, error) {
	q := service.ListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: c.Query("ordering"),
	}
	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if msg := todo.ValidateStatus(s); msg != "" {
				verr := &todo.ValidationError{}
				verr.Add("status", msg)
				return q, verr
			}
			q.Statuses = append(q.Statuses, todo.Status(s))
		}
	}
	if raw, ok := c.GetQuery("page"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			n = -1
		}
		q.Page = n
	}
	return q, nil
}

// pageURL builds the absolute URL of page n of the current listing, keeping
// the other query parameters. The scheme follows the connection only;
// forwarding headers are client controlled.
func pageURL(c *gin.Context, n int) string {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = c.Request.Host
	q := u.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
