// Package ctx provides a request context wrapper for API handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for path params, query params,
// body binding, and enveloped JSON responses:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, err := c.ParamUint("id")
//	    ...
//	    c.Success(product)
//	}
//
//	// Register with ctx.Wrap:
//	r.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/bind"
	"github.com/shashiranjanraj/vampware/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter (e.g. "/users/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a path parameter as an unsigned integer. A non-numeric
// value yields a BadRequest error.
func (c *Context) ParamUint(key string) (uint, error) {
	raw := c.Param(key)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid " + key + " parameter")
	}
	return uint(n), nil
}

// Query returns a query-string value, or "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt parses a query-string value as an integer, returning def when
// the parameter is absent. A present but non-numeric value is an error.
func (c *Context) QueryInt(key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.BadRequest("The " + key + " parameter must be an integer")
	}
	return n, nil
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// BindJSON decodes the JSON body into dest and runs validation.
// On failure it writes the appropriate error response and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Fail(apperr.BadRequest(err.Error()))
		return false
	}
	if validate.HasErrors(errs) {
		c.Fail(apperr.Validation(errs))
		return false
	}
	return true
}

// Status writes just the HTTP status code with an empty body.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success sends a 200 with the payload as-is.
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 with the payload as-is.
func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 with a {"message": ...} body.
func (c *Context) Message(msg string) {
	c.JSON(http.StatusOK, map[string]string{"message": msg})
}

// Fail maps err through the apperr taxonomy and writes the error envelope.
// Validation errors include the full field-error map.
func (c *Context) Fail(err error) {
	e := apperr.From(err)
	body := map[string]any{"status": e.Status(), "message": e.Error()}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	c.JSON(e.Status(), body)
}

// WrittenStatus returns the status code written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
