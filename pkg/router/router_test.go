package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRouteLookup(t *testing.T) {
	r := New()
	r.Get("/users/{id}", "users.show", ok)

	path, found := r.Path("users.show")
	require.True(t, found)
	assert.Equal(t, "/users/{id}", path)

	url, err := r.URL("users.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/users/7", url)

	_, found = r.Path("users.missing")
	assert.False(t, found)
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	g := r.Group("/api", mw("outer"))
	g.Get("/ping", "api.ping", ok, mw("inner"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Get("/products", "products.index", ok)
	r.Post("/products", "products.store", ok)

	infos := r.Routes()
	require.Len(t, infos, 2)

	methods := map[string]bool{}
	for _, info := range infos {
		assert.Equal(t, "/products", info.Path)
		methods[info.Method] = true
	}
	assert.True(t, methods[http.MethodGet])
	assert.True(t, methods[http.MethodPost])
}

func TestStaticRouteWinsOverParam(t *testing.T) {
	r := New()
	r.Get("/orders/{id}", "orders.show", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/orders/filter", "orders.filter", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/filter", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
