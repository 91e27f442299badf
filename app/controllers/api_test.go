package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/vampware/app/controllers"
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/app/routes"
	"github.com/shashiranjanraj/vampware/app/store"
	"github.com/shashiranjanraj/vampware/pkg/auth"
	"github.com/shashiranjanraj/vampware/pkg/event"
	"github.com/shashiranjanraj/vampware/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testAPI struct {
	handler http.Handler
	db      *gorm.DB
	tokens  *auth.Manager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
	))

	tokens := auth.NewManager("test-secret")
	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db, nil)
	orderStore := store.NewOrderStore(db)

	r := router.New()
	routes.Register(r, routes.Controllers{
		Users:    controllers.NewUserController(userStore, tokens),
		Products: controllers.NewProductController(productStore),
		Orders:   controllers.NewOrderController(orderStore, event.New()),
	}, tokens)

	return &testAPI{handler: r.Handler(), db: db, tokens: tokens}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (api *testAPI) register(t *testing.T, name, email, password string) uint {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/register", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return uint(decode(t, rec)["user_id"].(float64))
}

func (api *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["access_token"].(string)
}

func (api *testAPI) seedProduct(t *testing.T, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price}
	require.NoError(t, api.db.Create(&p).Error)
	return p
}

func urlID(format string, id uint) string { return fmt.Sprintf(format, id) }

func urlID2(format string, a, b uint) string { return fmt.Sprintf(format, a, b) }

func TestRegisterAndDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/register", "", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotZero(t, body["user_id"])

	rec = api.do(t, http.MethodPost, "/register", "", map[string]any{
		"name": "Alice Again", "email": "alice@example.com", "password": "secret456",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, api.db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidationReportsAllFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/register", "", map[string]any{
		"name": "A", "email": "not-an-email", "password": "x",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "Alice", "alice@example.com", "secret123")

	unknown := api.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "nobody@example.com", "password": "secret123",
	})
	wrong := api.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestLoginMissingFieldsBadRequest(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/login", "", map[string]any{"email": "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsTokenAndIdentity(t *testing.T) {
	api := newTestAPI(t)
	id := api.register(t, "Alice", "alice@example.com", "secret123")

	rec := api.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, float64(id), body["user_id"])
	assert.Equal(t, "Alice", body["name"])
}

func TestMeRequiresToken(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "Alice", "alice@example.com", "secret123")
	token := api.login(t, "alice@example.com", "secret123")

	rec := api.do(t, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode(t, rec)["email"])
}

func TestUpdateOtherUserForbidden(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "Alice", "alice@example.com", "secret123")
	bobID := api.register(t, "Bob", "bob@example.com", "secret123")
	aliceToken := api.login(t, "alice@example.com", "secret123")

	rec := api.do(t, http.MethodPut, urlID("/users/%d", bobID), aliceToken, map[string]any{
		"name": "Hacked",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateUserPartial(t *testing.T) {
	api := newTestAPI(t)
	id := api.register(t, "Alice", "alice@example.com", "secret123")
	token := api.login(t, "alice@example.com", "secret123")

	rec := api.do(t, http.MethodPut, urlID("/users/%d", id), token, map[string]any{
		"name": "Alice Cooper",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Alice Cooper", body["name"])
	// Untouched field survives the partial update.
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestProductIndexPaginationEnvelope(t *testing.T) {
	api := newTestAPI(t)
	for i := 0; i < 25; i++ {
		api.seedProduct(t, "Product", float64(i))
	}

	rec := api.do(t, http.MethodGet, "/products?page=1&per_page=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["products"], 10)

	meta := body["pagination"].(map[string]any)
	assert.Equal(t, float64(3), meta["total_pages"])
	assert.Equal(t, float64(25), meta["total_items"])
	assert.Equal(t, true, meta["has_next"])
	assert.Equal(t, float64(2), meta["next_page"])
	assert.Nil(t, meta["prev_page"])
}

func TestProductIndexRejectsBadPagination(t *testing.T) {
	api := newTestAPI(t)
	api.seedProduct(t, "Product", 1)

	for _, path := range []string{
		"/products?page=0",
		"/products?per_page=0",
		"/products?per_page=101",
		"/products?page=abc",
	} {
		rec := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestProductCreateRequiresPrice(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/products", "", map[string]any{"product_name": "No price"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["errors"], "price")

	// An explicit zero price is valid.
	rec = api.do(t, http.MethodPost, "/products", "", map[string]any{"product_name": "Free sample", "price": 0})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestDeleteMultipleProducts(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedProduct(t, "A", 1)
	b := api.seedProduct(t, "B", 2)

	rec := api.do(t, http.MethodDelete, "/products/delete_multiple", "", map[string]any{
		"product_ids": []uint{a.ID, b.ID, 999},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["deleted"])

	rec = api.do(t, http.MethodDelete, "/products/delete_multiple", "", map[string]any{
		"product_ids": []uint{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersEmptyListReturnsEmptyArray(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	userID := api.register(t, "Alice", "alice@example.com", "secret123")
	a := api.seedProduct(t, "A", 10)
	b := api.seedProduct(t, "B", 5.5)

	rec := api.do(t, http.MethodPost, "/orders", "", map[string]any{
		"user_id": userID, "product_ids": []uint{a.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := uint(decode(t, rec)["id"].(float64))

	// Attach a second product; a repeat attach conflicts.
	rec = api.do(t, http.MethodPut, urlID2("/orders/%d/add_product/%d", orderID, b.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPut, urlID2("/orders/%d/add_product/%d", orderID, b.ID), "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, urlID("/orders/%d/total", orderID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	total := decode(t, rec)
	assert.Equal(t, float64(15.5), total["total_price"])
	assert.Equal(t, float64(2), total["product_count"])

	rec = api.do(t, http.MethodDelete, urlID2("/orders/%d/remove_product/%d", orderID, b.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, urlID2("/orders/%d/remove_product/%d", orderID, b.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	api := newTestAPI(t)
	userID := api.register(t, "Alice", "alice@example.com", "secret123")

	rec := api.do(t, http.MethodPost, "/orders", "", map[string]any{
		"user_id": userID, "product_ids": []uint{12345},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderFilterRejectsBadDates(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/orders/filter", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/orders/filter?start_date=2026-13-99&end_date=2026-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/orders/filter?start_date=2026-02-01&end_date=2026-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductRelationsEmptyAreNotFound(t *testing.T) {
	api := newTestAPI(t)
	p := api.seedProduct(t, "Unordered", 5)

	rec := api.do(t, http.MethodGet, urlID("/products/%d/orders", p.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, urlID("/products/%d/users", p.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserOrderStats(t *testing.T) {
	api := newTestAPI(t)
	userID := api.register(t, "Alice", "alice@example.com", "secret123")
	p := api.seedProduct(t, "Laptop", 100)

	rec := api.do(t, http.MethodPost, "/orders", "", map[string]any{
		"user_id": userID, "product_ids": []uint{p.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, urlID("/users/%d/order_stats", userID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode(t, rec)
	assert.Equal(t, float64(userID), stats["user_id"])
	assert.Equal(t, float64(1), stats["total_orders"])
	assert.Equal(t, float64(100), stats["total_spent"])
}
