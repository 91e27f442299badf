package store

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database. The pool is
// pinned to one connection so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestUserStoreDuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	first := models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, users.Create(ctx, &first))

	dup := models.User{Name: "Other Alice", Email: "alice@example.com", Password: "y"}
	err := users.Create(ctx, &dup)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUserStoreListEmptyReturnsEmptyList(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)

	list, err := users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserStoreDeleteBlockedByOrders(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "Laptop", 999)

	_, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)

	err = users.Delete(ctx, u.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Still present.
	_, err = users.Get(ctx, u.ID)
	assert.NoError(t, err)
}

func TestUserStoreStats(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	laptop := seedProduct(t, db, "Laptop", 1000)
	mouse := seedProduct(t, db, "Mouse", 25.50)

	_, err := orders.Create(ctx, u.ID, []uint{laptop.ID, mouse.ID})
	require.NoError(t, err)
	_, err = orders.Create(ctx, u.ID, []uint{mouse.ID})
	require.NoError(t, err)

	stats, err := users.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, stats.UserID)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.InDelta(t, 1051.0, stats.TotalSpent, 0.001)
}

func TestUserStoreStatsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)

	_, err := users.Stats(context.Background(), 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestProductStorePaginateEnvelope(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedProduct(t, db, "Product", float64(i))
	}

	page, err := products.Paginate(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.Equal(t, 25, page.Meta.TotalItems)
	assert.True(t, page.Meta.HasNext)
	assert.False(t, page.Meta.HasPrev)
	require.NotNil(t, page.Meta.NextPage)
	assert.Equal(t, 2, *page.Meta.NextPage)
	assert.Nil(t, page.Meta.PrevPage)

	last, err := products.Paginate(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.False(t, last.Meta.HasNext)
	assert.Nil(t, last.Meta.NextPage)
	require.NotNil(t, last.Meta.PrevPage)
	assert.Equal(t, 2, *last.Meta.PrevPage)
}

func TestProductStorePaginateOutOfRangePage(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)

	seedProduct(t, db, "Only", 1)

	page, err := products.Paginate(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Meta.TotalItems)
}

func TestProductStoreDeleteManyReportsCount(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)
	ctx := context.Background()

	a := seedProduct(t, db, "A", 1)
	b := seedProduct(t, db, "B", 2)

	deleted, err := products.DeleteMany(ctx, []uint{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = products.Get(ctx, a.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestProductStoreDeleteManyNoneFound(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)

	_, err := products.DeleteMany(context.Background(), []uint{998, 999})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestProductStoreRelationsEmptyAreNotFound(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)
	ctx := context.Background()

	p := seedProduct(t, db, "Unordered", 5)

	_, err := products.OrdersFor(ctx, p.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = products.UsersFor(ctx, p.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestProductStoreOrdersForPreloadsProducts(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "Widget", 9.99)

	_, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)

	got, err := products.OrdersFor(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Products, 1)
	assert.Equal(t, p.ID, got[0].Products[0].ID)
}

func TestProductStoreUsersForIsDistinct(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db, nil)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "Popular", 10)

	_, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)
	_, err = orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)

	buyers, err := products.UsersFor(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, buyers, 1)
}

func TestOrderStoreCreateIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "Laptop", 999)

	_, err := orders.Create(ctx, u.ID, []uint{p.ID, 12345})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var joinCount int64
	require.NoError(t, db.Model(&models.OrderProduct{}).Count(&joinCount).Error)
	assert.Zero(t, joinCount)
}

func TestOrderStoreCreateUnknownUser(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)

	p := seedProduct(t, db, "Laptop", 999)

	_, err := orders.Create(context.Background(), 999, []uint{p.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderStoreAddProductTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	a := seedProduct(t, db, "A", 1)
	b := seedProduct(t, db, "B", 2)

	order, err := orders.Create(ctx, u.ID, []uint{a.ID})
	require.NoError(t, err)

	require.NoError(t, orders.AddProduct(ctx, order.ID, b.ID))

	err = orders.AddProduct(ctx, order.ID, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestOrderStoreRemoveAbsentProductNotFound(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	a := seedProduct(t, db, "A", 1)
	b := seedProduct(t, db, "B", 2)

	order, err := orders.Create(ctx, u.ID, []uint{a.ID})
	require.NoError(t, err)

	err = orders.RemoveProduct(ctx, order.ID, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, orders.RemoveProduct(ctx, order.ID, a.ID))
}

func TestOrderStoreTotalUsesLivePrices(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "Laptop", 1000)

	order, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)

	total, err := orders.Total(ctx, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, total.TotalPrice, 0.001)
	assert.Equal(t, int64(1), total.ProductCount)

	// A price change is reflected in the next total.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", 1200.555).Error)

	total, err = orders.Total(ctx, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1200.56, total.TotalPrice, 0.001)
}

func TestOrderStoreUpdateRepointsUserAndReplacesProducts(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	a := seedProduct(t, db, "A", 1)
	b := seedProduct(t, db, "B", 2)

	order, err := orders.Create(ctx, alice.ID, []uint{a.ID})
	require.NoError(t, err)

	updated, err := orders.Update(ctx, order.ID, &bob.ID, []uint{b.ID})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, updated.UserID)
	require.Len(t, updated.Products, 1)
	assert.Equal(t, b.ID, updated.Products[0].ID)
}

func TestOrderStoreUpdateUnknownProductAbortsAll(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	a := seedProduct(t, db, "A", 1)

	order, err := orders.Create(ctx, alice.ID, []uint{a.ID})
	require.NoError(t, err)

	_, err = orders.Update(ctx, order.ID, &bob.ID, []uint{9999})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Neither change applied.
	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.UserID)
	require.Len(t, got.Products, 1)
	assert.Equal(t, a.ID, got.Products[0].ID)
}

func TestOrderStoreDeleteRemovesAssociations(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "A", 1)

	order, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)

	require.NoError(t, orders.Delete(ctx, order.ID))

	var joinCount int64
	require.NoError(t, db.Model(&models.OrderProduct{}).Count(&joinCount).Error)
	assert.Zero(t, joinCount)
}

func TestOrderStoreByDateRangeInclusive(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "A", 1)

	order, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)

	// Pin the order to a known date, late in the day.
	created := time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Update("order_date", created).Error)

	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	got, err := orders.ByDateRange(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = orders.ByDateRange(ctx,
		time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderStoreProductsInEmptyOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	u := seedUser(t, db, "Alice", "alice@example.com")
	p := seedProduct(t, db, "A", 1)

	order, err := orders.Create(ctx, u.ID, []uint{p.ID})
	require.NoError(t, err)
	require.NoError(t, orders.RemoveProduct(ctx, order.ID, p.ID))

	_, err = orders.ProductsIn(ctx, order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderStoreForUser(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	p := seedProduct(t, db, "A", 1)

	_, err := orders.Create(ctx, alice.ID, []uint{p.ID})
	require.NoError(t, err)

	got, err := orders.ForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = orders.ForUser(ctx, bob.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = orders.ForUser(ctx, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
