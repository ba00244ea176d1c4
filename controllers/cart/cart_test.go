package cartControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Address{},
		&models.Category{}, &models.Product{}, &models.ProductImage{},
		&models.ProductVariant{}, &models.Review{},
		&models.Cart{}, &models.CartItem{}, &models.DiscountCode{},
		&models.Order{}, &models.OrderItem{}, &models.OrderTracking{},
	))
	return db
}

// newCartRouter wires the cart routes with a stub auth middleware that
// pins the caller to userID.
func newCartRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	})
	r.GET("/cart/", GetCart(db))
	r.POST("/cart/add", AddToCart(db))
	r.PUT("/cart/items/:item_id", UpdateCartItem(db))
	r.DELETE("/cart/items/:item_id", RemoveCartItem(db))
	r.DELETE("/cart/clear", ClearCart(db))
	r.POST("/cart/apply-discount", ApplyDiscount(db))
	return r
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: uuid.NewString() + "@example.com", Name: "Ravi"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedVariant(t *testing.T, db *gorm.DB, name, price string, stock int) models.ProductVariant {
	t.Helper()
	category := models.Category{Name: "Shirts-" + uuid.NewString(), IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{
		Name:        name,
		Description: "test product",
		CategoryID:  category.ID,
		Price:       decimal.RequireFromString(price),
		Gender:      models.GenderUnisex,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&product).Error)

	variant := models.ProductVariant{
		ProductID:     product.ID,
		Size:          "M",
		Color:         "blue",
		StockQuantity: stock,
		SKU:           uuid.NewString()[:13],
	}
	require.NoError(t, db.Create(&variant).Error)
	variant.Product = product
	return variant
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetOrCreateCartIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	first, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	second, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateCartConcurrent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	errors := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cart, err := GetOrCreateCart(db, user.ID)
			errors[i] = err
			ids[i] = cart.ID
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		require.NoError(t, errors[i])
		assert.Equal(t, ids[0], id)
	}
	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the upsert must leave exactly one cart")
}

func TestAddToCartMergesQuantities(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Kurta", "450.00", 10)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Same variant twice stays one line with the summed quantity.
	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddToCartRejectsInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Kurta", "450.00", 3)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")

	// The merged quantity is checked too: 2 in cart, adding 2 with stock 3.
	w = doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Jeans", "900.00", 4)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	itemPath := "/cart/items/" + strconv.Itoa(int(item.ID))

	w = doJSON(t, r, http.MethodPut, itemPath, gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, itemPath, gin.H{"quantity": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Another user cannot touch the item.
	other := seedUser(t, db)
	otherRouter := newCartRouter(db, other.ID)
	w = doJSON(t, otherRouter, http.MethodPut, itemPath, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, itemPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetCartResponse(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Saree", "1500.00", 5)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", v.ProductID).
		Update("discount_price", decimal.RequireFromString("1200.00")).Error)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/cart/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			ProductName  string          `json:"product_name"`
			ProductPrice decimal.Decimal `json:"product_price"`
			Size         string          `json:"size"`
			Quantity     int             `json:"quantity"`
			Subtotal     decimal.Decimal `json:"subtotal"`
		} `json:"items"`
		TotalItems int             `json:"total_items"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Saree", body.Items[0].ProductName)
	assert.True(t, body.Items[0].ProductPrice.Equal(decimal.RequireFromString("1200")))
	assert.True(t, body.Items[0].Subtotal.Equal(decimal.RequireFromString("2400")))
	assert.Equal(t, 2, body.TotalItems)
	assert.True(t, body.TotalPrice.Equal(decimal.RequireFromString("2400")))
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Tee", "300.00", 5)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/cart/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	// Cart row survives the clear.
	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount)
}

func seedDiscount(t *testing.T, db *gorm.DB) models.DiscountCode {
	t.Helper()
	code := models.DiscountCode{
		Code:            "FEST10",
		DiscountPercent: decimal.RequireFromString("10"),
		MinOrderAmount:  decimal.RequireFromString("1000"),
		ValidFrom:       time.Now().Add(-time.Hour),
		ValidUntil:      time.Now().Add(time.Hour),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&code).Error)
	return code
}

func TestApplyDiscountPreview(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Lehenga", "1500.00", 5)
	seedDiscount(t, db)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/apply-discount", gin.H{"discount_code": "FEST10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		DiscountCode   string          `json:"discount_code"`
		OriginalAmount decimal.Decimal `json:"original_amount"`
		DiscountAmount decimal.Decimal `json:"discount_amount"`
		FinalAmount    decimal.Decimal `json:"final_amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FEST10", body.DiscountCode)
	assert.True(t, body.OriginalAmount.Equal(decimal.RequireFromString("1500")))
	assert.True(t, body.DiscountAmount.Equal(decimal.RequireFromString("150")))
	assert.True(t, body.FinalAmount.Equal(decimal.RequireFromString("1350")))
}

func TestApplyDiscountBelowMinimumIsRejected(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Tee", "800.00", 5)
	seedDiscount(t, db)
	r := newCartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	// Preview is strict, unlike order creation.
	w = doJSON(t, r, http.MethodPost, "/cart/apply-discount", gin.H{"discount_code": "FEST10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Minimum order amount")

	w = doJSON(t, r, http.MethodPost, "/cart/apply-discount", gin.H{"discount_code": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid discount code")
}

func TestApplyDiscountExpiredOrInactive(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Coat", "2000.00", 5)
	r := newCartRouter(db, user.ID)

	expired := models.DiscountCode{
		Code:            "OLD10",
		DiscountPercent: decimal.RequireFromString("10"),
		ValidFrom:       time.Now().Add(-48 * time.Hour),
		ValidUntil:      time.Now().Add(-24 * time.Hour),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&expired).Error)

	w := doJSON(t, r, http.MethodPost, "/cart/add", gin.H{"product_variant_id": v.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/apply-discount", gin.H{"discount_code": "OLD10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expired or inactive")
}
