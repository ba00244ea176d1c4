package orderControllers

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	"github.com/Pravindgholap/fashion-store/errs"
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

func testPricing() config.Pricing {
	return config.Pricing{
		TaxRate:               decimal.RequireFromString("0.18"),
		ShippingFee:           decimal.RequireFromString("50"),
		FreeShippingThreshold: decimal.RequireFromString("500"),
	}
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: uuid.NewString() + "@example.com", Name: "Asha"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedVariant creates a category, product and one variant with the given
// price and stock.
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

func seedCart(t *testing.T, db *gorm.DB, userID uint, lines map[uint]int) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)
	for variantID, qty := range lines {
		require.NoError(t, db.Create(&models.CartItem{
			CartID:           cart.ID,
			ProductVariantID: variantID,
			Quantity:         qty,
			AddedAt:          time.Now(),
		}).Error)
	}
	return cart
}

func inlineShipping() CreateOrderInput {
	return CreateOrderInput{
		ShippingName:  "Asha Verma",
		ShippingEmail: "asha@example.com",
		ShippingPhone: "9876543210",
		AddressLine1:  "12 MG Road",
		City:          "Pune",
		State:         "Maharashtra",
		PostalCode:    "411001",
		PaymentMethod: "cod",
	}
}

func TestCreateOrderTotalsAndCartCleared(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v1 := seedVariant(t, db, "Kurta", "450.00", 10)
	v2 := seedVariant(t, db, "Jeans", "300.00", 10)
	seedCart(t, db, user.ID, map[uint]int{v1.ID: 2, v2.ID: 1})

	order, err := CreateOrder(db, testPricing(), user.ID, inlineShipping())
	require.NoError(t, err)

	// 2x450 + 1x300 = 1200, above the free shipping cutoff
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("1200")), "subtotal %s", order.Subtotal)
	assert.True(t, order.ShippingCost.IsZero(), "shipping %s", order.ShippingCost)
	assert.True(t, order.TaxAmount.Equal(decimal.RequireFromString("216")), "tax %s", order.TaxAmount)
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1416")), "total %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	// Exactly N order items whose summed subtotal equals the order subtotal.
	require.Len(t, order.Items, 2)
	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.Subtotal())
	}
	assert.True(t, sum.Equal(order.Subtotal))

	// total = subtotal + shipping + tax - discount, exactly.
	expected := order.Subtotal.Add(order.ShippingCost).Add(order.TaxAmount).Sub(order.DiscountAmount)
	assert.True(t, order.TotalAmount.Equal(expected))

	// Cart is emptied, the cart row survives.
	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount)

	// Stock decremented.
	var got models.ProductVariant
	require.NoError(t, db.First(&got, v1.ID).Error)
	assert.Equal(t, 8, got.StockQuantity)

	// Initial tracking entry with status pending.
	require.Len(t, order.TrackingUpdates, 1)
	assert.Equal(t, models.OrderStatusPending, order.TrackingUpdates[0].Status)
}

func TestCreateOrderFlatShippingBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Socks", "300.00", 5)
	seedCart(t, db, user.ID, map[uint]int{v.ID: 1})

	order, err := CreateOrder(db, testPricing(), user.ID, inlineShipping())
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("300")))
	assert.True(t, order.ShippingCost.Equal(decimal.RequireFromString("50")), "shipping %s", order.ShippingCost)
	assert.True(t, order.TaxAmount.Equal(decimal.RequireFromString("54")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("404")), "total %s", order.TotalAmount)
}

func TestCreateOrderSnapshotsCurrentPrice(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Jacket", "2000.00", 5)

	// Discounted product: the snapshot must take the discount price.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", v.ProductID).
		Update("discount_price", decimal.RequireFromString("1500.00")).Error)
	seedCart(t, db, user.ID, map[uint]int{v.ID: 1})

	order, err := CreateOrder(db, testPricing(), user.ID, inlineShipping())
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("1500")))

	// A later price change never touches the stored order item.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", v.ProductID).
		Update("price", decimal.RequireFromString("99.00")).Error)
	var item models.OrderItem
	require.NoError(t, db.First(&item, order.Items[0].ID).Error)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("1500")))
}

func TestCreateOrderAppliesValidDiscount(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Saree", "1500.00", 5)
	seedCart(t, db, user.ID, map[uint]int{v.ID: 1})

	code := models.DiscountCode{
		Code:            "FEST10",
		DiscountPercent: decimal.RequireFromString("10"),
		MinOrderAmount:  decimal.RequireFromString("1000"),
		ValidFrom:       time.Now().Add(-time.Hour),
		ValidUntil:      time.Now().Add(time.Hour),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&code).Error)

	input := inlineShipping()
	input.DiscountCode = "FEST10"
	order, err := CreateOrder(db, testPricing(), user.ID, input)
	require.NoError(t, err)

	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("150")), "discount %s", order.DiscountAmount)
	// 1500 + 0 shipping + 270 tax - 150 discount
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1620")), "total %s", order.TotalAmount)

	var got models.DiscountCode
	require.NoError(t, db.First(&got, code.ID).Error)
	assert.Equal(t, 1, got.UsedCount)
}

func TestCreateOrderSilentlyDropsInvalidDiscount(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Tee", "800.00", 5)
	cart := seedCart(t, db, user.ID, map[uint]int{v.ID: 1})

	// Below the 1000 minimum: the code is dropped, the order still goes through.
	code := models.DiscountCode{
		Code:            "FEST10",
		DiscountPercent: decimal.RequireFromString("10"),
		MinOrderAmount:  decimal.RequireFromString("1000"),
		ValidFrom:       time.Now().Add(-time.Hour),
		ValidUntil:      time.Now().Add(time.Hour),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&code).Error)

	input := inlineShipping()
	input.DiscountCode = "FEST10"
	order, err := CreateOrder(db, testPricing(), user.ID, input)
	require.NoError(t, err)

	assert.True(t, order.DiscountAmount.IsZero())
	assert.Nil(t, order.DiscountCodeID)

	var got models.DiscountCode
	require.NoError(t, db.First(&got, code.ID).Error)
	assert.Zero(t, got.UsedCount)

	// Same for a code that does not exist at all.
	v2 := seedVariant(t, db, "Cap", "200.00", 5)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: cart.ID, ProductVariantID: v2.ID, Quantity: 1, AddedAt: time.Now(),
	}).Error)
	input.DiscountCode = "NO-SUCH-CODE"
	order, err = CreateOrder(db, testPricing(), user.ID, input)
	require.NoError(t, err)
	assert.True(t, order.DiscountAmount.IsZero())
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	seedCart(t, db, user.ID, nil)

	_, err := CreateOrder(db, testPricing(), user.ID, inlineShipping())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindEmptyCart))

	// No cart row at all behaves the same.
	other := seedUser(t, db)
	_, err = CreateOrder(db, testPricing(), other.ID, inlineShipping())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindEmptyCart))
}

func TestCreateOrderInsufficientStockLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Sneakers", "1000.00", 3)
	seedCart(t, db, user.ID, map[uint]int{v.ID: 5})

	_, err := CreateOrder(db, testPricing(), user.ID, inlineShipping())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientStock))
	assert.Contains(t, err.Error(), "Sneakers")

	var got models.ProductVariant
	require.NoError(t, db.First(&got, v.ID).Error)
	assert.Equal(t, 3, got.StockQuantity)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	// Cart untouched.
	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, itemCount)
}

func TestCreateOrderInvalidPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	v := seedVariant(t, db, "Belt", "400.00", 3)
	seedCart(t, db, user.ID, map[uint]int{v.ID: 1})

	input := inlineShipping()
	input.PaymentMethod = "cheque"
	_, err := CreateOrder(db, testPricing(), user.ID, input)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestCreateOrderUsesSavedAddress(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	address := models.Address{
		UserID:       user.ID,
		FullName:     "Asha Verma",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Pune",
		State:        "Maharashtra",
		PostalCode:   "411001",
		Country:      "India",
	}
	require.NoError(t, db.Create(&address).Error)

	v := seedVariant(t, db, "Dupatta", "600.00", 3)
	cart := seedCart(t, db, user.ID, map[uint]int{v.ID: 1})

	input := CreateOrderInput{
		UseSavedAddress: true,
		SavedAddressID:  address.ID,
		PaymentMethod:   "upi",
	}
	order, err := CreateOrder(db, testPricing(), user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", order.ShippingName)
	assert.Equal(t, user.Email, order.ShippingEmail)
	assert.Equal(t, "Pune", order.ShippingCity)

	// Unknown saved address is a hard validation failure.
	v2 := seedVariant(t, db, "Stole", "600.00", 3)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: cart.ID, ProductVariantID: v2.ID, Quantity: 1, AddedAt: time.Now(),
	}).Error)
	input.SavedAddressID = 9999
	_, err = CreateOrder(db, testPricing(), user.ID, input)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestConcurrentCheckoutOfLastUnit(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, "Limited Tee", "500.00", 1)

	u1 := seedUser(t, db)
	u2 := seedUser(t, db)
	seedCart(t, db, u1.ID, map[uint]int{v.ID: 1})
	seedCart(t, db, u2.ID, map[uint]int{v.ID: 1})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, userID := range []uint{u1.ID, u2.ID} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, err := CreateOrder(db, testPricing(), userID, inlineShipping())
			results[i] = err
		}(i, userID)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		assert.True(t,
			errs.IsKind(err, errs.KindInsufficientStock) || errs.IsKind(err, errs.KindConflict),
			"loser must fail with insufficient stock or a conflict, got %v", err)
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout must win")
	assert.Equal(t, 1, failed)

	var got models.ProductVariant
	require.NoError(t, db.First(&got, v.ID).Error)
	assert.Equal(t, 0, got.StockQuantity, "stock must never go negative")
}
