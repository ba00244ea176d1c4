package orderControllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/models"
)

type CreateOrderInput struct {
	UseSavedAddress bool   `json:"use_saved_address"`
	SavedAddressID  uint   `json:"saved_address_id"`
	ShippingName    string `json:"shipping_name"`
	ShippingEmail   string `json:"shipping_email"`
	ShippingPhone   string `json:"shipping_phone"`
	AddressLine1    string `json:"shipping_address_line1"`
	AddressLine2    string `json:"shipping_address_line2"`
	City            string `json:"shipping_city"`
	State           string `json:"shipping_state"`
	PostalCode      string `json:"shipping_postal_code"`
	Country         string `json:"shipping_country"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	DiscountCode    string `json:"discount_code"`
}

// shippingDetails is the snapshot written onto the order row.
type shippingDetails struct {
	Name, Email, Phone  string
	Line1, Line2        string
	City, State         string
	PostalCode, Country string
}

// CreateOrder converts the user's cart into a persisted order, or fails
// leaving all state unchanged.
//
// Preconditions run before the transaction opens: the cart must be
// non-empty, every line must fit current stock, and a supplied discount
// code is validated leniently (an invalid or under-minimum code is dropped,
// not a failure). Inside one transaction the order and its price-snapshot
// items are created, stock is decremented with a guarded update, the
// discount usage counter bumped, the cart cleared and the initial tracking
// row appended. Any error rolls the whole thing back.
func CreateOrder(db *gorm.DB, pricing config.Pricing, userID uint, input CreateOrderInput) (models.Order, error) {
	paymentMethod, ok := models.ParsePaymentMethod(input.PaymentMethod)
	if !ok {
		return models.Order{}, errs.Validation("Invalid payment method")
	}

	shipping, err := resolveShipping(db, userID, input)
	if err != nil {
		return models.Order{}, err
	}

	var cart models.Cart
	err = db.
		Preload("Items").
		Preload("Items.ProductVariant").
		Preload("Items.ProductVariant.Product").
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, errs.EmptyCart()
	}
	if err != nil {
		return models.Order{}, errs.Unexpected(err)
	}
	if len(cart.Items) == 0 {
		return models.Order{}, errs.EmptyCart()
	}

	for _, item := range cart.Items {
		if item.ProductVariant.StockQuantity < item.Quantity {
			return models.Order{}, errs.InsufficientStock(item.ProductVariant.Product.Name)
		}
	}

	subtotal := cart.TotalPrice()
	shippingCost := pricing.ShippingFee
	if subtotal.GreaterThanOrEqual(pricing.FreeShippingThreshold) {
		shippingCost = decimal.Zero
	}
	taxAmount := subtotal.Mul(pricing.TaxRate)

	// A discount code that is unknown, invalid or below its minimum is
	// silently dropped rather than failing the order.
	discountAmount := decimal.Zero
	var discountCodeID *uint
	if input.DiscountCode != "" {
		var discount models.DiscountCode
		err := db.Where("code = ?", input.DiscountCode).First(&discount).Error
		switch {
		case err == nil:
			if discount.IsValidAt(time.Now()) && subtotal.GreaterThanOrEqual(discount.MinOrderAmount) {
				discountAmount = discount.CalculateDiscount(subtotal)
				discountCodeID = &discount.ID
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// dropped
		default:
			return models.Order{}, errs.Unexpected(err)
		}
	}

	totalAmount := subtotal.Add(shippingCost).Add(taxAmount).Sub(discountAmount)

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItems = append(orderItems, models.OrderItem{
			ProductVariantID: item.ProductVariantID,
			ProductName:      item.ProductVariant.Product.Name,
			Size:             item.ProductVariant.Size,
			Color:            item.ProductVariant.Color,
			Quantity:         item.Quantity,
			Price:            item.ProductVariant.Product.CurrentPrice(),
		})
	}

	order := models.Order{
		OrderNumber:          models.NewOrderNumber(),
		UserID:               userID,
		Status:               models.OrderStatusPending,
		ShippingName:         shipping.Name,
		ShippingEmail:        shipping.Email,
		ShippingPhone:        shipping.Phone,
		ShippingAddressLine1: shipping.Line1,
		ShippingAddressLine2: shipping.Line2,
		ShippingCity:         shipping.City,
		ShippingState:        shipping.State,
		ShippingPostalCode:   shipping.PostalCode,
		ShippingCountry:      shipping.Country,
		PaymentMethod:        paymentMethod,
		Subtotal:             subtotal,
		DiscountCodeID:       discountCodeID,
		DiscountAmount:       discountAmount,
		ShippingCost:         shippingCost,
		TaxAmount:            taxAmount,
		TotalAmount:          totalAmount,
		Items:                orderItems,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return errs.Unexpected(err)
		}

		// Guarded decrement: the condition re-checks stock so a concurrent
		// checkout of the same last units loses with zero rows affected.
		for _, item := range cart.Items {
			res := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductVariantID, item.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return errs.Unexpected(res.Error)
			}
			if res.RowsAffected == 0 {
				return errs.InsufficientStock(item.ProductVariant.Product.Name)
			}
		}

		if discountCodeID != nil {
			if err := tx.Model(&models.DiscountCode{}).
				Where("id = ?", *discountCodeID).
				UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
				return errs.Unexpected(err)
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return errs.Unexpected(err)
		}

		if err := tx.Create(&models.OrderTracking{
			OrderID: order.ID,
			Status:  models.OrderStatusPending,
			Message: "Order placed successfully",
		}).Error; err != nil {
			return errs.Unexpected(err)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	return loadOrder(db, order.ID)
}

func resolveShipping(db *gorm.DB, userID uint, input CreateOrderInput) (shippingDetails, error) {
	if input.UseSavedAddress {
		var address models.Address
		err := db.Where("id = ? AND user_id = ?", input.SavedAddressID, userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shippingDetails{}, errs.Validation("Saved address not found")
		}
		if err != nil {
			return shippingDetails{}, errs.Unexpected(err)
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return shippingDetails{}, errs.Unexpected(err)
		}
		return shippingDetails{
			Name:       address.FullName,
			Email:      user.Email,
			Phone:      address.Phone,
			Line1:      address.AddressLine1,
			Line2:      address.AddressLine2,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		}, nil
	}

	if input.ShippingName == "" || input.ShippingEmail == "" || input.ShippingPhone == "" ||
		input.AddressLine1 == "" || input.City == "" || input.State == "" || input.PostalCode == "" {
		return shippingDetails{}, errs.Validation("Missing shipping fields")
	}
	country := input.Country
	if country == "" {
		country = "India"
	}
	return shippingDetails{
		Name:       input.ShippingName,
		Email:      input.ShippingEmail,
		Phone:      input.ShippingPhone,
		Line1:      input.AddressLine1,
		Line2:      input.AddressLine2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    country,
	}, nil
}

func loadOrder(db *gorm.DB, orderID uint) (models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_items.id") }).
		Preload("TrackingUpdates", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_trackings.created_at DESC") }).
		Preload("DiscountCode").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, errs.NotFound("Order not found")
	}
	if err != nil {
		return order, errs.Unexpected(err)
	}
	return order, nil
}

// -------- Handlers --------

// POST /orders/create
func CreateOrderHandler(db *gorm.DB, pricing config.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input CreateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		order, err := CreateOrder(db, pricing, userID, input)
		if err != nil {
			errs.Abort(c, err)
			return
		}

		broadcastOrderEvent("order_created", order)
		c.JSON(201, serializeOrderDetail(order))
	}
}

// GET /orders
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var orders []models.Order
		if err := db.
			Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, serializeOrderList(orders))
	}
}

// GET /orders/:order_id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var order models.Order
		err := db.
			Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_items.id") }).
			Preload("TrackingUpdates", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_trackings.created_at DESC") }).
			Where("id = ? AND user_id = ?", c.Param("order_id"), userID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Order not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, serializeOrderDetail(order))
	}
}

// GET /orders/track/:order_number
func TrackOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var order models.Order
		err := db.
			Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_items.id") }).
			Preload("TrackingUpdates", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_trackings.created_at DESC") }).
			Where("order_number = ? AND user_id = ?", c.Param("order_number"), userID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Order not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, serializeOrderDetail(order))
	}
}
