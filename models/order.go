package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodUPI    PaymentMethod = "upi"
)

// OrderStatuses lists every accepted status. No transition graph is
// enforced: an operator may set any status after any other.
var OrderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
	OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	OrderStatusRefunded,
}

var PaymentMethods = []PaymentMethod{
	PaymentMethodCOD, PaymentMethodCard, PaymentMethodWallet, PaymentMethodUPI,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, status := range OrderStatuses {
		if OrderStatus(strings.ToLower(s)) == status {
			return status, true
		}
	}
	return "", false
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if PaymentMethod(strings.ToLower(s)) == m {
			return m, true
		}
	}
	return "", false
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;size:100;not null" json:"order_number"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	Status      OrderStatus `gorm:"type:varchar(20);default:pending" json:"status"`

	// Shipping snapshot, copied from a saved address or the request body.
	ShippingName         string `gorm:"not null" json:"shipping_name"`
	ShippingEmail        string `gorm:"not null" json:"shipping_email"`
	ShippingPhone        string `gorm:"not null" json:"shipping_phone"`
	ShippingAddressLine1 string `gorm:"not null" json:"shipping_address_line1"`
	ShippingAddressLine2 string `json:"shipping_address_line2"`
	ShippingCity         string `gorm:"not null" json:"shipping_city"`
	ShippingState        string `gorm:"not null" json:"shipping_state"`
	ShippingPostalCode   string `gorm:"not null" json:"shipping_postal_code"`
	ShippingCountry      string `gorm:"default:India" json:"shipping_country"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus string        `gorm:"type:varchar(20);default:pending" json:"payment_status"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountCodeID *uint           `json:"discount_code_id"`
	DiscountCode   *DiscountCode   `gorm:"foreignKey:DiscountCodeID;constraint:OnDelete:SET NULL" json:"discount_code,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"shipping_cost"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	TrackingNumber    string     `gorm:"size:100" json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`

	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TrackingUpdates []OrderTracking `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"tracking_updates,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrderNumber generates a human-readable unique order identifier,
// e.g. FS3F2A9C1B.
func NewOrderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "FS" + strings.ToUpper(hex[:8])
}

// OrderItem snapshots the variant, quantity and the product's current price
// at order time. Later product price changes never touch past orders.
type OrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderID          uint            `gorm:"index;not null" json:"order_id"`
	ProductVariantID uint            `gorm:"not null" json:"product_variant_id"`
	ProductVariant   ProductVariant  `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
	ProductName      string          `json:"product_name"`
	Size             string          `json:"size"`
	Color            string          `json:"color"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderTracking struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Message   string      `gorm:"type:text" json:"message"`
	Location  string      `gorm:"size:200" json:"location"`
	CreatedAt time.Time   `json:"created_at"`
}
