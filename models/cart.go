package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"` // one cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c Cart) TotalItems() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// TotalPrice sums current price x quantity over the cart. Items must be
// loaded with their variant and product.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type CartItem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CartID           uint           `gorm:"uniqueIndex:idx_cart_variant;not null" json:"cart_id"`
	ProductVariantID uint           `gorm:"uniqueIndex:idx_cart_variant;not null" json:"product_variant_id"`
	ProductVariant   ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	AddedAt          time.Time      `gorm:"autoCreateTime" json:"added_at"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.ProductVariant.Product.CurrentPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DiscountCode is a coupon. A positive DiscountPercent makes it a
// percentage-of-subtotal coupon, otherwise DiscountAmount applies flat.
type DiscountCode struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Code            string          `gorm:"uniqueIndex;size:50;not null" json:"code"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	MinOrderAmount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"min_order_amount"`
	MaxUses         int             `gorm:"default:0" json:"max_uses"` // 0 = unlimited
	UsedCount       int             `gorm:"default:0" json:"used_count"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidUntil      time.Time       `json:"valid_until"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsValidAt checks the active flag, validity window and usage cap.
func (d DiscountCode) IsValidAt(now time.Time) bool {
	if !d.IsActive {
		return false
	}
	if now.Before(d.ValidFrom) || now.After(d.ValidUntil) {
		return false
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return false
	}
	return true
}

func (d DiscountCode) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if d.DiscountPercent.IsPositive() {
		return subtotal.Mul(d.DiscountPercent).Div(decimal.NewFromInt(100))
	}
	return d.DiscountAmount
}
