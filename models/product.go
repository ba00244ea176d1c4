package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderKids   Gender = "kids"
	GenderUnisex Gender = "unisex"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Name          string              `gorm:"not null" json:"name"`
	Description   string              `gorm:"type:text" json:"description"`
	CategoryID    uint                `gorm:"index;not null" json:"category_id"`
	Category      Category            `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discount_price"`
	Gender        Gender              `gorm:"type:varchar(10)" json:"gender"`
	Brand         string              `json:"brand"`
	Material      string              `json:"material"`
	IsActive      bool                `gorm:"default:true" json:"is_active"`
	IsFeatured    bool                `gorm:"default:false" json:"is_featured"`
	Images        []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variants      []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Reviews       []Review            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CurrentPrice is the discount price when one is set, else the list price.
func (p Product) CurrentPrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

func (p Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Reviews))
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Image     string `gorm:"not null" json:"image"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductVariant is a purchasable size/color combination of a product.
// StockQuantity must never go negative; order creation decrements it with a
// guarded conditional update.
type ProductVariant struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"uniqueIndex:idx_product_size_color;not null" json:"product_id"`
	Product       Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Size          string    `gorm:"uniqueIndex:idx_product_size_color;size:10" json:"size"`
	Color         string    `gorm:"uniqueIndex:idx_product_size_color;size:50" json:"color"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	SKU           string    `gorm:"column:sku;uniqueIndex;size:50" json:"sku"`
	CreatedAt     time.Time `json:"created_at"`
}

func (v ProductVariant) IsInStock() bool {
	return v.StockQuantity > 0
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_user;not null" json:"product_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_product_user;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
