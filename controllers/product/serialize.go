package productcontroller

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Pravindgholap/fashion-store/models"
)

const productListTTL = 5 * time.Minute

type productListResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	CurrentPrice  decimal.Decimal     `json:"current_price"`
	Gender        models.Gender       `json:"gender"`
	Brand         string              `json:"brand"`
	Image         string              `json:"image"`
	AverageRating float64             `json:"average_rating"`
	IsFeatured    bool                `json:"is_featured"`
}

type productVariantResponse struct {
	ID            uint   `json:"id"`
	Size          string `json:"size"`
	Color         string `json:"color"`
	StockQuantity int    `json:"stock_quantity"`
	SKU           string `json:"sku"`
	InStock       bool   `json:"in_stock"`
}

type reviewResponse struct {
	ID        uint      `json:"id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type productDetailResponse struct {
	productListResponse
	Description string                   `json:"description"`
	Material    string                   `json:"material"`
	Images      []models.ProductImage    `json:"images"`
	Variants    []productVariantResponse `json:"variants"`
	Reviews     []reviewResponse         `json:"reviews"`
	CreatedAt   time.Time                `json:"created_at"`
}

func primaryImage(product models.Product) string {
	image := ""
	for _, img := range product.Images {
		if image == "" || img.IsPrimary {
			image = img.Image
		}
		if img.IsPrimary {
			break
		}
	}
	return image
}

func serializeProductListItem(product models.Product) productListResponse {
	return productListResponse{
		ID:            product.ID,
		Name:          product.Name,
		Category:      product.Category.Name,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		CurrentPrice:  product.CurrentPrice(),
		Gender:        product.Gender,
		Brand:         product.Brand,
		Image:         primaryImage(product),
		AverageRating: product.AverageRating(),
		IsFeatured:    product.IsFeatured,
	}
}

func serializeProductList(products []models.Product) []productListResponse {
	out := make([]productListResponse, 0, len(products))
	for _, p := range products {
		out = append(out, serializeProductListItem(p))
	}
	return out
}

func serializeProductDetail(product models.Product) productDetailResponse {
	variants := make([]productVariantResponse, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, productVariantResponse{
			ID:            v.ID,
			Size:          v.Size,
			Color:         v.Color,
			StockQuantity: v.StockQuantity,
			SKU:           v.SKU,
			InStock:       v.IsInStock(),
		})
	}
	reviews := make([]reviewResponse, 0, len(product.Reviews))
	for _, r := range product.Reviews {
		reviews = append(reviews, reviewResponse{
			ID:        r.ID,
			UserName:  r.User.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return productDetailResponse{
		productListResponse: serializeProductListItem(product),
		Description:         product.Description,
		Material:            product.Material,
		Images:              product.Images,
		Variants:            variants,
		Reviews:             reviews,
		CreatedAt:           product.CreatedAt,
	}
}
