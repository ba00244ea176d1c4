package orderControllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Pravindgholap/fashion-store/models"
)

type orderItemResponse struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderTrackingResponse struct {
	Status    models.OrderStatus `json:"status"`
	Message   string             `json:"message"`
	Location  string             `json:"location"`
	CreatedAt time.Time          `json:"created_at"`
}

// orderDetailResponse carries the totals contract:
// order_number, status, subtotal, discount_amount, shipping_cost,
// tax_amount, total_amount and items.
type orderDetailResponse struct {
	ID              uint                    `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	Status          models.OrderStatus      `json:"status"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	DiscountAmount  decimal.Decimal         `json:"discount_amount"`
	ShippingCost    decimal.Decimal         `json:"shipping_cost"`
	TaxAmount       decimal.Decimal         `json:"tax_amount"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	Items           []orderItemResponse     `json:"items"`
	PaymentMethod   models.PaymentMethod    `json:"payment_method"`
	PaymentStatus   string                  `json:"payment_status"`
	ShippingName    string                  `json:"shipping_name"`
	ShippingCity    string                  `json:"shipping_city"`
	ShippingCountry string                  `json:"shipping_country"`
	TrackingNumber  string                  `json:"tracking_number"`
	TrackingUpdates []orderTrackingResponse `json:"tracking_updates"`
	CreatedAt       time.Time               `json:"created_at"`
}

type orderListResponse struct {
	ID                uint               `json:"id"`
	OrderNumber       string             `json:"order_number"`
	Status            models.OrderStatus `json:"status"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	ItemsCount        int                `json:"items_count"`
	CreatedAt         time.Time          `json:"created_at"`
	EstimatedDelivery *time.Time         `json:"estimated_delivery"`
}

func serializeOrderDetail(order models.Order) orderDetailResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Color:       item.Color,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}
	updates := make([]orderTrackingResponse, 0, len(order.TrackingUpdates))
	for _, t := range order.TrackingUpdates {
		updates = append(updates, orderTrackingResponse{
			Status:    t.Status,
			Message:   t.Message,
			Location:  t.Location,
			CreatedAt: t.CreatedAt,
		})
	}
	return orderDetailResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		DiscountAmount:  order.DiscountAmount,
		ShippingCost:    order.ShippingCost,
		TaxAmount:       order.TaxAmount,
		TotalAmount:     order.TotalAmount,
		Items:           items,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		ShippingName:    order.ShippingName,
		ShippingCity:    order.ShippingCity,
		ShippingCountry: order.ShippingCountry,
		TrackingNumber:  order.TrackingNumber,
		TrackingUpdates: updates,
		CreatedAt:       order.CreatedAt,
	}
}

func serializeOrderList(orders []models.Order) []orderListResponse {
	out := make([]orderListResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, orderListResponse{
			ID:                order.ID,
			OrderNumber:       order.OrderNumber,
			Status:            order.Status,
			TotalAmount:       order.TotalAmount,
			ItemsCount:        len(order.Items),
			CreatedAt:         order.CreatedAt,
			EstimatedDelivery: order.EstimatedDelivery,
		})
	}
	return out
}
