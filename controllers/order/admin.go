package orderControllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
)

type UpdateOrderStatusInput struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Message        string `json:"message"`
}

// GET /admin/orders
func ListAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, serializeOrderList(orders))
	}
}

// PUT /admin/orders/:order_id/status
//
// Sets a new status from the fixed enumeration. Deliberately permissive:
// any status may follow any other, each change appends a tracking entry.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}
		status, ok := models.ParseOrderStatus(input.Status)
		if !ok {
			errs.Abort(c, errs.Validation("Invalid order status"))
			return
		}

		var order models.Order
		err := db.First(&order, "id = ?", c.Param("order_id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Order not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		message := input.Message
		if message == "" {
			message = "Order status updated to " + string(status)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{"status": status}
			if input.TrackingNumber != "" {
				updates["tracking_number"] = input.TrackingNumber
			}
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return errs.Unexpected(err)
			}
			if err := tx.Create(&models.OrderTracking{
				OrderID: order.ID,
				Status:  status,
				Message: message,
			}).Error; err != nil {
				return errs.Unexpected(err)
			}
			return nil
		})
		if err != nil {
			errs.Abort(c, err)
			return
		}

		order, err = loadOrder(db, order.ID)
		if err != nil {
			errs.Abort(c, err)
			return
		}

		broadcastOrderEvent("order_status_updated", order)
		c.JSON(200, serializeOrderDetail(order))
	}
}
