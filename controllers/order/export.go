package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
)

// GET /admin/orders/export
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		headers := []string{
			"OrderNumber", "Status", "PaymentMethod", "PaymentStatus",
			"Subtotal", "DiscountAmount", "ShippingCost", "TaxAmount",
			"TotalAmount", "Items", "ShippingName", "ShippingCity",
			"ShippingCountry", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, order := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(order.OrderNumber)
			row.AddCell().SetValue(string(order.Status))
			row.AddCell().SetValue(string(order.PaymentMethod))
			row.AddCell().SetValue(order.PaymentStatus)
			row.AddCell().SetValue(order.Subtotal.String())
			row.AddCell().SetValue(order.DiscountAmount.String())
			row.AddCell().SetValue(order.ShippingCost.String())
			row.AddCell().SetValue(order.TaxAmount.String())
			row.AddCell().SetValue(order.TotalAmount.String())
			row.AddCell().SetValue(len(order.Items))
			row.AddCell().SetValue(order.ShippingName)
			row.AddCell().SetValue(order.ShippingCity)
			row.AddCell().SetValue(order.ShippingCountry)
			row.AddCell().SetValue(order.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.Status(http.StatusOK)
	}
}
