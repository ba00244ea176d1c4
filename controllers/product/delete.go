package productcontroller

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
)

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := db.Transaction(func(tx *gorm.DB) error {
			productID := c.Param("id")
			if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&models.Product{}, "id = ?", productID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NotFound("Product not found")
			}
			return nil
		})
		if err != nil {
			errs.Abort(c, err)
			return
		}

		invalidateProductCache(c, store)
		c.JSON(200, gin.H{"message": "Product deleted"})
	}
}
