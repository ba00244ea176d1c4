package productcontroller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/models"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// POST /products/:id/reviews
func AddReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		var product models.Product
		err := db.First(&product, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Product not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		var count int64
		if err := db.Model(&models.Review{}).
			Where("product_id = ? AND user_id = ?", product.ID, userID).
			Count(&count).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		if count > 0 {
			errs.Abort(c, errs.Validation("You have already reviewed this product"))
			return
		}

		review := models.Review{
			ProductID: product.ID,
			UserID:    userID,
			Rating:    input.Rating,
			Comment:   input.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			// Unique (product,user) index closes the check-then-create race.
			errs.Abort(c, errs.Conflict(err, "You have already reviewed this product"))
			return
		}
		c.JSON(201, review)
	}
}
