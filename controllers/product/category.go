package productcontroller

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
}

// GET /products/categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, categories)
	}
}

// POST /admin/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		category := models.Category{
			Name:        input.Name,
			Description: input.Description,
			Image:       input.Image,
			IsActive:    true,
		}
		if input.IsActive != nil {
			category.IsActive = *input.IsActive
		}
		if err := db.Create(&category).Error; err != nil {
			errs.Abort(c, errs.Conflict(err, "Failed to create category"))
			return
		}
		c.JSON(201, category)
	}
}

// PUT /admin/categories/:id
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			errs.Abort(c, errs.NotFound("Category not found"))
			return
		}

		category.Name = input.Name
		category.Description = input.Description
		category.Image = input.Image
		if input.IsActive != nil {
			category.IsActive = *input.IsActive
		}
		if err := db.Save(&category).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Category{}, "id = ?", c.Param("id"))
		if res.Error != nil {
			errs.Abort(c, errs.Unexpected(res.Error))
			return
		}
		if res.RowsAffected == 0 {
			errs.Abort(c, errs.NotFound("Category not found"))
			return
		}
		c.JSON(200, gin.H{"message": "Category deleted"})
	}
}
