package userControllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/models"
)

type AddressInput struct {
	FullName     string `json:"full_name" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"required,max=15"`
	AddressLine1 string `json:"address_line1" binding:"required,max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	PostalCode   string `json:"postal_code" binding:"required,max=10"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// GET /user/addresses
func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).
			Order("is_default DESC, created_at DESC").
			Find(&addresses).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, addresses)
	}
}

// POST /user/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		address := models.Address{
			UserID:       userID,
			FullName:     input.FullName,
			Phone:        input.Phone,
			AddressLine1: input.AddressLine1,
			AddressLine2: input.AddressLine2,
			City:         input.City,
			State:        input.State,
			PostalCode:   input.PostalCode,
			Country:      input.Country,
			IsDefault:    input.IsDefault,
		}
		if address.Country == "" {
			address.Country = "India"
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if address.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ?", userID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(&address).Error
		})
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(201, address)
	}
}

// PUT /user/addresses/:address_id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		var address models.Address
		err := db.Where("id = ? AND user_id = ?", c.Param("address_id"), userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Address not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		address.FullName = input.FullName
		address.Phone = input.Phone
		address.AddressLine1 = input.AddressLine1
		address.AddressLine2 = input.AddressLine2
		address.City = input.City
		address.State = input.State
		address.PostalCode = input.PostalCode
		if input.Country != "" {
			address.Country = input.Country
		}
		address.IsDefault = input.IsDefault

		err = db.Transaction(func(tx *gorm.DB) error {
			if address.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ? AND id <> ?", userID, address.ID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Save(&address).Error
		})
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, address)
	}
}

// DELETE /user/addresses/:address_id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		res := db.Where("id = ? AND user_id = ?", c.Param("address_id"), userID).
			Delete(&models.Address{})
		if res.Error != nil {
			errs.Abort(c, errs.Unexpected(res.Error))
			return
		}
		if res.RowsAffected == 0 {
			errs.Abort(c, errs.NotFound("Address not found"))
			return
		}
		c.JSON(200, gin.H{"message": "Address deleted"})
	}
}
