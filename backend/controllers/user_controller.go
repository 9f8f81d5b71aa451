package controllers

import (
	"edulearn/backend/config"
	"edulearn/backend/middleware"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Returns the authenticated student or teacher record
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return utils.Unauthenticated("Not authenticated, no token provided.")
	}

	if identity.Role == string(models.RoleTeacher) {
		var teacher models.Teacher
		if err := uc.DB.Preload("Courses").First(&teacher, "id = ?", identity.ID).Error; err != nil {
			return lookupError(err, "User not found.")
		}
		return utils.OK(c, fiber.Map{
			"role":    identity.Role,
			"teacher": teacher,
		})
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", identity.ID).Error; err != nil {
		return lookupError(err, "User not found.")
	}
	return utils.OK(c, fiber.Map{
		"role": identity.Role,
		"user": user,
	})
}
