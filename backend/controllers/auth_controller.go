package controllers

import (
	"errors"
	"strings"

	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    utils.Identity `json:"user"`
}

// Register godoc
// @Summary Register a new student
// @Description Creates a student account and returns a token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Student registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}
	email := strings.TrimSpace(input.Email)

	taken, err := emailInUse(ac.DB, email, "")
	if err != nil {
		return utils.Internal("Could not query database", err)
	}
	if taken {
		return utils.Conflict("User with this email already exists.")
	}

	hashed, err := utils.HashPassword(input.Password, ac.Cfg.Auth.BcryptCost)
	if err != nil {
		return utils.Internal("Could not hash password", err)
	}

	user := models.User{Email: email, Password: hashed, Role: models.RoleStudent}
	if err := ac.DB.Create(&user).Error; err != nil {
		return writeError(err, "User with this email already exists.", "Could not create user")
	}

	identity := utils.Identity{ID: user.ID, Email: user.Email, Role: string(user.Role)}
	token, err := utils.GenerateJWTToken(identity, ac.Cfg)
	if err != nil {
		return utils.Internal("Could not generate token", err)
	}

	return utils.Created(c, AuthResponse{
		Message: "Registration successful.",
		Token:   token,
		User:    identity,
	})
}

// Login godoc
// @Summary Log in as a student or a teacher
// @Description Students are looked up first, then teachers. Returns a JWT on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := utils.ParseBody(c, &input, "Email and password are required."); err != nil {
		return err
	}

	identity, hash, err := ac.lookupAccount(strings.TrimSpace(input.Email))
	if err != nil {
		return err
	}

	if !utils.CheckPassword(hash, input.Password) {
		return utils.InvalidCredentials("Invalid password.")
	}

	token, err := utils.GenerateJWTToken(*identity, ac.Cfg)
	if err != nil {
		return utils.Internal("An error occurred during login.", err)
	}

	return utils.OK(c, AuthResponse{
		Message: "Login successful.",
		Token:   token,
		User:    *identity,
	})
}

// lookupAccount resolves an email to an identity and its password hash.
// Students shadow teachers with the same email.
func (ac *AuthController) lookupAccount(email string) (*utils.Identity, string, error) {
	var user models.User
	err := ac.DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &utils.Identity{ID: user.ID, Email: user.Email, Role: string(user.Role)}, user.Password, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", utils.Internal("An error occurred during login.", err)
	}

	var teacher models.Teacher
	if err := ac.DB.Where("email = ?", email).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.NotFound("User not found.")
		}
		return nil, "", utils.Internal("An error occurred during login.", err)
	}
	return &utils.Identity{ID: teacher.ID, Email: teacher.Email, Role: string(models.RoleTeacher)}, teacher.Password, nil
}
