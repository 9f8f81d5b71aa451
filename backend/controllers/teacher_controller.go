package controllers

import (
	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const duplicateTeacherEmail = "Teacher with this email already exists."

type TeacherController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTeacherController(db *gorm.DB, cfg *config.Config) *TeacherController {
	return &TeacherController{DB: db, Cfg: cfg}
}

// CreateTeacherRequest requires every field. Level and experience may be 0.
type CreateTeacherRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	JoiningDate string `json:"joiningDate" validate:"required,date"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,date"`
	Phone       string `json:"phone" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Level       *int   `json:"level" validate:"required,gte=0"`
	Experience  *int   `json:"experience" validate:"required,gte=0"`
}

// UpdateTeacherRequest is a merge patch: nil fields keep their stored value.
type UpdateTeacherRequest struct {
	FullName    *string `json:"fullName" validate:"omitnil,min=1"`
	Gender      *string `json:"gender" validate:"omitnil,min=1"`
	JoiningDate *string `json:"joiningDate" validate:"omitnil,date"`
	Email       *string `json:"email" validate:"omitnil,min=1"`
	Password    *string `json:"password" validate:"omitnil,min=1"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitnil,date"`
	Phone       *string `json:"phone" validate:"omitnil,min=1"`
	Department  *string `json:"department" validate:"omitnil,min=1"`
	Level       *int    `json:"level" validate:"omitnil,gte=0"`
	Experience  *int    `json:"experience" validate:"omitnil,gte=0"`
}

// CreateTeacher godoc
// @Summary Create a teacher account
// @Tags admin
// @Accept json
// @Produce json
// @Param teacher body CreateTeacherRequest true "Teacher data"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /admin/teacher/create [post]
func (tc *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var input CreateTeacherRequest
	if err := utils.ParseBody(c, &input, "All fields are required."); err != nil {
		return err
	}

	taken, err := emailInUse(tc.DB, input.Email, "")
	if err != nil {
		return utils.Internal("Internal server error.", err)
	}
	if taken {
		return utils.Conflict(duplicateTeacherEmail)
	}

	hashed, err := utils.HashPassword(input.Password, tc.Cfg.Auth.BcryptCost)
	if err != nil {
		return utils.Internal("Internal server error.", err)
	}

	teacher := models.Teacher{
		FullName:    input.FullName,
		Gender:      input.Gender,
		JoiningDate: utils.MustParseDate(input.JoiningDate),
		Email:       input.Email,
		Password:    hashed,
		DateOfBirth: utils.MustParseDate(input.DateOfBirth),
		Phone:       input.Phone,
		Department:  input.Department,
		Level:       *input.Level,
		Experience:  *input.Experience,
	}
	// A concurrent create with the same email loses on the unique index.
	if err := tc.DB.Create(&teacher).Error; err != nil {
		return writeError(err, duplicateTeacherEmail, "Internal server error.")
	}

	return utils.Message(c, fiber.StatusCreated, "Teacher created successfully.")
}

// GetAllTeachers godoc
// @Summary List teachers with their courses
// @Tags admin
// @Produce json
// @Success 200 {array} models.Teacher
// @Failure 500 {object} utils.ErrorResponse
// @Router /admin/teacher/getAll [get]
func (tc *TeacherController) GetAllTeachers(c *fiber.Ctx) error {
	teachers := []models.Teacher{}
	if err := tc.DB.Preload("Courses").Order("created_at").Find(&teachers).Error; err != nil {
		return utils.Internal("Internal server error.", err)
	}
	return utils.OK(c, teachers)
}

// GetTeacherByID godoc
// @Summary Get a teacher with their courses
// @Tags admin
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} models.Teacher
// @Failure 404 {object} utils.ErrorResponse
// @Router /admin/teacher/{id} [get]
func (tc *TeacherController) GetTeacherByID(c *fiber.Ctx) error {
	var teacher models.Teacher
	if err := tc.DB.Preload("Courses").First(&teacher, "id = ?", c.Params("id")).Error; err != nil {
		return lookupError(err, "Teacher not found.")
	}
	return utils.OK(c, teacher)
}

// UpdateTeacher godoc
// @Summary Update a teacher
// @Description Only supplied fields change. A new password is re-hashed.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param teacher body UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /admin/teacher/{id} [put]
func (tc *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	var input UpdateTeacherRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	teacher, err := findTeacher(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	if input.Email != nil {
		taken, err := emailInUse(tc.DB, *input.Email, teacher.ID)
		if err != nil {
			return utils.Internal("Internal server error.", err)
		}
		if taken {
			return utils.Conflict(duplicateTeacherEmail)
		}
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "full_name", input.FullName)
	setIfPresent(updates, "gender", input.Gender)
	setIfPresent(updates, "email", input.Email)
	setIfPresent(updates, "phone", input.Phone)
	setIfPresent(updates, "department", input.Department)
	setIfPresent(updates, "level", input.Level)
	setIfPresent(updates, "experience", input.Experience)
	if input.JoiningDate != nil {
		updates["joining_date"] = utils.MustParseDate(*input.JoiningDate)
	}
	if input.DateOfBirth != nil {
		updates["date_of_birth"] = utils.MustParseDate(*input.DateOfBirth)
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password, tc.Cfg.Auth.BcryptCost)
		if err != nil {
			return utils.Internal("Internal server error.", err)
		}
		updates["password"] = hashed
	}

	if len(updates) > 0 {
		if err := tc.DB.Model(teacher).Updates(updates).Error; err != nil {
			return writeError(err, duplicateTeacherEmail, "Internal server error.")
		}
	}

	var updated models.Teacher
	if err := tc.DB.First(&updated, "id = ?", teacher.ID).Error; err != nil {
		return utils.Internal("Internal server error.", err)
	}

	return utils.OK(c, fiber.Map{
		"message":        "Teacher updated successfully.",
		"updatedTeacher": updated,
	})
}

// DeleteTeacher godoc
// @Summary Delete a teacher and every course they own
// @Tags admin
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /admin/{id} [delete]
func (tc *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	teacher, err := findTeacher(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		var courseIDs []string
		if err := tx.Model(&models.Course{}).Where("instructor_id = ?", teacher.ID).Pluck("id", &courseIDs).Error; err != nil {
			return err
		}
		if err := deleteCourseTrees(tx, courseIDs); err != nil {
			return err
		}
		return tx.Delete(&models.Teacher{}, "id = ?", teacher.ID).Error
	})
	if err != nil {
		return utils.Internal("Internal server error.", err)
	}

	return utils.Message(c, fiber.StatusOK, "Teacher deleted successfully.")
}

// setIfPresent copies a supplied patch field into a gorm column map.
func setIfPresent[T any](updates map[string]interface{}, column string, value *T) {
	if value != nil {
		updates[column] = *value
	}
}
