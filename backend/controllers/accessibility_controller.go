package controllers

import (
	"errors"

	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessibilityController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAccessibilityController(db *gorm.DB, cfg *config.Config) *AccessibilityController {
	return &AccessibilityController{DB: db, Cfg: cfg}
}

// AccessibilityRequest is a merge patch over the course's settings.
// studentAccessType is mandatory only when the settings do not exist yet.
type AccessibilityRequest struct {
	StudentAccessType    *models.StudentAccessType `json:"studentAccessType" validate:"omitnil,oneof=INTERNAL EXTERNAL"`
	AcademicStage        *models.IntList           `json:"academicStage"`
	CanAccessIfPurchased *bool                     `json:"canAccessIfPurchased"`
	IsFree               *bool                     `json:"isFree"`
	BroughtFromTeacherID *string                   `json:"broughtFromTeacherId" validate:"omitnil,min=1"`
}

// UpdateAccessibilitySettings godoc
// @Summary Create or update a course's accessibility settings
// @Description Returns 201 when the settings were created and 200 when existing settings were updated.
// @Description isFree, when given, is written to the course itself.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param settings body AccessibilityRequest true "Settings to apply"
// @Success 200 {object} models.AccessibilitySettings
// @Success 201 {object} models.AccessibilitySettings
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/accessibility [patch]
func (ac *AccessibilityController) UpdateAccessibilitySettings(c *fiber.Ctx) error {
	var input AccessibilityRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	course, err := findCourse(ac.DB, c.Params("courseId"))
	if err != nil {
		return err
	}
	if input.BroughtFromTeacherID != nil {
		if _, err := findTeacher(ac.DB, *input.BroughtFromTeacherID); err != nil {
			return err
		}
	}

	var existing models.AccessibilitySettings
	err = ac.DB.Where("course_id = ?", course.ID).First(&existing).Error
	switch {
	case err == nil:
		if err := ac.updateSettings(course.ID, &existing, input); err != nil {
			return utils.Internal("An error occurred while updating accessibility settings.", err)
		}
		return ac.respond(c, course.ID, fiber.StatusOK)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if input.StudentAccessType == nil {
			return utils.ValidationError("Field 'studentAccessType' is required.",
				map[string]string{"studentAccessType": "Field 'studentAccessType' is required."})
		}
		if err := ac.insertSettings(course.ID, input); err != nil {
			return utils.Internal("An error occurred while updating accessibility settings.", err)
		}
		return ac.respond(c, course.ID, fiber.StatusCreated)
	default:
		return utils.Internal("Could not query database", err)
	}
}

func (ac *AccessibilityController) updateSettings(courseID string, existing *models.AccessibilitySettings, input AccessibilityRequest) error {
	updates := settingsColumns(input)
	return ac.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		return setCourseFree(tx, courseID, input.IsFree)
	})
}

// insertSettings creates the row. A request that lost the race between the
// lookup and this insert hits the unique course_id index and updates the
// winner's row with its own supplied columns instead of adding a second one.
func (ac *AccessibilityController) insertSettings(courseID string, input AccessibilityRequest) error {
	settings := models.AccessibilitySettings{
		CourseID:             courseID,
		StudentAccessType:    *input.StudentAccessType,
		AcademicStage:        datatypes.JSONSlice[int]{},
		BroughtFromTeacherID: input.BroughtFromTeacherID,
	}
	if input.AcademicStage != nil {
		settings.AcademicStage = intSlice(*input.AcademicStage)
	}
	if input.CanAccessIfPurchased != nil {
		settings.CanAccessIfPurchased = *input.CanAccessIfPurchased
	}

	columns := make([]string, 0, 5)
	for column := range settingsColumns(input) {
		columns = append(columns, column)
	}
	// studentAccessType is always among the columns on this path.
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}

	return ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(onConflict).Create(&settings).Error; err != nil {
			return err
		}
		return setCourseFree(tx, courseID, input.IsFree)
	})
}

// respond reloads by course_id, since after a collapsed insert the stored row
// may carry another request's id.
func (ac *AccessibilityController) respond(c *fiber.Ctx, courseID string, status int) error {
	var settings models.AccessibilitySettings
	if err := ac.DB.Where("course_id = ?", courseID).First(&settings).Error; err != nil {
		return utils.Internal("Could not query database", err)
	}
	return c.Status(status).JSON(settings)
}

func settingsColumns(input AccessibilityRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	setIfPresent(updates, "student_access_type", input.StudentAccessType)
	setIfPresent(updates, "can_access_if_purchased", input.CanAccessIfPurchased)
	setIfPresent(updates, "brought_from_teacher_id", input.BroughtFromTeacherID)
	if input.AcademicStage != nil {
		updates["academic_stage"] = intSlice(*input.AcademicStage)
	}
	return updates
}

func setCourseFree(tx *gorm.DB, courseID string, isFree *bool) error {
	if isFree == nil {
		return nil
	}
	return tx.Model(&models.Course{}).Where("id = ?", courseID).Update("is_free", *isFree).Error
}

func intSlice(l []int) datatypes.JSONSlice[int] {
	out := make(datatypes.JSONSlice[int], len(l))
	copy(out, l)
	return out
}
