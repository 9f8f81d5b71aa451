package controllers

import (
	"strconv"

	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

type CreateCourseRequest struct {
	Title            string            `json:"title" validate:"required"`
	Description      string            `json:"description" validate:"required"`
	IsFree           *bool             `json:"isFree" validate:"required"`
	Objectives       models.StringList `json:"objectives" validate:"required"`
	WhatYouWillLearn models.StringList `json:"whatYouWillLearn"`
	InstructorID     string            `json:"instructorId" validate:"required"`
}

// UpdateCourseRequest is a merge patch. A supplied list replaces the stored one.
type UpdateCourseRequest struct {
	Title            *string            `json:"title" validate:"omitnil,min=1"`
	Description      *string            `json:"description" validate:"omitnil,min=1"`
	IsFree           *bool              `json:"isFree"`
	IsActive         *bool              `json:"isActive"`
	Objectives       *models.StringList `json:"objectives"`
	WhatYouWillLearn *models.StringList `json:"whatYouWillLearn"`
}

type AddObjectivesRequest struct {
	Objectives []string `json:"objectives" validate:"required,min=1,dive,required"`
}

type UpdateObjectiveRequest struct {
	Objective string `json:"objective" validate:"required"`
}

type SendForReviewRequest struct {
	Status *bool `json:"status"`
}

// CreateCourse godoc
// @Summary Create a course
// @Description Creates a draft course with no parts for an existing instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param course body CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input CreateCourseRequest
	if err := utils.ParseBody(c, &input, "All fields are required."); err != nil {
		return err
	}

	if _, err := findTeacher(cc.DB, input.InstructorID); err != nil {
		return err
	}

	course := models.Course{
		Title:            input.Title,
		Description:      input.Description,
		IsFree:           *input.IsFree,
		Objectives:       stringSlice(input.Objectives),
		WhatYouWillLearn: stringSlice(input.WhatYouWillLearn),
		IsDraft:          true,
		InstructorID:     input.InstructorID,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.Internal("An error occurred while creating the course.", err)
	}

	return utils.Created(c, course)
}

// GetCourse godoc
// @Summary Get a course with its accessibility settings, parts and modules
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	var course models.Course
	err := cc.DB.
		Preload("Accessibility").
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Parts.Modules", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&course, "id = ?", c.Params("courseId")).Error
	if err != nil {
		return lookupError(err, "Course not found.")
	}
	return utils.OK(c, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Only supplied fields change
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param course body UpdateCourseRequest true "Fields to change"
// @Success 200 {object} models.Course
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId} [patch]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	var input UpdateCourseRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "title", input.Title)
	setIfPresent(updates, "description", input.Description)
	setIfPresent(updates, "is_free", input.IsFree)
	setIfPresent(updates, "is_active", input.IsActive)
	if input.Objectives != nil {
		updates["objectives"] = stringSlice(*input.Objectives)
	}
	if input.WhatYouWillLearn != nil {
		updates["what_you_will_learn"] = stringSlice(*input.WhatYouWillLearn)
	}

	return cc.applyAndRespond(c, course, updates, "An error occurred while updating the course.")
}

// DeleteCourse godoc
// @Summary Delete a course and everything under it
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return err
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		return deleteCourseTrees(tx, []string{course.ID})
	})
	if err != nil {
		return utils.Internal("An error occurred while deleting the course.", err)
	}

	return utils.Message(c, fiber.StatusOK, "Course deleted successfully.")
}

// AddCourseObjectives appends to the course's objectives.
func (cc *CoursesController) AddCourseObjectives(c *fiber.Ctx) error {
	var input AddObjectivesRequest
	if err := utils.ParseBody(c, &input, "Objectives must be a non-empty array of strings."); err != nil {
		return err
	}

	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return err
	}

	objectives := append(stringSlice(course.Objectives), input.Objectives...)
	updates := map[string]interface{}{"objectives": objectives}
	return cc.applyAndRespond(c, course, updates, "An error occurred while adding course objectives.")
}

// UpdateCourseObjective replaces the objective at :objectiveIndex.
func (cc *CoursesController) UpdateCourseObjective(c *fiber.Ctx) error {
	var input UpdateObjectiveRequest
	if err := utils.ParseBody(c, &input, "Objective is required."); err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Params("objectiveIndex"))
	if err != nil || index < 0 {
		return utils.ValidationError("Invalid objective index.")
	}

	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return err
	}
	if index >= len(course.Objectives) {
		return utils.ValidationError("Objective index out of range.")
	}

	objectives := stringSlice(course.Objectives)
	objectives[index] = input.Objective
	updates := map[string]interface{}{"objectives": objectives}
	return cc.applyAndRespond(c, course, updates, "An error occurred while updating the course objective.")
}

// SendForReview godoc
// @Summary Submit a course for review, or withdraw it
// @Description status defaults to true. true marks the course under review and clears the draft flag; false reverts it to a draft.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param body body SendForReviewRequest false "Review status"
// @Success 200 {object} models.Course
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/send-for-review [post]
func (cc *CoursesController) SendForReview(c *fiber.Ctx) error {
	var input SendForReviewRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}
	status := true
	if input.Status != nil {
		status = *input.Status
	}

	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"is_under_review": status,
		"is_draft":        !status,
	}
	return cc.applyAndRespond(c, course, updates, "An error occurred while sending the course for review.")
}

// applyAndRespond writes updates (if any) and returns the reloaded course.
func (cc *CoursesController) applyAndRespond(c *fiber.Ctx, course *models.Course, updates map[string]interface{}, failure string) error {
	if len(updates) > 0 {
		if err := cc.DB.Model(course).Updates(updates).Error; err != nil {
			return utils.Internal(failure, err)
		}
	}

	var updated models.Course
	if err := cc.DB.First(&updated, "id = ?", course.ID).Error; err != nil {
		return utils.Internal(failure, err)
	}
	return utils.OK(c, updated)
}

// stringSlice copies l into a non-nil column value so empty lists store as [].
func stringSlice(l []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], len(l))
	copy(out, l)
	return out
}
