package controllers

import (
	"fmt"
	"strings"

	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PartsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPartsController(db *gorm.DB, cfg *config.Config) *PartsController {
	return &PartsController{DB: db, Cfg: cfg}
}

type AddPartRequest struct {
	Title          string   `json:"title" validate:"required"`
	Price          *float64 `json:"price" validate:"required,gte=0"`
	CompletionTime *float64 `json:"completionTime" validate:"required,gte=0"`
	OpeningDate    string   `json:"openingDate" validate:"required,date"`
}

type UpdatePartRequest struct {
	Title          *string  `json:"title" validate:"omitnil,min=1"`
	Price          *float64 `json:"price" validate:"omitnil,gte=0"`
	CompletionTime *float64 `json:"completionTime" validate:"omitnil,gte=0"`
	OpeningDate    *string  `json:"openingDate" validate:"omitnil,date"`
}

type ModuleRequest struct {
	Type models.ModuleType `json:"type" validate:"required,oneof=CHAPTER EXAM ASSIGNMENT ATTACHMENT"`
}

type UpdateModuleRequest struct {
	Type *models.ModuleType `json:"type" validate:"omitnil,oneof=CHAPTER EXAM ASSIGNMENT ATTACHMENT"`
}

type ClipInput struct {
	Title    string `json:"title" validate:"required"`
	URL      string `json:"url" validate:"required"`
	Duration int    `json:"duration" validate:"gte=0"`
	Position *int   `json:"position" validate:"omitnil,gte=0"`
}

// ChapterModuleRequest describes the chapter's lesson and its clips.
type ChapterModuleRequest struct {
	Title         string      `json:"title" validate:"required"`
	VideoURL      *string     `json:"videoUrl"`
	AudioURL      *string     `json:"audioUrl"`
	IsPromotional *bool       `json:"isPromotional"`
	Clips         []ClipInput `json:"clips" validate:"dive"`
}

// QuizModuleRequest is the body of both exam and assignment modules.
type QuizModuleRequest struct {
	Title     string          `json:"title" validate:"required"`
	Questions []QuestionInput `json:"questions" validate:"dive"`
}

type AttachmentModuleRequest struct {
	Attachments []AttachmentInput `json:"attachments" validate:"required,min=1,dive"`
}

// invalidModuleType names the accepted kinds.
func invalidModuleType() string {
	kinds := make([]string, len(models.ModuleTypes))
	for i, t := range models.ModuleTypes {
		kinds[i] = string(t)
	}
	return fmt.Sprintf("Invalid module type. Must be one of %s.", strings.Join(kinds, ", "))
}

// AddCoursePart godoc
// @Summary Add a part to a course
// @Tags parts
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param part body AddPartRequest true "Part data"
// @Success 201 {object} models.Part
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts [post]
func (pc *PartsController) AddCoursePart(c *fiber.Ctx) error {
	var input AddPartRequest
	if err := utils.ParseBody(c, &input, "All fields are required."); err != nil {
		return err
	}

	course, err := findCourse(pc.DB, c.Params("courseId"))
	if err != nil {
		return err
	}

	part := models.Part{
		Title:          input.Title,
		Price:          *input.Price,
		CompletionTime: *input.CompletionTime,
		OpeningDate:    utils.MustParseDate(input.OpeningDate),
		CourseID:       course.ID,
	}
	if err := pc.DB.Create(&part).Error; err != nil {
		return utils.Internal("An error occurred while adding course parts.", err)
	}
	return utils.Created(c, part)
}

// UpdateCoursePart godoc
// @Summary Update a part of a course
// @Tags parts
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param partId path string true "Part ID"
// @Param part body UpdatePartRequest true "Fields to change"
// @Success 200 {object} models.Part
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts/{partId} [patch]
func (pc *PartsController) UpdateCoursePart(c *fiber.Ctx) error {
	var input UpdatePartRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	part, err := findPartInCourse(pc.DB, c.Params("courseId"), c.Params("partId"))
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "title", input.Title)
	setIfPresent(updates, "price", input.Price)
	setIfPresent(updates, "completion_time", input.CompletionTime)
	if input.OpeningDate != nil {
		updates["opening_date"] = utils.MustParseDate(*input.OpeningDate)
	}
	if len(updates) > 0 {
		if err := pc.DB.Model(part).Updates(updates).Error; err != nil {
			return utils.Internal("An error occurred while updating the course part.", err)
		}
	}

	var updated models.Part
	if err := pc.DB.First(&updated, "id = ?", part.ID).Error; err != nil {
		return utils.Internal("An error occurred while updating the course part.", err)
	}
	return utils.OK(c, updated)
}

// AddModuleToPart godoc
// @Summary Add an empty module to a part
// @Tags modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param partId path string true "Part ID"
// @Param module body ModuleRequest true "Module type"
// @Success 201 {object} models.Module
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts/{partId}/modules [post]
func (pc *PartsController) AddModuleToPart(c *fiber.Ctx) error {
	var input ModuleRequest
	if err := utils.ParseBody(c, &input, invalidModuleType()); err != nil {
		return err
	}

	part, err := findPartInCourse(pc.DB, c.Params("courseId"), c.Params("partId"))
	if err != nil {
		return err
	}

	module := models.Module{Type: input.Type, PartID: part.ID, CourseID: part.CourseID}
	if err := pc.DB.Create(&module).Error; err != nil {
		return utils.Internal("An error occurred while adding modules.", err)
	}
	return utils.Created(c, module)
}

// UpdateModuleInPart changes a module's type.
func (pc *PartsController) UpdateModuleInPart(c *fiber.Ctx) error {
	var input UpdateModuleRequest
	if err := utils.ParseBody(c, &input, invalidModuleType()); err != nil {
		return err
	}

	module, err := findModuleInPart(pc.DB, c.Params("courseId"), c.Params("partId"), c.Params("moduleId"))
	if err != nil {
		return err
	}

	if input.Type != nil {
		if err := pc.DB.Model(module).Update("type", *input.Type).Error; err != nil {
			return utils.Internal("An error occurred while updating the module.", err)
		}
	}

	var updated models.Module
	if err := pc.DB.First(&updated, "id = ?", module.ID).Error; err != nil {
		return utils.Internal("An error occurred while updating the module.", err)
	}
	return utils.OK(c, updated)
}

// AddChapterModule godoc
// @Summary Add a chapter module with its lesson and clips
// @Description The module, lesson and clips are created in one transaction.
// @Tags modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param partId path string true "Part ID"
// @Param chapter body ChapterModuleRequest true "Lesson and clips"
// @Success 201 {object} models.Module
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts/{partId}/modules/chapter [post]
func (pc *PartsController) AddChapterModule(c *fiber.Ctx) error {
	var input ChapterModuleRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	part, err := findPartInCourse(pc.DB, c.Params("courseId"), c.Params("partId"))
	if err != nil {
		return err
	}

	var module models.Module
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		module = models.Module{Type: models.ModuleChapter, PartID: part.ID, CourseID: part.CourseID}
		if err := tx.Create(&module).Error; err != nil {
			return err
		}

		lesson := models.Lesson{
			Title:         input.Title,
			VideoURL:      input.VideoURL,
			AudioURL:      input.AudioURL,
			IsPromotional: input.IsPromotional != nil && *input.IsPromotional,
			ModuleID:      module.ID,
		}
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}

		clips := make([]models.Clip, len(input.Clips))
		for i, in := range input.Clips {
			position := i
			if in.Position != nil {
				position = *in.Position
			}
			clips[i] = models.Clip{Title: in.Title, URL: in.URL, Duration: in.Duration, Position: position, LessonID: lesson.ID}
		}
		if len(clips) > 0 {
			if err := tx.Create(&clips).Error; err != nil {
				return err
			}
		}

		lesson.Clips = clips
		module.Lessons = []models.Lesson{lesson}
		return nil
	})
	if err != nil {
		return utils.Internal("An error occurred while adding the chapter module.", err)
	}
	return utils.Created(c, module)
}

// AddExamModule creates an exam module, its exam and the exam's questions atomically.
func (pc *PartsController) AddExamModule(c *fiber.Ctx) error {
	var input QuizModuleRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	part, err := findPartInCourse(pc.DB, c.Params("courseId"), c.Params("partId"))
	if err != nil {
		return err
	}

	var module models.Module
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		module = models.Module{Type: models.ModuleExam, PartID: part.ID, CourseID: part.CourseID}
		if err := tx.Create(&module).Error; err != nil {
			return err
		}

		exam := models.Exam{Title: input.Title, ModuleID: module.ID}
		if err := tx.Create(&exam).Error; err != nil {
			return err
		}

		questions := buildQuestions(input.Questions, func(q *models.Question) { q.ExamID = &exam.ID })
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}

		exam.Questions = questions
		module.Exams = []models.Exam{exam}
		return nil
	})
	if err != nil {
		return utils.Internal("An error occurred while adding the exam module.", err)
	}
	return utils.Created(c, module)
}

// AddAssignmentModule is AddExamModule for assignments.
func (pc *PartsController) AddAssignmentModule(c *fiber.Ctx) error {
	var input QuizModuleRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	part, err := findPartInCourse(pc.DB, c.Params("courseId"), c.Params("partId"))
	if err != nil {
		return err
	}

	var module models.Module
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		module = models.Module{Type: models.ModuleAssignment, PartID: part.ID, CourseID: part.CourseID}
		if err := tx.Create(&module).Error; err != nil {
			return err
		}

		assignment := models.Assignment{Title: input.Title, ModuleID: module.ID}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		questions := buildQuestions(input.Questions, func(q *models.Question) { q.AssignmentID = &assignment.ID })
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}

		assignment.Questions = questions
		module.Assignments = []models.Assignment{assignment}
		return nil
	})
	if err != nil {
		return utils.Internal("An error occurred while adding the assignment module.", err)
	}
	return utils.Created(c, module)
}

// AddAttachmentModule creates an attachment module with at least one attachment.
func (pc *PartsController) AddAttachmentModule(c *fiber.Ctx) error {
	var input AttachmentModuleRequest
	if err := utils.ParseBody(c, &input, "Invalid attachment format."); err != nil {
		return err
	}

	part, err := findPartInCourse(pc.DB, c.Params("courseId"), c.Params("partId"))
	if err != nil {
		return err
	}

	var module models.Module
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		module = models.Module{Type: models.ModuleAttachment, PartID: part.ID, CourseID: part.CourseID}
		if err := tx.Create(&module).Error; err != nil {
			return err
		}

		attachments := buildAttachments(input.Attachments, module.ID)
		if err := tx.Create(&attachments).Error; err != nil {
			return err
		}

		module.Attachments = attachments
		return nil
	})
	if err != nil {
		return utils.Internal("An error occurred while adding the attachment module.", err)
	}
	return utils.Created(c, module)
}
