package controllers

import (
	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ModuleContentController manages lessons, questions and attachments placed
// directly in a module.
type ModuleContentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewModuleContentController(db *gorm.DB, cfg *config.Config) *ModuleContentController {
	return &ModuleContentController{DB: db, Cfg: cfg}
}

type LessonRequest struct {
	Title         string  `json:"title" validate:"required"`
	VideoURL      *string `json:"videoUrl"`
	AudioURL      *string `json:"audioUrl"`
	IsPromotional *bool   `json:"isPromotional"`
}

type UpdateLessonRequest struct {
	Title         *string `json:"title" validate:"omitnil,min=1"`
	VideoURL      *string `json:"videoUrl"`
	AudioURL      *string `json:"audioUrl"`
	IsPromotional *bool   `json:"isPromotional"`
}

// QuestionInput defaults options to [] and correctAnswer to "".
type QuestionInput struct {
	QuestionText  string            `json:"questionText" validate:"required"`
	AnswerType    models.AnswerType `json:"answerType" validate:"required,oneof=MCQ TRUE_FALSE SHORT_ANSWER"`
	Options       []string          `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
}

type QuestionsRequest struct {
	Questions []QuestionInput `json:"questions" validate:"required,dive"`
}

type UpdateQuestionRequest struct {
	QuestionText  *string            `json:"questionText" validate:"omitnil,min=1"`
	AnswerType    *models.AnswerType `json:"answerType" validate:"omitnil,oneof=MCQ TRUE_FALSE SHORT_ANSWER"`
	Options       *[]string          `json:"options"`
	CorrectAnswer *string            `json:"correctAnswer"`
}

type AttachmentInput struct {
	FileType    string `json:"fileType" validate:"required"`
	FileURL     string `json:"fileUrl" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type AttachmentsRequest struct {
	Attachments []AttachmentInput `json:"attachments" validate:"required,dive"`
}

type UpdateAttachmentRequest struct {
	FileType    *string `json:"fileType" validate:"omitnil,min=1"`
	FileURL     *string `json:"fileUrl" validate:"omitnil,min=1"`
	Description *string `json:"description" validate:"omitnil,min=1"`
}

// AddLessonToModule godoc
// @Summary Add a lesson to a module
// @Tags modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param partId path string true "Part ID"
// @Param moduleId path string true "Module ID"
// @Param lesson body LessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts/{partId}/modules/{moduleId}/lessons [post]
func (mc *ModuleContentController) AddLessonToModule(c *fiber.Ctx) error {
	var input LessonRequest
	if err := utils.ParseBody(c, &input, "Lesson title is required."); err != nil {
		return err
	}

	module, err := mc.module(c)
	if err != nil {
		return err
	}

	lesson := models.Lesson{
		Title:         input.Title,
		VideoURL:      input.VideoURL,
		AudioURL:      input.AudioURL,
		IsPromotional: input.IsPromotional != nil && *input.IsPromotional,
		ModuleID:      module.ID,
	}
	if err := mc.DB.Create(&lesson).Error; err != nil {
		return utils.Internal("An error occurred while adding lessons.", err)
	}
	return utils.Created(c, lesson)
}

func (mc *ModuleContentController) UpdateLessonInModule(c *fiber.Ctx) error {
	var input UpdateLessonRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	module, err := mc.module(c)
	if err != nil {
		return err
	}

	var lesson models.Lesson
	if err := mc.DB.First(&lesson, "id = ? AND module_id = ?", c.Params("lessonId"), module.ID).Error; err != nil {
		return lookupError(err, "Lesson not found in the specified module.")
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "title", input.Title)
	setIfPresent(updates, "video_url", input.VideoURL)
	setIfPresent(updates, "audio_url", input.AudioURL)
	setIfPresent(updates, "is_promotional", input.IsPromotional)

	return mc.patch(c, &lesson, updates, "An error occurred while updating the lesson.")
}

// AddQuestionsToModule godoc
// @Summary Bulk-add questions to a module
// @Tags modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param partId path string true "Part ID"
// @Param moduleId path string true "Module ID"
// @Param questions body QuestionsRequest true "Questions"
// @Success 201 {object} map[string]int
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts/{partId}/modules/{moduleId}/questions [post]
func (mc *ModuleContentController) AddQuestionsToModule(c *fiber.Ctx) error {
	var input QuestionsRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	module, err := mc.module(c)
	if err != nil {
		return err
	}

	questions := buildQuestions(input.Questions, func(q *models.Question) { q.ModuleID = &module.ID })
	if len(questions) > 0 {
		if err := mc.DB.Create(&questions).Error; err != nil {
			return utils.Internal("An error occurred while adding questions.", err)
		}
	}
	return utils.Count(c, len(questions))
}

func (mc *ModuleContentController) UpdateQuestionInModule(c *fiber.Ctx) error {
	var input UpdateQuestionRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	module, err := mc.module(c)
	if err != nil {
		return err
	}

	var question models.Question
	if err := mc.DB.First(&question, "id = ? AND module_id = ?", c.Params("questionId"), module.ID).Error; err != nil {
		return lookupError(err, "Question not found in the specified module.")
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "question_text", input.QuestionText)
	setIfPresent(updates, "answer_type", input.AnswerType)
	setIfPresent(updates, "correct_answer", input.CorrectAnswer)
	if input.Options != nil {
		updates["options"] = stringSlice(*input.Options)
	}

	return mc.patch(c, &question, updates, "An error occurred while updating the question.")
}

// AddAttachmentsToModule godoc
// @Summary Bulk-add attachments to a module
// @Description Every attachment needs fileType, fileUrl and description. One bad entry rejects the whole batch.
// @Tags modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param partId path string true "Part ID"
// @Param moduleId path string true "Module ID"
// @Param attachments body AttachmentsRequest true "Attachments"
// @Success 201 {object} map[string]int
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/parts/{partId}/modules/{moduleId}/attachments [post]
func (mc *ModuleContentController) AddAttachmentsToModule(c *fiber.Ctx) error {
	var input AttachmentsRequest
	if err := utils.ParseBody(c, &input, "Invalid attachment format."); err != nil {
		return err
	}

	module, err := mc.module(c)
	if err != nil {
		return err
	}

	attachments := buildAttachments(input.Attachments, module.ID)
	if len(attachments) > 0 {
		if err := mc.DB.Create(&attachments).Error; err != nil {
			return utils.Internal("An error occurred while adding attachments.", err)
		}
	}
	return utils.Count(c, len(attachments))
}

func (mc *ModuleContentController) UpdateAttachmentInModule(c *fiber.Ctx) error {
	var input UpdateAttachmentRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	module, err := mc.module(c)
	if err != nil {
		return err
	}

	var attachment models.Attachment
	if err := mc.DB.First(&attachment, "id = ? AND module_id = ?", c.Params("attachmentId"), module.ID).Error; err != nil {
		return lookupError(err, "Attachment not found in the specified module.")
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "file_type", input.FileType)
	setIfPresent(updates, "file_url", input.FileURL)
	setIfPresent(updates, "description", input.Description)

	return mc.patch(c, &attachment, updates, "An error occurred while updating the attachment.")
}

func (mc *ModuleContentController) module(c *fiber.Ctx) (*models.Module, error) {
	return findModuleInPart(mc.DB, c.Params("courseId"), c.Params("partId"), c.Params("moduleId"))
}

// patch applies updates to row (a pointer to a loaded model) and writes the
// reloaded row back to the client.
func (mc *ModuleContentController) patch(c *fiber.Ctx, row interface{}, updates map[string]interface{}, failure string) error {
	if len(updates) == 0 {
		return utils.OK(c, row)
	}
	if err := mc.DB.Model(row).Updates(updates).Error; err != nil {
		return utils.Internal(failure, err)
	}
	if err := mc.DB.First(row).Error; err != nil {
		return utils.Internal(failure, err)
	}
	return utils.OK(c, row)
}

// buildQuestions converts inputs to rows; owner sets the owning foreign key.
func buildQuestions(inputs []QuestionInput, owner func(*models.Question)) []models.Question {
	questions := make([]models.Question, len(inputs))
	for i, in := range inputs {
		questions[i] = models.Question{
			QuestionText:  in.QuestionText,
			AnswerType:    in.AnswerType,
			Options:       stringSlice(in.Options),
			CorrectAnswer: in.CorrectAnswer,
		}
		owner(&questions[i])
	}
	return questions
}

func buildAttachments(inputs []AttachmentInput, moduleID string) []models.Attachment {
	attachments := make([]models.Attachment, len(inputs))
	for i, in := range inputs {
		attachments[i] = models.Attachment{
			FileType:    in.FileType,
			FileURL:     in.FileURL,
			Description: in.Description,
			ModuleID:    moduleID,
		}
	}
	return attachments
}
