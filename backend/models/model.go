package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base replaces gorm.Model: string UUID keys and no soft delete, so deletes are permanent.
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

type StudentAccessType string

const (
	AccessInternal StudentAccessType = "INTERNAL"
	AccessExternal StudentAccessType = "EXTERNAL"
)

type ModuleType string

const (
	ModuleChapter    ModuleType = "CHAPTER"
	ModuleExam       ModuleType = "EXAM"
	ModuleAssignment ModuleType = "ASSIGNMENT"
	ModuleAttachment ModuleType = "ATTACHMENT"
)

// ModuleTypes lists the valid module kinds in display order.
var ModuleTypes = []ModuleType{ModuleChapter, ModuleExam, ModuleAssignment, ModuleAttachment}

type AnswerType string

const (
	AnswerMCQ         AnswerType = "MCQ"
	AnswerTrueFalse   AnswerType = "TRUE_FALSE"
	AnswerShortAnswer AnswerType = "SHORT_ANSWER"
)

// AutoMigrate creates or updates every table, parents before children.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Teacher{},
		&Course{},
		&AccessibilitySettings{},
		&Part{},
		&Module{},
		&Lesson{},
		&Clip{},
		&Assignment{},
		&Exam{},
		&Question{},
		&Attachment{},
	)
}
