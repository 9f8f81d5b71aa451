package models

import "gorm.io/datatypes"

// Module is a typed container inside a Part. CourseID is denormalized from the Part.
type Module struct {
	Base
	Type        ModuleType   `gorm:"type:varchar(16);not null" json:"type"`
	PartID      string       `gorm:"type:varchar(36);index;not null" json:"partId"`
	CourseID    string       `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Lessons     []Lesson     `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Questions   []Question   `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	Exams       []Exam       `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"exams,omitempty"`
}

type Lesson struct {
	Base
	Title         string  `gorm:"not null" json:"title"`
	VideoURL      *string `json:"videoUrl,omitempty"`
	AudioURL      *string `json:"audioUrl,omitempty"`
	IsPromotional bool    `json:"isPromotional"`
	ModuleID      string  `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Clips         []Clip  `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"clips,omitempty"`
}

// Clip is a media segment of a chapter Lesson.
type Clip struct {
	Base
	Title    string `gorm:"not null" json:"title"`
	URL      string `gorm:"not null" json:"url"`
	Duration int    `json:"duration"` // seconds
	Position int    `json:"position"`
	LessonID string `gorm:"type:varchar(36);index;not null" json:"lessonId"`
}

type Assignment struct {
	Base
	Title     string     `gorm:"not null" json:"title"`
	ModuleID  string     `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Questions []Question `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

type Exam struct {
	Base
	Title     string     `gorm:"not null" json:"title"`
	ModuleID  string     `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Questions []Question `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question belongs to exactly one of Module, Assignment or Exam.
type Question struct {
	Base
	QuestionText  string                      `gorm:"not null" json:"questionText"`
	AnswerType    AnswerType                  `gorm:"type:varchar(16);not null" json:"answerType"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `json:"correctAnswer"`
	ModuleID      *string                     `gorm:"type:varchar(36);index" json:"moduleId,omitempty"`
	AssignmentID  *string                     `gorm:"type:varchar(36);index" json:"assignmentId,omitempty"`
	ExamID        *string                     `gorm:"type:varchar(36);index" json:"examId,omitempty"`
}

type Attachment struct {
	Base
	FileType    string `gorm:"not null" json:"fileType"`
	FileURL     string `gorm:"not null" json:"fileUrl"`
	Description string `gorm:"not null" json:"description"`
	ModuleID    string `gorm:"type:varchar(36);index;not null" json:"moduleId"`
}
