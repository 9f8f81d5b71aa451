package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	Base
	Title            string                      `gorm:"not null" json:"title"`
	Description      string                      `json:"description"`
	IsFree           bool                        `json:"isFree"`
	Objectives       datatypes.JSONSlice[string] `json:"objectives"`
	WhatYouWillLearn datatypes.JSONSlice[string] `json:"whatYouWillLearn"`
	IsDraft          bool                        `json:"isDraft"`
	IsUnderReview    bool                        `json:"isUnderReview"`
	IsActive         bool                        `json:"isActive"`
	InstructorID     string                      `gorm:"type:varchar(36);index;not null" json:"instructorId"`
	Accessibility    *AccessibilitySettings      `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"accessibility,omitempty"`
	Parts            []Part                      `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
}

// AccessibilitySettings is one-to-one with Course, enforced by the unique index on CourseID.
type AccessibilitySettings struct {
	Base
	CourseID             string                   `gorm:"type:varchar(36);uniqueIndex;not null" json:"courseId"`
	StudentAccessType    StudentAccessType        `gorm:"type:varchar(16);not null" json:"studentAccessType"`
	AcademicStage        datatypes.JSONSlice[int] `json:"academicStage"`
	CanAccessIfPurchased bool                     `json:"canAccessIfPurchased"`
	BroughtFromTeacherID *string                  `gorm:"type:varchar(36)" json:"broughtFromTeacherId,omitempty"`
}

type Part struct {
	Base
	Title          string    `gorm:"not null" json:"title"`
	Price          float64   `json:"price"`
	CompletionTime float64   `json:"completionTime"` // hours
	OpeningDate    time.Time `json:"openingDate"`
	CourseID       string    `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Modules        []Module  `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}
