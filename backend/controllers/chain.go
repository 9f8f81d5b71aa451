package controllers

import (
	"errors"

	"edulearn/backend/models"
	"edulearn/backend/utils"

	"gorm.io/gorm"
)

// Nested routes walk Course -> Part -> Module top-down and stop at the first
// link whose stored parent does not match the path.

func findCourse(db *gorm.DB, courseID string) (*models.Course, error) {
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		return nil, lookupError(err, "Course not found.")
	}
	return &course, nil
}

func findPartInCourse(db *gorm.DB, courseID, partID string) (*models.Part, error) {
	if _, err := findCourse(db, courseID); err != nil {
		return nil, err
	}
	var part models.Part
	if err := db.First(&part, "id = ? AND course_id = ?", partID, courseID).Error; err != nil {
		return nil, lookupError(err, "Part not found in the specified course.")
	}
	return &part, nil
}

func findModuleInPart(db *gorm.DB, courseID, partID, moduleID string) (*models.Module, error) {
	if _, err := findPartInCourse(db, courseID, partID); err != nil {
		return nil, err
	}
	var module models.Module
	err := db.First(&module, "id = ? AND part_id = ? AND course_id = ?", moduleID, partID, courseID).Error
	if err != nil {
		return nil, lookupError(err, "Module not found in the specified part and course.")
	}
	return &module, nil
}

func findTeacher(db *gorm.DB, teacherID string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := db.First(&teacher, "id = ?", teacherID).Error; err != nil {
		return nil, lookupError(err, "Teacher not found.")
	}
	return &teacher, nil
}

// emailInUse reports whether any student or teacher account holds email.
// Login resolves an email across both tables, so it must be unique across both.
// excludeTeacherID lets a teacher keep their own address.
func emailInUse(db *gorm.DB, email, excludeTeacherID string) (bool, error) {
	var users int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&users).Error; err != nil {
		return false, err
	}
	if users > 0 {
		return true, nil
	}
	var teachers int64
	if err := db.Model(&models.Teacher{}).Where("email = ? AND id <> ?", email, excludeTeacherID).Count(&teachers).Error; err != nil {
		return false, err
	}
	return teachers > 0, nil
}

// lookupError maps a missing row to NotFound and anything else to a 500.
func lookupError(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(notFound)
	}
	return utils.Internal("Could not query database", err)
}

// writeError maps a unique-key violation to Conflict and anything else to a 500.
func writeError(err error, conflict, internal string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.Conflict(conflict)
	}
	return utils.Internal(internal, err)
}
