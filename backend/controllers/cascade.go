package controllers

import (
	"edulearn/backend/models"

	"gorm.io/gorm"
)

// deleteCourseTrees removes the courses and every row below them.
// tx must be a transaction; the order is leaves first so it also holds
// on databases where foreign keys are not enforced.
func deleteCourseTrees(tx *gorm.DB, courseIDs []string) error {
	if len(courseIDs) == 0 {
		return nil
	}

	var moduleIDs, lessonIDs, examIDs, assignmentIDs []string
	if err := tx.Model(&models.Module{}).Where("course_id IN ?", courseIDs).Pluck("id", &moduleIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Lesson{}).Where("module_id IN ?", moduleIDs).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Exam{}).Where("module_id IN ?", moduleIDs).Pluck("id", &examIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Assignment{}).Where("module_id IN ?", moduleIDs).Pluck("id", &assignmentIDs).Error; err != nil {
		return err
	}

	steps := []struct {
		model interface{}
		query string
		args  []interface{}
	}{
		{&models.Question{}, "module_id IN ? OR exam_id IN ? OR assignment_id IN ?", []interface{}{moduleIDs, examIDs, assignmentIDs}},
		{&models.Clip{}, "lesson_id IN ?", []interface{}{lessonIDs}},
		{&models.Lesson{}, "module_id IN ?", []interface{}{moduleIDs}},
		{&models.Attachment{}, "module_id IN ?", []interface{}{moduleIDs}},
		{&models.Exam{}, "module_id IN ?", []interface{}{moduleIDs}},
		{&models.Assignment{}, "module_id IN ?", []interface{}{moduleIDs}},
		{&models.Module{}, "course_id IN ?", []interface{}{courseIDs}},
		{&models.Part{}, "course_id IN ?", []interface{}{courseIDs}},
		{&models.AccessibilitySettings{}, "course_id IN ?", []interface{}{courseIDs}},
		{&models.Course{}, "id IN ?", []interface{}{courseIDs}},
	}
	for _, step := range steps {
		if err := tx.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return nil
}
