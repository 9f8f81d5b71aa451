package routes

import (
	"fmt"
	"net/http"
	"testing"

	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func accessibilityPath(courseID string) string {
	return "/api/courses/" + courseID + "/accessibility"
}

func TestAccessibilityUpsert(t *testing.T) {
	s := newTestServer(t)
	courseID, _ := s.seedCourse(t)

	var created models.AccessibilitySettings
	status := s.request(t, http.MethodPatch, accessibilityPath(courseID), map[string]interface{}{
		"studentAccessType":    "INTERNAL",
		"academicStage":        []int{1, 2},
		"canAccessIfPurchased": true,
	}, "", &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, courseID, created.CourseID)
	assert.Equal(t, []int{1, 2}, []int(created.AcademicStage))

	var updated models.AccessibilitySettings
	status = s.request(t, http.MethodPatch, accessibilityPath(courseID), map[string]interface{}{
		"studentAccessType": "EXTERNAL",
		"academicStage":     3,
	}, "", &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, models.AccessExternal, updated.StudentAccessType)
	assert.Equal(t, []int{3}, []int(updated.AcademicStage))
	assert.True(t, updated.CanAccessIfPurchased)

	assert.Equal(t, int64(1), s.count(t, &models.AccessibilitySettings{}))
}

func TestAccessibilityCourseFlags(t *testing.T) {
	s := newTestServer(t)
	courseID, _ := s.seedCourse(t)

	var owner models.Teacher
	require.NoError(t, s.db.Where("email = ?", "owner@example.com").First(&owner).Error)

	var settings models.AccessibilitySettings
	status := s.request(t, http.MethodPatch, accessibilityPath(courseID), map[string]interface{}{
		"studentAccessType":    "EXTERNAL",
		"isFree":               true,
		"broughtFromTeacherId": owner.ID,
	}, "", &settings)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, settings.BroughtFromTeacherID)
	assert.Equal(t, owner.ID, *settings.BroughtFromTeacherID)

	var course models.Course
	require.NoError(t, s.db.First(&course, "id = ?", courseID).Error)
	assert.True(t, course.IsFree)
}

func TestAccessibilityErrors(t *testing.T) {
	s := newTestServer(t)
	courseID, _ := s.seedCourse(t)

	cases := []struct {
		name    string
		course  string
		body    map[string]interface{}
		status  int
		message string
	}{
		{"UnknownCourse", "missing", map[string]interface{}{"studentAccessType": "INTERNAL"}, http.StatusNotFound, "Course not found."},
		{"UnknownTeacher", courseID, map[string]interface{}{"studentAccessType": "INTERNAL", "broughtFromTeacherId": "ghost"}, http.StatusNotFound, "Teacher not found."},
		{"BadAccessType", courseID, map[string]interface{}{"studentAccessType": "PUBLIC"}, http.StatusBadRequest, "Field 'studentAccessType' must be one of: INTERNAL, EXTERNAL."},
		{"CreateWithoutAccessType", courseID, map[string]interface{}{"canAccessIfPurchased": true}, http.StatusBadRequest, "Field 'studentAccessType' is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errBody utils.ErrorResponse
			status := s.request(t, http.MethodPatch, accessibilityPath(tc.course), tc.body, "", &errBody)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, errBody.Error)
		})
	}
	assert.Zero(t, s.count(t, &models.AccessibilitySettings{}))
}

func TestAccessibilityConcurrentUpserts(t *testing.T) {
	s := newTestServer(t)
	courseID, _ := s.seedCourse(t)

	const writers = 8
	statuses := make([]int, writers)
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			body := map[string]interface{}{
				"studentAccessType": "INTERNAL",
				"academicStage":     i + 1,
			}
			status, err := s.send(http.MethodPatch, accessibilityPath(courseID), body, "", nil)
			if err != nil {
				return err
			}
			statuses[i] = status
			if statuses[i] != http.StatusOK && statuses[i] != http.StatusCreated {
				return fmt.Errorf("writer %d: status %d", i, statuses[i])
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var rows []models.AccessibilitySettings
	require.NoError(t, s.db.Where("course_id = ?", courseID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].AcademicStage, 1)
	assert.Contains(t, statuses, http.StatusCreated)
}
