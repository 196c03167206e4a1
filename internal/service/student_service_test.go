package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

func TestStudentServiceUpdateProfile(t *testing.T) {
	repo := newStubStudents(&models.Student{ID: "stu-1"})
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.UpdateProfile(context.Background(), "stu-1", UpdateProfileRequest{CareerGoal: "  Data scientist ", Interests: "chess", WeakSubjects: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Data scientist", student.CareerGoal)
	assert.Equal(t, models.StudentProfile{CareerGoal: "Data scientist", Interests: "chess", WeakSubjects: "Physics"}, repo.updated["stu-1"])
}

func TestStudentServiceUpdateProfileErrors(t *testing.T) {
	svc := NewStudentService(newStubStudents(), nil, nil)

	_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.UpdateProfile(context.Background(), "ghost", UpdateProfileRequest{CareerGoal: strings.Repeat("x", 501)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
