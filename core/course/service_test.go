package course_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/course"
	inmemdb "github.com/trezcool/watas/storage/database/inmem"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := course.NewService(inmemdb.NewCourseRepository(inmemdb.Open()))

	calc, err := svc.Create(ctx, course.NewCourse{Code: "MATH 251", Name: "Calculus"})
	require.NoError(t, err)
	dsa, err := svc.Create(ctx, course.NewCourse{Code: "CSM 281", Name: "Data Structures"})
	require.NoError(t, err)

	courses, err := svc.Query(ctx)
	require.NoError(t, err)
	if assert.Len(t, courses, 2) {
		assert.Equal(t, "CSM 281", courses[0].Code)
		assert.Equal(t, "MATH 251", courses[1].Code)
	}

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Create(ctx, course.NewCourse{Code: "CSM 281", Name: "Again"})
		var verr *core.ValidationError
		if assert.ErrorAs(t, err, &verr) {
			assert.Equal(t, []core.FieldError{{Field: "code", Error: course.ErrCodeExists.Error()}}, verr.Fields)
		}

		_, err = svc.Update(ctx, calc.ID, course.NewCourse{Code: "CSM 281", Name: "Calculus"})
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("update", func(t *testing.T) {
		c, err := svc.Update(ctx, dsa.ID, course.NewCourse{Code: "CSM 282", Name: "Algorithms"})
		require.NoError(t, err)
		assert.Equal(t, dsa.ID, c.ID)
		assert.Equal(t, "Algorithms", c.Name)
		assert.True(t, !c.UpdatedAt.Before(dsa.UpdatedAt))

		_, err = svc.Update(ctx, "missing", course.NewCourse{Code: "X", Name: "Y"})
		assert.Equal(t, course.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, calc.ID))
		assert.Equal(t, course.ErrNotFound, svc.Delete(ctx, calc.ID))
	})
}

func TestNewCourse_Validate(t *testing.T) {
	validate := validator.New()
	nc := course.NewCourse{Code: "  CSM 281 ", Name: " "}
	err := nc.Validate(validate)
	assert.Error(t, err)
	assert.Equal(t, "CSM 281", nc.Code)
}
