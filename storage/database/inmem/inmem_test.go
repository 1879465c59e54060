package inmemdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/course"
	"github.com/trezcool/watas/core/group"
	inmemdb "github.com/trezcool/watas/storage/database/inmem"
	"github.com/trezcool/watas/testutil"
)

func TestCourseRepository(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewCourseRepository(inmemdb.Open())

	math := testutil.CreateCourse(t, repo, "MATH 251", "Linear Algebra")
	csm := testutil.CreateCourse(t, repo, "CSM 281", "Data Structures")
	assert.NotEmpty(t, math.ID)

	t.Run("ordered by code", func(t *testing.T) {
		courses, err := repo.QueryCourses(ctx)
		require.NoError(t, err)
		if assert.Len(t, courses, 2) {
			assert.Equal(t, csm.ID, courses[0].ID)
			assert.Equal(t, math.ID, courses[1].ID)
		}
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := repo.CreateCourse(ctx, course.Course{Code: "CSM 281", Name: "Other"})
		assert.Equal(t, course.ErrCodeExists, err)

		math.Code = "CSM 281"
		_, err = repo.UpdateCourse(ctx, math)
		assert.Equal(t, course.ErrCodeExists, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteCourse(ctx, csm.ID))
		_, err := repo.GetCourse(ctx, csm.ID)
		assert.Equal(t, course.ErrNotFound, err)
		assert.Equal(t, course.ErrNotFound, repo.DeleteCourse(ctx, csm.ID))
	})
}

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	courses := inmemdb.NewCourseRepository(db)
	repo := inmemdb.NewAssignmentRepository(db)
	completions := inmemdb.NewCompletionRepository(db)

	c := testutil.CreateCourse(t, courses, "CSM 281", "Data Structures")
	lab := testutil.CreateAssignment(t, repo, c, "Lab 3", "2026-10-20", group.Group1)
	quiz := testutil.CreateAssignment(t, repo, c, "Quiz 1", "2026-10-10", group.Group1, group.Group2)

	t.Run("ordered by due date", func(t *testing.T) {
		all, err := repo.QueryAssignments(ctx)
		require.NoError(t, err)
		if assert.Len(t, all, 2) {
			assert.Equal(t, quiz.ID, all[0].ID)
			assert.Equal(t, lab.ID, all[1].ID)
			assert.Equal(t, "Data Structures", all[1].CourseName)
		}
	})

	t.Run("reads are detached from the table", func(t *testing.T) {
		got, err := repo.GetAssignment(ctx, quiz.ID)
		require.NoError(t, err)
		got.Groups[0] = "Group 9"

		all, err := repo.QueryAssignments(ctx)
		require.NoError(t, err)
		all[0].Groups[1] = "Group 9"

		got, err = repo.GetAssignment(ctx, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{group.Group1, group.Group2}, got.Groups)
	})

	t.Run("completions", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, completions.SetCompleted(ctx, "u1", lab.ID, true, now))
		require.NoError(t, completions.SetCompleted(ctx, "u1", lab.ID, true, now))
		require.NoError(t, completions.SetCompleted(ctx, "u1", quiz.ID, true, now))
		require.NoError(t, completions.SetCompleted(ctx, "u1", quiz.ID, false, now))
		require.NoError(t, completions.SetCompleted(ctx, "u2", quiz.ID, false, now))

		ids, err := completions.QueryCompletedIDs(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{lab.ID}, ids)

		ids, err = completions.QueryCompletedIDs(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("delete cascades to completions", func(t *testing.T) {
		require.NoError(t, repo.DeleteAssignment(ctx, lab.ID))
		_, err := repo.GetAssignment(ctx, lab.ID)
		assert.Equal(t, assignment.ErrNotFound, err)

		ids, err := completions.QueryCompletedIDs(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
