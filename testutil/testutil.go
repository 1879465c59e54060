// Package testutil holds fixtures shared by the repository, service & API tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/course"
	"github.com/trezcool/watas/core/profile"
)

// FreezeClock makes *clock return at until the test ends.
func FreezeClock(t *testing.T, clock *func() time.Time, at time.Time) {
	t.Helper()
	orig := *clock
	*clock = func() time.Time { return at }
	t.Cleanup(func() { *clock = orig })
}

func CreateCourse(t *testing.T, repo course.Repository, code, name string, createdAt ...time.Time) course.Course {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	c, err := repo.CreateCourse(context.Background(), course.Course{
		Code:      code,
		Name:      name,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	c course.Course,
	title, dueDate string,
	groups ...string,
) assignment.Assignment {
	t.Helper()
	tstamp := time.Now().UTC()
	a, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		Title:      title,
		CourseCode: c.Code,
		CourseName: c.Name,
		Groups:     groups,
		DueDate:    dueDate,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

// CreateProfile upserts a profile, then grants PRO when isPro is set.
func CreateProfile(t *testing.T, repo profile.Repository, id, fullName string, isPro bool) profile.Profile {
	t.Helper()
	ctx := context.Background()
	tstamp := time.Now().UTC()
	p, err := repo.UpsertProfile(ctx, profile.Profile{ID: id, FullName: fullName, CreatedAt: tstamp, UpdatedAt: tstamp})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if isPro {
		if p, err = repo.SetPro(ctx, id, true, tstamp); err != nil {
			t.Fatalf("CreateProfile() failed: %v", err)
		}
	}
	return p
}
