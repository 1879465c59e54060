package course

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/watas/core"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")
)

type (
	Repository interface {
		// QueryCourses returns all courses ordered by code.
		QueryCourses(ctx context.Context) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		CreateCourse(ctx context.Context, c Course) (Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
	}

	Service interface {
		Query(ctx context.Context) ([]Course, error)
		Create(ctx context.Context, nc NewCourse) (Course, error)
		Update(ctx context.Context, id string, nc NewCourse) (Course, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil) // interface compliance check

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Query(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	c, err := svc.repo.CreateCourse(ctx, Course{
		Code:      nc.Code,
		Name:      nc.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return c, svc.trapCodeExists(err)
}

func (svc *service) Update(ctx context.Context, id string, nc NewCourse) (Course, error) {
	orig, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	orig.Code = nc.Code
	orig.Name = nc.Name
	orig.UpdatedAt = time.Now().UTC()
	c, err := svc.repo.UpdateCourse(ctx, orig)
	return c, svc.trapCodeExists(err)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

// trapCodeExists maps ErrCodeExists to a field validation error.
func (svc *service) trapCodeExists(err error) error {
	if err == ErrCodeExists {
		return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
	}
	return err
}
