package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/course"
)

type courseRow struct {
	ID        string    `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r courseRow) course() course.Course {
	return course.Course{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM courses ORDER BY code`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.course())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	if !validID(id) {
		return course.Course{}, course.ErrNotFound
	}
	var r courseRow
	err := repo.db.GetContext(ctx, &r, `SELECT * FROM courses WHERE id = $1`, id)
	if err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course")
	}
	return r.course(), nil
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	c.ID = newID()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO courses (id, code, name, created_at, updated_at)
		VALUES (:id, :code, :name, :created_at, :updated_at)`,
		courseRow(c))
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return c, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE courses SET code = :code, name = :name, updated_at = :updated_at
		WHERE id = :id`,
		courseRow(c))
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return c, checkAffected(res, course.ErrNotFound)
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	if !validID(id) {
		return course.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return checkAffected(res, course.ErrNotFound)
}
