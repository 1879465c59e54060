package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/watas/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) codeTaken(code, excludedID string) bool {
	for id, c := range repo.db.t {
		if c.Code == code && id != excludedID {
			return true
		}
	}
	return false
}

func (repo *courseRepository) QueryCourses(context.Context) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.t))
	for _, c := range repo.db.t {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.t[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) CreateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.codeTaken(c.Code, "") {
		return course.Course{}, course.ErrCodeExists
	}
	c.ID = newID()
	repo.db.t[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.t[c.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	if repo.codeTaken(c.Code, c.ID) {
		return course.Course{}, course.ErrCodeExists
	}
	repo.db.t[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.t[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.t, id)
	return nil
}
