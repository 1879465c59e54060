package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/watas/core/assignment"
)

type assignmentRepository struct {
	db          *assignmentTable
	completions *completionTable
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment, completions: db.completion}
}

func (repo *assignmentRepository) QueryAssignments(context.Context) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := make([]assignment.Assignment, 0, len(repo.db.t))
	for _, a := range repo.db.t {
		res = append(res, copyAssignment(*a))
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].DueDate == res[j].DueDate {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].DueDate < res[j].DueDate
	})
	return res, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.t[id]; ok {
		return copyAssignment(*a), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a = copyAssignment(a)
	a.ID = newID()
	repo.db.t[a.ID] = &a
	return copyAssignment(a), nil
}

// DeleteAssignment cascades to completions.
func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.t[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.t, id)

	repo.completions.mutex.Lock()
	defer repo.completions.mutex.Unlock()
	for _, done := range repo.completions.t {
		delete(done, id)
	}
	return nil
}

type completionRepository struct {
	db *completionTable
}

var _ assignment.CompletionRepository = (*completionRepository)(nil)

func NewCompletionRepository(db *DB) assignment.CompletionRepository {
	return &completionRepository{db: db.completion}
}

func (repo *completionRepository) QueryCompletedIDs(_ context.Context, userID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]string, 0, len(repo.db.t[userID]))
	for id := range repo.db.t[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *completionRepository) SetCompleted(_ context.Context, userID, assignmentID string, completed bool, _ time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !completed {
		delete(repo.db.t[userID], assignmentID)
		return nil
	}
	if repo.db.t[userID] == nil {
		repo.db.t[userID] = make(map[string]bool)
	}
	repo.db.t[userID][assignmentID] = true
	return nil
}

// copyAssignment detaches a from the stored row.
func copyAssignment(a assignment.Assignment) assignment.Assignment {
	a.Groups = append([]string(nil), a.Groups...)
	if a.Description != nil {
		desc := *a.Description
		a.Description = &desc
	}
	return a
}
