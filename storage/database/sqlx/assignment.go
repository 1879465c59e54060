package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/assignment"
)

type assignmentRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	CourseCode  string         `db:"course_code"`
	CourseName  string         `db:"course_name"`
	Groups      pq.StringArray `db:"groups"`
	DueDate     time.Time      `db:"due_date"`
	Description null.String    `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func newAssignmentRow(a assignment.Assignment) (assignmentRow, error) {
	due, err := time.Parse(core.DateLayout, a.DueDate)
	if err != nil {
		return assignmentRow{}, errors.Wrap(err, "parsing due date")
	}
	return assignmentRow{
		ID:          a.ID,
		Title:       a.Title,
		CourseCode:  a.CourseCode,
		CourseName:  a.CourseName,
		Groups:      a.Groups,
		DueDate:     due,
		Description: null.StringFromPtr(a.Description),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}, nil
}

func (r assignmentRow) assignment() assignment.Assignment {
	return assignment.Assignment{
		ID:          r.ID,
		Title:       r.Title,
		CourseCode:  r.CourseCode,
		CourseName:  r.CourseName,
		Groups:      []string(r.Groups),
		DueDate:     r.DueDate.Format(core.DateLayout),
		Description: r.Description.Ptr(),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM assignments ORDER BY due_date, created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	res := make([]assignment.Assignment, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.assignment())
	}
	return res, nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	if !validID(id) {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	var r assignmentRow
	err := repo.db.GetContext(ctx, &r, `SELECT * FROM assignments WHERE id = $1`, id)
	if err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "getting assignment")
	}
	return r.assignment(), nil
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	a.ID = newID()
	row, err := newAssignmentRow(a)
	if err != nil {
		return assignment.Assignment{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO assignments (id, title, course_code, course_name, groups, due_date, description, created_at, updated_at)
		VALUES (:id, :title, :course_code, :course_name, :groups, :due_date, :description, :created_at, :updated_at)`,
		row)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	if !validID(id) {
		return assignment.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return checkAffected(res, assignment.ErrNotFound)
}

type completionRepository struct {
	db *sqlx.DB
}

var _ assignment.CompletionRepository = (*completionRepository)(nil)

func NewCompletionRepository(db *sqlx.DB) assignment.CompletionRepository {
	return &completionRepository{db: db}
}

func (repo *completionRepository) QueryCompletedIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	if !validID(userID) {
		return ids, nil
	}
	err := repo.db.SelectContext(ctx, &ids, `
		SELECT assignment_id FROM assignment_completions WHERE user_id = $1 ORDER BY assignment_id`,
		userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}
	return ids, nil
}

func (repo *completionRepository) SetCompleted(ctx context.Context, userID, assignmentID string, completed bool, at time.Time) error {
	var err error
	if completed {
		_, err = repo.db.ExecContext(ctx, `
			INSERT INTO assignment_completions (user_id, assignment_id, completed_at) VALUES ($1, $2, $3)
			ON CONFLICT (user_id, assignment_id) DO NOTHING`,
			userID, assignmentID, at)
	} else {
		_, err = repo.db.ExecContext(ctx, `
			DELETE FROM assignment_completions WHERE user_id = $1 AND assignment_id = $2`,
			userID, assignmentID)
	}
	return errors.Wrap(err, "setting completion")
}
