package assignment

import (
	"context"
	"errors"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/watas/core/course"
	"github.com/trezcool/watas/core/group"
)

var (
	ErrNotFound = errors.New("assignment not found")

	// NowFunc is the clock used for due date enrichment. Tests replace it.
	NowFunc = time.Now
)

type (
	Repository interface {
		// QueryAssignments returns all assignments ordered by due date.
		QueryAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error
	}

	// CompletionRepository stores (user_id, assignment_id) rows. A missing row means not completed.
	CompletionRepository interface {
		QueryCompletedIDs(ctx context.Context, userID string) ([]string, error)
		SetCompleted(ctx context.Context, userID, assignmentID string, completed bool, at time.Time) error
	}

	Service interface {
		Query(ctx context.Context) ([]Assignment, error)
		Get(ctx context.Context, id string) (Assignment, error)
		Dashboard(ctx context.Context, filter QueryFilter) (Dashboard, error)
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		Delete(ctx context.Context, id string) error

		CompletedIDs(ctx context.Context, userID string) ([]string, error)
		SetCompleted(ctx context.Context, userID, assignmentID string, completed bool) error
	}

	service struct {
		repo       Repository
		completion CompletionRepository
		courseRepo course.Repository
		groupSvc   group.Service
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	completion CompletionRepository,
	courseRepo course.Repository,
	groupSvc group.Service,
) Service {
	return &service{
		repo:       repo,
		completion: completion,
		courseRepo: courseRepo,
		groupSvc:   groupSvc,
	}
}

func (svc *service) Query(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx)
}

func (svc *service) Get(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

// Dashboard splits the assignments of enabled groups into upcoming & past due, after filtering.
func (svc *service) Dashboard(ctx context.Context, filter QueryFilter) (Dashboard, error) {
	filter.Clean()

	groups, err := svc.groupSvc.Query(ctx)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(err, "querying groups")
	}
	enabled := group.EnabledIDs(groups)

	all, err := svc.repo.QueryAssignments(ctx)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(err, "querying assignments")
	}

	dash := Dashboard{
		Groups:   enabled,
		Courses:  []CourseOption{},
		Upcoming: []Entry{},
		PastDue:  []Entry{},
	}
	seen := make(map[string]bool)
	now := NowFunc()

	for _, a := range all {
		if !a.HasAnyGroup(enabled) {
			continue
		}
		if !seen[a.CourseCode] {
			seen[a.CourseCode] = true
			dash.Courses = append(dash.Courses, CourseOption{Value: a.CourseCode, Label: courseOf(a).Label()})
		}
		if !filter.Match(a) {
			continue
		}
		e := Enrich(a, now)
		if e.DaysRemaining < 0 {
			dash.PastDue = append(dash.PastDue, e)
		} else {
			dash.Upcoming = append(dash.Upcoming, e)
		}
	}

	sort.SliceStable(dash.Courses, func(i, j int) bool { return dash.Courses[i].Value < dash.Courses[j].Value })
	sort.SliceStable(dash.Upcoming, func(i, j int) bool { return dash.Upcoming[i].DueDate < dash.Upcoming[j].DueDate })
	// most recently missed first
	sort.SliceStable(dash.PastDue, func(i, j int) bool { return dash.PastDue[i].DueDate > dash.PastDue[j].DueDate })
	return dash, nil
}

// Create denormalizes the course code & name onto the assignment.
func (svc *service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	c, err := svc.courseRepo.GetCourse(ctx, na.CourseID)
	if err != nil {
		return Assignment{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateAssignment(ctx, Assignment{
		Title:       na.Title,
		CourseCode:  c.Code,
		CourseName:  c.Name,
		Groups:      na.Groups,
		DueDate:     na.DueDate,
		Description: na.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAssignment(ctx, id)
}

func (svc *service) CompletedIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := svc.completion.QueryCompletedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (svc *service) SetCompleted(ctx context.Context, userID, assignmentID string, completed bool) error {
	if _, err := svc.repo.GetAssignment(ctx, assignmentID); err != nil {
		return err
	}
	return svc.completion.SetCompleted(ctx, userID, assignmentID, completed, time.Now().UTC())
}
