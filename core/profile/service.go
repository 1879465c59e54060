package profile

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/watas/core"
)

var ErrNotFound = errors.New("profile not found")

type (
	Repository interface {
		// QueryProfiles returns all profiles, newest first.
		QueryProfiles(ctx context.Context) ([]Profile, error)
		GetProfile(ctx context.Context, id string) (Profile, error)
		// UpsertProfile creates or updates the editable fields of a profile, leaving is_pro untouched.
		UpsertProfile(ctx context.Context, p Profile) (Profile, error)
		SetPro(ctx context.Context, id string, isPro bool, updatedAt time.Time) (Profile, error)
	}

	// EmailDirectory maps identity ids to e-mail addresses (the hosted auth user list).
	EmailDirectory interface {
		Emails(ctx context.Context) (map[string]string, error)
	}

	Service interface {
		Get(ctx context.Context, id string) (Profile, error)
		Save(ctx context.Context, id string, up UpdateProfile) (Profile, error)
		SetPro(ctx context.Context, id string, isPro bool) (Profile, error)
		// QueryWithEmails lists profiles for admins. E-mails are left blank when the directory fails.
		QueryWithEmails(ctx context.Context) ([]WithEmail, error)
	}

	service struct {
		repo   Repository
		dir    EmailDirectory
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, dir EmailDirectory, logger core.Logger) Service {
	return &service{repo: repo, dir: dir, logger: logger}
}

func (svc *service) Get(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfile(ctx, id)
}

func (svc *service) Save(ctx context.Context, id string, up UpdateProfile) (Profile, error) {
	now := time.Now().UTC()
	return svc.repo.UpsertProfile(ctx, Profile{
		ID:          id,
		FullName:    up.FullName,
		IndexNumber: up.IndexNumber,
		Reference:   up.Reference,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) SetPro(ctx context.Context, id string, isPro bool) (Profile, error) {
	return svc.repo.SetPro(ctx, id, isPro, time.Now().UTC())
}

func (svc *service) QueryWithEmails(ctx context.Context) ([]WithEmail, error) {
	profiles, err := svc.repo.QueryProfiles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying profiles")
	}

	var emails map[string]string
	if svc.dir != nil {
		if emails, err = svc.dir.Emails(ctx); err != nil {
			svc.logger.Warn("listing auth users", err)
		}
	}

	res := make([]WithEmail, 0, len(profiles))
	for _, p := range profiles {
		res = append(res, WithEmail{Profile: p, Email: emails[p.ID]})
	}
	return res, nil
}
