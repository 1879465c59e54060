package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/profile"
	inmemdb "github.com/trezcool/watas/storage/database/inmem"
)

type fakeDirectory struct {
	emails map[string]string
	err    error
}

func (d fakeDirectory) Emails(context.Context) (map[string]string, error) { return d.emails, d.err }

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(inmemdb.NewProfileRepository(inmemdb.Open()), nil, core.NopLogger())
	idx := "10645321"

	p, err := svc.Save(ctx, "u1", profile.UpdateProfile{FullName: "Ama Mensah", IndexNumber: &idx})
	require.NoError(t, err)
	assert.False(t, p.IsPro)

	_, err = svc.SetPro(ctx, "u1", true)
	require.NoError(t, err)

	// saving never resets PRO
	p, err = svc.Save(ctx, "u1", profile.UpdateProfile{FullName: "Ama K. Mensah"})
	require.NoError(t, err)
	assert.True(t, p.IsPro)
	assert.Equal(t, "Ama K. Mensah", p.FullName)
	assert.Nil(t, p.IndexNumber)

	_, err = svc.SetPro(ctx, "nobody", true)
	assert.Equal(t, profile.ErrNotFound, err)
	_, err = svc.Get(ctx, "nobody")
	assert.Equal(t, profile.ErrNotFound, err)
}

func TestService_QueryWithEmails(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewProfileRepository(inmemdb.Open())
	_, err := repo.UpsertProfile(ctx, profile.Profile{ID: "u1", FullName: "Ama"})
	require.NoError(t, err)

	svc := profile.NewService(repo, fakeDirectory{emails: map[string]string{"u1": "ama@st.knust.edu.gh"}}, core.NopLogger())
	res, err := svc.QueryWithEmails(ctx)
	require.NoError(t, err)
	if assert.Len(t, res, 1) {
		assert.Equal(t, "ama@st.knust.edu.gh", res[0].Email)
	}

	svc = profile.NewService(repo, fakeDirectory{err: errors.New("boom")}, core.NopLogger())
	res, err = svc.QueryWithEmails(ctx)
	require.NoError(t, err)
	if assert.Len(t, res, 1) {
		assert.Equal(t, "", res[0].Email)
	}
}
