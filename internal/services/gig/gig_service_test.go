package gig

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/dbtest"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
)

func actorFor(u *models.User) access.Actor {
	return access.Actor{UserID: u.ID, Role: u.Role}
}

func TestCreateAndGet(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	u, f := dbtest.Freelancer(t, gdb, "maker")
	cat := &models.Category{Name: "Design"}
	require.NoError(t, gdb.Create(cat).Error)

	g, err := svc.Create(ctx, actorFor(u), CreateInput{
		Title:       "  Logo design ",
		Description: "Three concepts",
		From:        20,
		To:          80,
		Revision:    7,
		CategoryID:  &cat.ID,
		Tags:        []string{"Logo", "branding", "logo "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Logo design", g.Title)
	assert.Equal(t, f.ID, g.FreelancerID)
	require.NotNil(t, g.Category)
	assert.Equal(t, "Design", g.Category.Name)
	assert.Equal(t, []string{"logo", "branding"}, []string(g.Tags))
	assert.Equal(t, "maker", g.Freelancer.User.Username)

	fetched, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), fetched.To)
	assert.Equal(t, []string{"logo", "branding"}, []string(fetched.Tags))
	require.NotNil(t, fetched.Freelancer.User)
	assert.Equal(t, "maker", fetched.Freelancer.User.Username)
	assert.Empty(t, fetched.Freelancer.User.Email, "public gig reads must not carry contact details")
}

func TestCreateRejectsBadInput(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	u, _ := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)

	_, err := svc.Create(ctx, actorFor(u), CreateInput{Title: "x", From: 50, To: 10})
	appErr := apperrors.From(err)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Contains(t, appErr.Details, "to")

	_, err = svc.Create(ctx, actorFor(u), CreateInput{Title: "x", CategoryID: ptr(uuid.New())})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.From(err).Code)

	_, err = svc.Create(ctx, actorFor(client), CreateInput{Title: "x"})
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)
}

func TestEdit(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	owner, f := dbtest.Freelancer(t, gdb, "maker")
	other, _ := dbtest.Freelancer(t, gdb, "rival")
	admin := dbtest.User(t, gdb, "root", models.RoleAdmin)
	g := dbtest.Gig(t, gdb, f.ID, "Old title")

	in := EditInput{ID: g.ID, Title: "New title", Description: "d", From: 5, To: 5, Revision: 1}
	updated, err := svc.Edit(ctx, actorFor(owner), g.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, int64(5), updated.From)
	assert.Equal(t, 1, updated.Revision)

	_, err = svc.Edit(ctx, actorFor(owner), uuid.New(), in)
	assert.Equal(t, http.StatusBadRequest, apperrors.From(err).HTTPCode)

	_, err = svc.Edit(ctx, actorFor(other), g.ID, in)
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	in.Title = "By admin"
	updated, err = svc.Edit(ctx, actorFor(admin), g.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "By admin", updated.Title)
}

func TestDelete(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	owner, f := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)
	keep := dbtest.Gig(t, gdb, f.ID, "Keep")
	drop := dbtest.Gig(t, gdb, f.ID, "Drop")
	dbtest.Offer(t, gdb, drop, client.ID, models.OfferStatusCompleted)
	_, err := svc.AddThumbnail(ctx, actorFor(owner), drop.ID, "/uploads/thumbnails/a.png")
	require.NoError(t, err)

	err = svc.Delete(ctx, actorFor(client), drop.ID)
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	require.NoError(t, svc.Delete(ctx, actorFor(owner), drop.ID))

	gigs, err := svc.ListByFreelancer(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	assert.Equal(t, keep.ID, gigs[0].ID)

	var offers, thumbs int64
	gdb.Model(&models.Offer{}).Where("gig_id = ?", drop.ID).Count(&offers)
	gdb.Model(&models.Thumbnail{}).Where("gig_id = ?", drop.ID).Count(&thumbs)
	assert.Zero(t, offers)
	assert.Zero(t, thumbs)

	err = svc.Delete(ctx, actorFor(owner), drop.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)
}

func TestListByFreelancerUnknown(t *testing.T) {
	svc := NewService(dbtest.New(t), nil)
	_, err := svc.ListByFreelancer(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)
}

func TestReferenceLists(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	dbtest.Technology(t, gdb, "Rust")
	dbtest.Technology(t, gdb, "Go")

	techs, err := svc.Technologies(context.Background())
	require.NoError(t, err)
	require.Len(t, techs, 2)
	assert.Equal(t, "Go", techs[0].Name)

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func ptr[T any](v T) *T { return &v }
