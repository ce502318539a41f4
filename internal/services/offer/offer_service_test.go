package offer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/dbtest"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
)

type published struct {
	ev    realtime.Event
	users []uuid.UUID
}

type recorder struct {
	sent []published
}

func (r *recorder) Publish(_ context.Context, ev realtime.Event, userIDs ...uuid.UUID) {
	r.sent = append(r.sent, published{ev: ev, users: userIDs})
}

type fixture struct {
	db         *gorm.DB
	svc        *Service
	rec        *recorder
	freelancer access.Actor
	client     access.Actor
	admin      access.Actor
	gig        *models.Gig
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	rec := &recorder{}

	fu, f := dbtest.Freelancer(t, gdb, "maker")
	cu := dbtest.User(t, gdb, "buyer", models.RoleClient)
	au := dbtest.User(t, gdb, "admin", models.RoleAdmin)

	return &fixture{
		db:         gdb,
		svc:        NewService(gdb, rec),
		rec:        rec,
		freelancer: access.Actor{UserID: fu.ID, Role: fu.Role},
		client:     access.Actor{UserID: cu.ID, Role: cu.Role},
		admin:      access.Actor{UserID: au.ID, Role: au.Role},
		gig:        dbtest.Gig(t, gdb, f.ID, "Landing page"),
	}
}

func (fx *fixture) offer(t *testing.T, status models.OfferStatus) *models.Offer {
	return dbtest.Offer(t, fx.db, fx.gig, fx.client.UserID, status)
}

func (fx *fixture) stored(t *testing.T, id uuid.UUID) models.Offer {
	t.Helper()
	var o models.Offer
	require.NoError(t, fx.db.First(&o, "id = ?", id).Error)
	return o
}

func TestCreate(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	view, err := fx.svc.Create(ctx, fx.freelancer, CreateInput{GigID: fx.gig.ID, UserID: fx.client.UserID, Price: 150})
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusPending, view.Status)
	assert.False(t, view.IsAccepted)
	assert.Equal(t, int64(150), view.Price)
	assert.ElementsMatch(t, []models.OfferStatus{models.OfferStatusAccepted, models.OfferStatusRejected}, view.AllowedNext)
	require.NotNil(t, view.Freelancer)
	assert.Equal(t, "maker", view.Freelancer.User.Username)

	require.Len(t, fx.rec.sent, 1)
	assert.ElementsMatch(t, []uuid.UUID{fx.client.UserID, fx.freelancer.UserID}, fx.rec.sent[0].users)

	_, err = fx.svc.Create(ctx, fx.client, CreateInput{GigID: fx.gig.ID, UserID: fx.client.UserID, Price: 1})
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	_, err = fx.svc.Create(ctx, fx.freelancer, CreateInput{GigID: fx.gig.ID, UserID: fx.freelancer.UserID, Price: 1})
	assert.Equal(t, http.StatusBadRequest, apperrors.From(err).HTTPCode)

	_, err = fx.svc.Create(ctx, fx.freelancer, CreateInput{GigID: fx.gig.ID, UserID: fx.client.UserID, Price: -1})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.From(err).Code)

	_, err = fx.svc.Create(ctx, fx.freelancer, CreateInput{GigID: uuid.New(), UserID: fx.client.UserID})
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)
}

func TestUpdateStatusFullLifecycle(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	o := fx.offer(t, models.OfferStatusPending)

	steps := []struct {
		actor  access.Actor
		status models.OfferStatus
	}{
		{fx.client, models.OfferStatusAccepted},
		{fx.freelancer, models.OfferStatusDelivered},
		{fx.client, models.OfferStatusAccepted}, // revision
		{fx.freelancer, models.OfferStatusDelivered},
		{fx.client, models.OfferStatusCompleted},
	}
	for _, step := range steps {
		view, err := fx.svc.UpdateStatus(ctx, step.actor, StatusInput{ID: o.ID, Status: step.status})
		require.NoError(t, err, "set %s", step.status)
		assert.Equal(t, step.status, view.Status)
		assert.Equal(t, step.status, fx.stored(t, o.ID).Status)
	}

	final := fx.stored(t, o.ID)
	assert.True(t, final.IsAccepted)

	view, err := fx.svc.Get(ctx, fx.client, o.ID)
	require.NoError(t, err)
	assert.Empty(t, view.AllowedNext, "completed is terminal")
	assert.Len(t, fx.rec.sent, len(steps))
}

func TestUpdateStatusReject(t *testing.T) {
	fx := setup(t)
	o := fx.offer(t, models.OfferStatusPending)

	view, err := fx.svc.UpdateStatus(context.Background(), fx.client, StatusInput{ID: o.ID, Status: models.OfferStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, view.Status)
	assert.False(t, fx.stored(t, o.ID).IsAccepted)

	_, err = fx.svc.UpdateStatus(context.Background(), fx.client, StatusInput{ID: o.ID, Status: models.OfferStatusAccepted})
	assert.True(t, errors.Is(err, ErrIllegalTransition), "rejected is terminal")
}

func TestUpdateStatusIllegalTransitionLeavesStatus(t *testing.T) {
	fx := setup(t)
	o := fx.offer(t, models.OfferStatusPending)

	_, err := fx.svc.UpdateStatus(context.Background(), fx.client, StatusInput{ID: o.ID, Status: models.OfferStatusCompleted})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalTransition))

	appErr := apperrors.From(err)
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode)
	assert.Equal(t, apperrors.CodeIllegalTransition, appErr.Code)

	assert.Equal(t, models.OfferStatusPending, fx.stored(t, o.ID).Status)
	assert.Empty(t, fx.rec.sent)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	fx := setup(t)
	o := fx.offer(t, models.OfferStatusDelivered)
	before := fx.stored(t, o.ID)

	view, err := fx.svc.UpdateStatus(context.Background(), fx.freelancer, StatusInput{ID: o.ID, Status: models.OfferStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusDelivered, view.Status)
	assert.Equal(t, before.UpdatedAt.UnixNano(), fx.stored(t, o.ID).UpdatedAt.UnixNano())
	assert.Empty(t, fx.rec.sent)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	fx := setup(t)
	o := fx.offer(t, models.OfferStatusPending)

	_, err := fx.svc.UpdateStatus(context.Background(), fx.client, StatusInput{ID: o.ID, Status: "CANCELLED"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.Equal(t, http.StatusBadRequest, apperrors.From(err).HTTPCode)
}

func TestUpdateStatusActorRules(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	stranger := access.Actor{UserID: dbtest.User(t, fx.db, "stranger", models.RoleClient).ID, Role: models.RoleClient}

	pending := fx.offer(t, models.OfferStatusPending)
	_, err := fx.svc.UpdateStatus(ctx, fx.freelancer, StatusInput{ID: pending.ID, Status: models.OfferStatusAccepted})
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode, "freelancer cannot accept own offer")

	_, err = fx.svc.UpdateStatus(ctx, stranger, StatusInput{ID: pending.ID, Status: models.OfferStatusAccepted})
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	accepted := fx.offer(t, models.OfferStatusAccepted)
	_, err = fx.svc.UpdateStatus(ctx, fx.client, StatusInput{ID: accepted.ID, Status: models.OfferStatusDelivered})
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode, "client cannot deliver")

	_, err = fx.svc.UpdateStatus(ctx, fx.admin, StatusInput{ID: accepted.ID, Status: models.OfferStatusDelivered})
	assert.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, fx.client, StatusInput{ID: uuid.New(), Status: models.OfferStatusAccepted})
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)
}

func TestGetAndList(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	o := fx.offer(t, models.OfferStatusAccepted)
	other := dbtest.User(t, fx.db, "other", models.RoleClient)

	view, err := fx.svc.Get(ctx, fx.freelancer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.OfferStatus{models.OfferStatusDelivered}, view.AllowedNext)
	assert.Equal(t, "buyer", view.User.Username)
	assert.Equal(t, "Landing page", view.Gig.Title)

	_, err = fx.svc.Get(ctx, access.Actor{UserID: other.ID, Role: other.Role}, o.ID)
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	_, err = fx.svc.Get(ctx, fx.admin, o.ID)
	assert.NoError(t, err)

	mine, err := fx.svc.List(ctx, fx.freelancer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := fx.svc.List(ctx, fx.client)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	none, err := fx.svc.List(ctx, access.Actor{UserID: other.ID, Role: other.Role})
	require.NoError(t, err)
	assert.Empty(t, none)
}
