package review

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/dbtest"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
)

type recorder struct {
	users []uuid.UUID
}

func (r *recorder) Publish(_ context.Context, _ realtime.Event, userIDs ...uuid.UUID) {
	r.users = append(r.users, userIDs...)
}

func TestCreateRequiresCompletedOffer(t *testing.T) {
	gdb := dbtest.New(t)
	rec := &recorder{}
	svc := NewService(gdb, rec)
	ctx := context.Background()

	fu, f := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)
	actor := access.Actor{UserID: client.ID, Role: client.Role}
	gig := dbtest.Gig(t, gdb, f.ID, "Logo")
	offer := dbtest.Offer(t, gdb, gig, client.ID, models.OfferStatusDelivered)

	in := CreateInput{Message: "Great", Rating: 5, GigID: gig.ID, UserID: client.ID}

	_, err := svc.Create(ctx, actor, gig.ID, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOfferNotCompleted))
	assert.Equal(t, http.StatusConflict, apperrors.From(err).HTTPCode)

	require.NoError(t, gdb.Model(offer).Update("status", models.OfferStatusCompleted).Error)

	rev, err := svc.Create(ctx, actor, gig.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 5, rev.Rating)
	require.NotNil(t, rev.OfferID)
	assert.Equal(t, offer.ID, *rev.OfferID)
	assert.Equal(t, []uuid.UUID{fu.ID}, rec.users)

	_, err = svc.Create(ctx, actor, gig.ID, in)
	assert.True(t, errors.Is(err, ErrAlreadyReviewed))

	avg, n, err := svc.AverageRating(ctx, f.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.InDelta(t, 5.0, avg, 0.001)
}

func TestCreateOneReviewPerCompletedOffer(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	_, f := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)
	actor := access.Actor{UserID: client.ID, Role: client.Role}
	gig := dbtest.Gig(t, gdb, f.ID, "Logo")
	dbtest.Offer(t, gdb, gig, client.ID, models.OfferStatusCompleted)
	dbtest.Offer(t, gdb, gig, client.ID, models.OfferStatusCompleted)

	in := CreateInput{Message: "ok", Rating: 3, GigID: gig.ID, UserID: client.ID}
	_, err := svc.Create(ctx, actor, gig.ID, in)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, gig.ID, in)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, gig.ID, in)
	assert.True(t, errors.Is(err, ErrAlreadyReviewed))
}

func TestConcurrentReviewsOfOneOffer(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	_, f := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)
	actor := access.Actor{UserID: client.ID, Role: client.Role}
	gig := dbtest.Gig(t, gdb, f.ID, "Logo")
	dbtest.Offer(t, gdb, gig, client.ID, models.OfferStatusCompleted)

	in := CreateInput{Message: "ok", Rating: 4, GigID: gig.ID, UserID: client.ID}
	const n = 5
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, actor, gig.ID, in)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.Equal(t, http.StatusConflict, apperrors.From(err).HTTPCode)
	}
	assert.Equal(t, 1, ok)

	var rows int64
	require.NoError(t, gdb.Model(&models.Review{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestInsertMapsDuplicateOffer(t *testing.T) {
	gdb := dbtest.New(t)

	_, f := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)
	gig := dbtest.Gig(t, gdb, f.ID, "Logo")
	o := dbtest.Offer(t, gdb, gig, client.ID, models.OfferStatusCompleted)

	first := &models.Review{GigID: gig.ID, UserID: client.ID, OfferID: &o.ID, Message: "a", Rating: 5}
	require.NoError(t, insert(gdb, first))

	second := &models.Review{GigID: gig.ID, UserID: client.ID, OfferID: &o.ID, Message: "b", Rating: 4}
	err := insert(gdb, second)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Equal(t, apperrors.CodeConflict, apperrors.From(err).Code)
}

func TestCreateValidation(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	_, f := dbtest.Freelancer(t, gdb, "maker")
	client := dbtest.User(t, gdb, "buyer", models.RoleClient)
	actor := access.Actor{UserID: client.ID, Role: client.Role}
	gig := dbtest.Gig(t, gdb, f.ID, "Logo")

	_, err := svc.Create(ctx, actor, gig.ID, CreateInput{Message: "   ", Rating: 9, GigID: gig.ID, UserID: client.ID})
	appErr := apperrors.From(err)
	require.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Contains(t, appErr.Details, "message")
	assert.Contains(t, appErr.Details, "rating")

	_, err = svc.Create(ctx, actor, uuid.New(), CreateInput{Message: "x", Rating: 1, GigID: gig.ID, UserID: client.ID})
	assert.Equal(t, http.StatusBadRequest, apperrors.From(err).HTTPCode)

	other := dbtest.User(t, gdb, "other", models.RoleClient)
	_, err = svc.Create(ctx, actor, gig.ID, CreateInput{Message: "x", Rating: 1, GigID: gig.ID, UserID: other.ID})
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	missing := uuid.New()
	_, err = svc.Create(ctx, actor, missing, CreateInput{Message: "x", Rating: 1, GigID: missing, UserID: client.ID})
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)
}
