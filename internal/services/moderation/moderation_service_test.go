package moderation

import (
	"context"
	"errors"
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

func TestReportCapsAtMaxSuspension(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	target := dbtest.User(t, gdb, "spammer", models.RoleClient)
	reporter := dbtest.User(t, gdb, "victim", models.RoleClient)
	actor := access.Actor{UserID: reporter.ID, Role: reporter.Role}

	for i := 1; i <= models.MaxSuspension; i++ {
		u, err := svc.Report(ctx, actor, ReportInput{UserID: target.ID, Message: "spam"})
		require.NoError(t, err, "report %d", i)
		assert.Equal(t, i, u.SuspensionCount)
	}

	_, err := svc.Report(ctx, actor, ReportInput{UserID: target.ID, Message: "again"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSuspensionCapReached))
	appErr := apperrors.From(err)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Equal(t, apperrors.CodeSuspensionCap, appErr.Code)

	var stored models.User
	require.NoError(t, gdb.First(&stored, "id = ?", target.ID).Error)
	assert.Equal(t, models.MaxSuspension, stored.SuspensionCount)
	assert.True(t, stored.IsSuspended())

	var rows int64
	gdb.Model(&models.Report{}).Where("user_id = ?", target.ID).Count(&rows)
	assert.EqualValues(t, models.MaxSuspension, rows)
}

func TestReportErrors(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	me := dbtest.User(t, gdb, "me", models.RoleClient)
	actor := access.Actor{UserID: me.ID, Role: me.Role}

	_, err := svc.Report(ctx, actor, ReportInput{UserID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)

	_, err = svc.Report(ctx, actor, ReportInput{UserID: me.ID})
	assert.Equal(t, http.StatusBadRequest, apperrors.From(err).HTTPCode)

	_, err = svc.Report(ctx, actor, ReportInput{})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.From(err).Code)
}

func TestListReports(t *testing.T) {
	gdb := dbtest.New(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	target := dbtest.User(t, gdb, "target", models.RoleClient)
	reporter := dbtest.User(t, gdb, "reporter", models.RoleClient)
	admin := dbtest.User(t, gdb, "admin", models.RoleAdmin)
	reporterActor := access.Actor{UserID: reporter.ID, Role: reporter.Role}

	_, err := svc.Report(ctx, reporterActor, ReportInput{UserID: target.ID, Message: "rude"})
	require.NoError(t, err)
	_, err = svc.Report(ctx, reporterActor, ReportInput{UserID: target.ID, Message: "rude again"})
	require.NoError(t, err)

	_, err = svc.ListReports(ctx, reporterActor, target.ID)
	assert.Equal(t, http.StatusForbidden, apperrors.From(err).HTTPCode)

	reports, err := svc.ListReports(ctx, access.Actor{UserID: admin.ID, Role: admin.Role}, target.ID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.NotNil(t, reports[0].Reporter)
	assert.Equal(t, "reporter", reports[0].Reporter.Username)

	_, err = svc.ListReports(ctx, access.Actor{UserID: admin.ID, Role: admin.Role}, uuid.New())
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).HTTPCode)
}
