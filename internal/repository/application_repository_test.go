package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/models"
)

func TestApplicationRepositoryCreateDefaultsToPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO funding_applications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	app := &models.FundingApplication{
		UserID:            "u1",
		CertificationID:   "c1",
		CertificationName: "AWS SAA",
		Reason:            "career growth",
		EstimatedCost:     150,
	}
	require.NoError(t, repo.Create(context.Background(), app))
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.NotEmpty(t, app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryHasPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT 1 FROM funding_applications").
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	has, err := repo.HasPending(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.True(t, has)

	mock.ExpectQuery("SELECT 1 FROM funding_applications").
		WithArgs("u1", "c2").
		WillReturnError(sql.ErrNoRows)

	has, err = repo.HasPending(context.Background(), "u1", "c2")
	require.NoError(t, err)
	assert.False(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryListByStatusJoinsEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "certification_id", "certification_name", "status", "reason", "estimated_cost", "created_at", "updated_at", "user_email"}).
		AddRow("a1", "u1", "c1", "AWS SAA", "pending", "growth", 150.0, time.Now(), time.Now(), "u1@example.com")
	mock.ExpectQuery("SELECT .+ FROM funding_applications fa JOIN users u").
		WithArgs(models.ApplicationPending).
		WillReturnRows(rows)

	apps, err := repo.ListByStatus(context.Background(), models.ApplicationPending)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "u1@example.com", apps[0].UserEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("UPDATE funding_applications SET status =").
		WithArgs("a1", models.ApplicationApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "a1", models.ApplicationApproved))
	assert.NoError(t, mock.ExpectationsWereMet())
}
