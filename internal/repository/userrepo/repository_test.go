package userrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/userrepo"
)

var userCols = []string{"id", "email", "password_hash", "role", "created_at", "updated_at"}

func TestFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := userrepo.NewUserRepository(db, time.Second, logger.NewLogger("error"))
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "ana@gowms.local", "hash", "admin", now, now))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows(userCols))

	u, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, "ana@gowms.local", u.Email)

	_, err = repo.FindByID(context.Background(), "u-2")
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
