package storage_test

import (
	"api/domain"
	"api/migrations"
	"api/storage"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var repo *storage.PostgresRepo

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	migrations.Migrate(connString)

	repo, err = storage.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	// Cleanup
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func TestPostgresRepo(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, repo.DeleteUsers(ctx))

	t.Run("CreateUser", func(t *testing.T) {
		id, err := repo.CreateUser(ctx, "oussama", "Mafioso")
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("GetUserById", func(t *testing.T) {
		id, err := repo.CreateUser(ctx, "sami", "Doctor")
		require.NoError(t, err)

		user, err := repo.GetUserById(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, "sami", user.Name)
		assert.Equal(t, "Doctor", user.Role)
		assert.Equal(t, id, user.Id)
	})

	t.Run("GetUserById_NotFound", func(t *testing.T) {
		_, err := repo.GetUserById(ctx, 999999)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("ListUsers", func(t *testing.T) {
		users, err := repo.ListUsers(ctx)
		assert.NoError(t, err)
		require.Len(t, users, 2)
		// Insertion order, ids ascend.
		assert.Equal(t, "oussama", users[0].Name)
		assert.Equal(t, "sami", users[1].Name)
	})

	t.Run("DeleteUsers", func(t *testing.T) {
		require.NoError(t, repo.DeleteUsers(ctx))

		users, err := repo.ListUsers(ctx)
		assert.NoError(t, err)
		assert.Empty(t, users)
	})
}
