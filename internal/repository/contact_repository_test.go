package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/omytech/contact-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmission(subject string) *model.Contact {
	return &model.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: subject,
		Message: "Hello, I would like to hear back from you.",
	}
}

func TestContactRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	t.Run("create assigns id, status and timestamp", func(t *testing.T) {
		created, err := repo.Create(ctx, newSubmission("Question"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, model.ContactStatusNew, created.Status)
		assert.NotZero(t, created.SubmittedAt)
		assert.Equal(t, "Jane Doe", created.Name)
	})

	t.Run("phone is optional", func(t *testing.T) {
		c := newSubmission("No phone")
		created, err := repo.Create(ctx, c)
		require.NoError(t, err)
		assert.Empty(t, created.Phone)
	})
}

func TestContactRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, contacts, 0)
	})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		c := newSubmission("Ordered")
		c.SubmittedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	t.Run("list is newest first", func(t *testing.T) {
		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 5)
		for i := 0; i < len(contacts)-1; i++ {
			assert.True(t, !contacts[i].SubmittedAt.Before(contacts[i+1].SubmittedAt))
		}
	})
}

func TestContactRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newSubmission("Get me"))
	require.NoError(t, err)

	t.Run("existing id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Get me", got.Subject)
	})

	t.Run("repeated get returns the same record", func(t *testing.T) {
		first, err := repo.GetByID(ctx, created.ID.String())
		require.NoError(t, err)
		second, err := repo.GetByID(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id is a storage failure, not not-found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidID)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestContactRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newSubmission("Update me"))
	require.NoError(t, err)

	t.Run("update to read", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, created.ID.String(), model.ContactStatusRead)
		require.NoError(t, err)
		assert.Equal(t, model.ContactStatusRead, updated.Status)

		got, err := repo.GetByID(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, model.ContactStatusRead, got.Status)
	})

	t.Run("only the status field changes", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, created.ID.String(), model.ContactStatusReplied)
		require.NoError(t, err)
		assert.Equal(t, created.Name, updated.Name)
		assert.Equal(t, created.Message, updated.Message)
		assert.Equal(t, created.SubmittedAt.Unix(), updated.SubmittedAt.Unix())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, uuid.New().String(), model.ContactStatusRead)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, "42", model.ContactStatusRead)
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestContactRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newSubmission("Delete me"))
	require.NoError(t, err)

	t.Run("delete removes the record", func(t *testing.T) {
		err := repo.Delete(ctx, created.ID.String())
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, created.ID.String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("second delete of the same id", func(t *testing.T) {
		err := repo.Delete(ctx, created.ID.String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		err := repo.Delete(ctx, "bogus")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}
