package category

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "color", "sort_order", "is_active",
		"created_at", "updated_at",
	})
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := categoryRows().
			AddRow("c-1", "Minuman", "minuman", "#00ff00", 1, true, time.Now(), time.Now()).
			AddRow("c-2", "Snack", "snack", nil, 2, true, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM categories WHERE is_active = TRUE ORDER BY sort_order").
			WillReturnRows(rows)

		categories, err := repo.List(context.Background(), true)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "minuman", categories[0].Slug)
		assert.Nil(t, categories[1].Color)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM categories").
			WillReturnError(errors.New("db error"))

		_, err := repo.List(context.Background(), false)
		assert.Error(t, err)
	})
}

func TestRepository_GetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := categoryRows().
			AddRow("c-1", "Minuman", "minuman", nil, 1, true, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM categories WHERE slug = \\$1").
			WithArgs("minuman").
			WillReturnRows(rows)

		c, err := repo.GetBySlug(context.Background(), "minuman")
		require.NoError(t, err)
		assert.Equal(t, "c-1", c.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM categories WHERE slug = \\$1").
			WithArgs("missing").
			WillReturnRows(categoryRows())

		_, err := repo.GetBySlug(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := categoryRows().
		AddRow("c-9", "Sayur Segar", "sayur-segar", nil, 3, true, time.Now(), time.Now())

	// slug is derived from the name before insert
	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Sayur Segar", "sayur-segar", nil, 3).
		WillReturnRows(rows)

	c, err := repo.Create(context.Background(), NewCategoryInput{Name: "Sayur Segar", SortOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, "sayur-segar", c.Slug)
}

func TestRepository_SetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE categories").
			WithArgs(false, "c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetActive(context.Background(), "c-1", false))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE categories").
			WithArgs(true, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetActive(context.Background(), "missing", true), ErrCategoryNotFound)
	})
}
