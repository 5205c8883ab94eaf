package repository

import (
	"context"
	"regexp"
	"testing"

	"trailhaven/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{
		Text:           "Great spot by the water",
		Rating:         5,
		AuthorID:       1,
		AuthorUsername: "camper",
		CampgroundID:   3,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1`)).
		WithArgs(5, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByID(context.Background(), 5)
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "text", "rating", "author_id"}).
		AddRow(1, "Loved it", 5, 7).
		AddRow(2, "Too buggy in July", 3, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE author_id = $1`)).
		WithArgs(7).
		WillReturnRows(rows)

	comments, err := repo.ListByAuthor(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
