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

func TestCampgroundSort_OrderClause(t *testing.T) {
	tests := []struct {
		sort     CampgroundSort
		expected string
	}{
		{SortRateAvg, "rate_count DESC, rate_avg DESC"},
		{SortRateCount, "rate_count DESC"},
		{SortPriceLow, "price ASC, rate_avg DESC"},
		{SortDefault, "price DESC, rate_avg DESC"},
		{CampgroundSort("bogus"), "price DESC, rate_avg DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.sort.orderClause())
	}
}

func TestCampgroundRepository_ListSorted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCampgroundRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "rate_count"}).
		AddRow(2, "Busy Meadow", 9).
		AddRow(1, "Quiet Pines", 3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "campgrounds" WHERE "campgrounds"."deleted_at" IS NULL ORDER BY rate_count DESC`)).
		WillReturnRows(rows)

	campgrounds, err := repo.ListSorted(context.Background(), SortRateCount)
	assert.NoError(t, err)
	assert.Len(t, campgrounds, 2)
	assert.GreaterOrEqual(t, campgrounds[0].RateCount, campgrounds[1].RateCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampgroundRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCampgroundRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "campgrounds" WHERE "campgrounds"."id" = $1`)).
		WithArgs(42, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByID(context.Background(), 42)
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampgroundRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCampgroundRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "campgrounds"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	cg := &models.Campground{
		Name:           "Lakeside Retreat",
		Location:       "Geneva, Switzerland",
		Price:          50,
		AuthorID:       1,
		AuthorUsername: "camper",
		Tags:           models.TagList{"lake", "family"},
	}
	assert.NoError(t, repo.Create(context.Background(), cg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampgroundRepository_UpdateRating(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCampgroundRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "campgrounds" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.UpdateRating(context.Background(), 1, 4.5, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampgroundRepository_ListByAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCampgroundRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "author_id"}).
		AddRow(1, "Quiet Pines", 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "campgrounds" WHERE author_id = $1`)).
		WithArgs(7).
		WillReturnRows(rows)

	campgrounds, err := repo.ListByAuthor(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, campgrounds, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
