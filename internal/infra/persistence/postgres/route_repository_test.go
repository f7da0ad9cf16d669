package postgres

import (
	"context"
	"testing"
	"time"

	"waymark/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// boundsPredicate pins the containment semantics to the generated SQL:
// rows without a derived center are excluded and both comparisons are
// strict, so a center sitting exactly on the rectangle edge never matches.
const boundsPredicate = `center_lng IS NOT NULL AND center_lat IS NOT NULL.*` +
	`center_lng > \$\d+ AND center_lng < \$\d+.*` +
	`center_lat > \$\d+ AND center_lat < \$\d+`

func newMockRepository(t *testing.T) (repository.RouteRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	return NewRouteRepository(db), mock
}

func taipeiSearchBounds() repository.SearchBounds {
	return repository.SearchBounds{
		MinLat: 24.9,
		MaxLat: 25.2,
		MinLng: 121.4,
		MaxLng: 121.7,
	}
}

func TestRouteRepository_SearchWithinBounds_StrictContainmentQuery(t *testing.T) {
	repo, mock := newMockRepository(t)
	bounds := taipeiSearchBounds()

	newerID := uuid.New()
	olderID := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "routes" WHERE .*` + boundsPredicate).
		WithArgs(bounds.MinLng, bounds.MaxLng, bounds.MinLat, bounds.MaxLat).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "name", "difficulty", "blob_key", "original_filename",
		"size_bytes", "center_lng", "center_lat", "created_at", "updated_at",
	}).
		AddRow(newerID.String(), ownerID.String(), "Elephant Mountain Loop", "easy",
			"routes/a/b.gpx", "loop.gpx", int64(128), 121.57, 25.02, now, now).
		AddRow(olderID.String(), ownerID.String(), "Bitan Riverside", "medium",
			"routes/a/c.gpx", "riverside.gpx", int64(256), 121.53, 24.95, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "routes" WHERE .*`+boundsPredicate+
		`.*ORDER BY created_at DESC, id LIMIT \$\d+ OFFSET \$\d+`).
		WithArgs(bounds.MinLng, bounds.MaxLng, bounds.MinLat, bounds.MaxLat, 50, 40).
		WillReturnRows(rows)

	routes, total, err := repo.SearchWithinBounds(context.Background(), bounds, 40, 50)
	require.NoError(t, err)

	assert.Equal(t, int64(42), total)
	require.Len(t, routes, 2)
	assert.Equal(t, newerID, routes[0].ID)
	assert.Equal(t, "Elephant Mountain Loop", routes[0].Name)
	assert.Equal(t, olderID, routes[1].ID)
	assert.Nil(t, routes[0].Geometry, "flattened center columns alone carry no geometry group")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteRepository_SearchWithinBounds_NoMatches(t *testing.T) {
	repo, mock := newMockRepository(t)
	bounds := taipeiSearchBounds()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "routes" WHERE .*` + boundsPredicate).
		WithArgs(bounds.MinLng, bounds.MaxLng, bounds.MinLat, bounds.MaxLat).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`SELECT \* FROM "routes" WHERE .*`+boundsPredicate).
		WithArgs(bounds.MinLng, bounds.MaxLng, bounds.MinLat, bounds.MaxLat, 50, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	routes, total, err := repo.SearchWithinBounds(context.Background(), bounds, 1, 50)
	require.NoError(t, err)

	assert.Zero(t, total)
	assert.Empty(t, routes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteRepository_SearchWithinBounds_CountFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	bounds := taipeiSearchBounds()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "routes"`).
		WillReturnError(gorm.ErrInvalidDB)

	routes, total, err := repo.SearchWithinBounds(context.Background(), bounds, 0, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count routes within bounds")
	assert.Nil(t, routes)
	assert.Zero(t, total)
}
