package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rainbowfinder/internal/types"
)

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type mockRow struct {
	scanFn func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error { return r.scanFn(dest...) }

// fakeRows is a minimal pgx.Rows over a list of per-row scan functions.
type fakeRows struct {
	scans []func(dest ...any) error
	idx   int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}
func (r *fakeRows) Scan(dest ...any) error   { return r.scans[r.idx-1](dest...) }
func (r *fakeRows) Values() ([]any, error)   { return nil, nil }
func (r *fakeRows) RawValues() [][]byte      { return nil }
func (r *fakeRows) Conn() *pgx.Conn          { return nil }

func userScan(id, email string) func(dest ...any) error {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	return func(dest ...any) error {
		*dest[0].(*string) = id
		e := email
		*dest[1].(**string) = &e // email
		*dest[2].(**string) = nil // webhook_url
		*dest[3].(*float64) = 0.5
		*dest[4].(*float64) = 10
		*dest[5].(*bool) = true
		*dest[6].(*int) = 30
		*dest[7].(*time.Time) = now
		*dest[8].(*time.Time) = now
		return nil
	}
}

func favoriteScan(name string, lat, lon float64) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*string) = name
		*dest[1].(*float64) = lat
		*dest[2].(*float64) = lon
		*dest[3].(*float64) = 0
		return nil
	}
}

func TestGetProfile_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), []any{"u-1"}).
		Return(&mockRow{scanFn: userScan("u-1", "viewer@example.com")})
	db.On("Query", ctx, mock.AnythingOfType("string"), []any{"u-1"}).
		Return(&fakeRows{scans: []func(dest ...any) error{
			favoriteScan("home", 47.6, -122.3),
		}}, nil)

	profile, err := repo.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", profile.ID)
	assert.Equal(t, "viewer@example.com", profile.Email)
	assert.Empty(t, profile.WebhookURL)
	assert.Equal(t, 0.5, profile.Preferences.MinProbability)
	require.Len(t, profile.Preferences.FavoriteLocations, 1)
	assert.Equal(t, "home", profile.Preferences.FavoriteLocations[0].Name)

	db.AssertExpectations(t)
}

func TestGetProfile_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), []any{"ghost"}).
		Return(&mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }})

	_, err := repo.GetProfile(ctx, "ghost")
	var appErr *types.AppError
	require.True(t, types.AsAppError(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundUser, appErr.Code)
}

func TestListNotifiable_AttachesFavorites(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.HasPrefix(sql, "SELECT") && strings.Contains(sql, "notification_enabled")
	}), []any(nil)).
		Return(&fakeRows{scans: []func(dest ...any) error{
			userScan("u-1", "a@example.com"),
			userScan("u-2", "b@example.com"),
		}}, nil)
	db.On("Query", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "favorite_locations")
	}), []any{"u-1"}).
		Return(&fakeRows{scans: []func(dest ...any) error{favoriteScan("home", 47.6, -122.3)}}, nil)
	db.On("Query", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "favorite_locations")
	}), []any{"u-2"}).
		Return(&fakeRows{scans: nil}, nil)

	users, err := repo.ListNotifiable(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Len(t, users[0].Preferences.FavoriteLocations, 1)
	assert.Empty(t, users[1].Preferences.FavoriteLocations)
}

func TestSavePreferences(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)
	ctx := context.Background()

	prefs := types.DefaultPreferences()
	db.On("Exec", ctx, mock.AnythingOfType("string"),
		[]any{"u-1", prefs.MinProbability, prefs.MaxDistanceKM, prefs.NotificationEnabled, prefs.LeadTimeMinutes}).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	require.NoError(t, repo.SavePreferences(ctx, "u-1", prefs))
	db.AssertExpectations(t)
}

func TestSavePreferences_InvalidRejectedBeforeQuery(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)

	bad := types.DefaultPreferences()
	bad.MinProbability = 1.5

	err := repo.SavePreferences(context.Background(), "u-1", bad)
	var appErr *types.AppError
	require.True(t, types.AsAppError(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationPreferences, appErr.Code)
	db.AssertNotCalled(t, "Exec")
}

func TestSavePreferences_UnknownUser(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	err := repo.SavePreferences(ctx, "ghost", types.DefaultPreferences())
	var appErr *types.AppError
	require.True(t, types.AsAppError(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundUser, appErr.Code)
}

func TestAddFavorite_RequiresName(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)

	err := repo.AddFavorite(context.Background(), "u-1", types.GeoPoint{Lat: 1, Lon: 2})
	var appErr *types.AppError
	require.True(t, types.AsAppError(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationMissingField, appErr.Code)
}

func TestRemoveFavorite_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRepository(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), []any{"u-1", "nowhere"}).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)

	err := repo.RemoveFavorite(ctx, "u-1", "nowhere")
	var appErr *types.AppError
	require.True(t, types.AsAppError(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundFavorite, appErr.Code)
}
