package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"rainbowfinder/internal/types"
)

// Compile-time assertion that UserRepository implements types.UserStore.
var _ types.UserStore = (*UserRepository)(nil)

// UserRepository provides data access for the users and favorite_locations
// tables. Preferences are stored denormalized on the users row; favorites
// live in their own table keyed by (user_id, name).
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a UserRepository backed by the given database
// connection (pool or transaction).
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// userColumns is the standard column set for user queries. Used consistently
// across query methods to avoid column drift.
const userColumns = `u.id, u.email, u.webhook_url, u.min_probability, u.max_distance_km,
	u.notification_enabled, u.lead_time_minutes, u.created_at, u.updated_at`

// scanUser scans one user row into a UserProfile. Column order must match
// userColumns. Nullable contact columns scan through pointers.
func scanUser(row pgx.Row) (*types.UserProfile, error) {
	var u types.UserProfile
	var (
		email      *string
		webhookURL *string
	)
	err := row.Scan(
		&u.ID,
		&email,
		&webhookURL,
		&u.Preferences.MinProbability,
		&u.Preferences.MaxDistanceKM,
		&u.Preferences.NotificationEnabled,
		&u.Preferences.LeadTimeMinutes,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	if webhookURL != nil {
		u.WebhookURL = *webhookURL
	}
	return &u, nil
}

// GetProfile retrieves a user with preferences and favorite locations.
// Returns ErrCodeNotFoundUser if no such user exists.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u
		 WHERE u.id = $1`,
		userID,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundUser, "user not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve user", err)
	}

	favs, err := r.listFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Preferences.FavoriteLocations = favs
	return u, nil
}

// ListNotifiable returns every user with notifications enabled and at least
// one favorite location, favorites attached. The scheduler iterates this set
// each cycle.
func (r *UserRepository) ListNotifiable(ctx context.Context) ([]types.UserProfile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users u
		 WHERE u.notification_enabled
		   AND EXISTS (SELECT 1 FROM favorite_locations f WHERE f.user_id = u.id)
		 ORDER BY u.id`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list notifiable users", err)
	}
	defer rows.Close()

	var users []types.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan user row", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate users", err)
	}

	for i := range users {
		favs, err := r.listFavorites(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Preferences.FavoriteLocations = favs
	}
	return users, nil
}

// SavePreferences validates and upserts the scalar preference fields.
// Favorite locations are managed through AddFavorite/RemoveFavorite, not
// here.
func (r *UserRepository) SavePreferences(ctx context.Context, userID string, prefs types.UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET min_probability = $2,
		     max_distance_km = $3,
		     notification_enabled = $4,
		     lead_time_minutes = $5,
		     updated_at = now()
		 WHERE id = $1`,
		userID,
		prefs.MinProbability,
		prefs.MaxDistanceKM,
		prefs.NotificationEnabled,
		prefs.LeadTimeMinutes,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to save preferences", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundUser, "user not found", nil)
	}
	return nil
}

// AddFavorite stores a named favorite location, replacing an existing
// favorite with the same name.
func (r *UserRepository) AddFavorite(ctx context.Context, userID string, loc types.GeoPoint) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if loc.Name == "" {
		return types.NewAppError(types.ErrCodeValidationMissingField,
			"favorite location requires a name", nil)
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO favorite_locations (user_id, name, lat, lon, altitude_m)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, name)
		 DO UPDATE SET lat = EXCLUDED.lat, lon = EXCLUDED.lon, altitude_m = EXCLUDED.altitude_m`,
		userID, loc.Name, loc.Lat, loc.Lon, loc.AltitudeM,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite by name. Removing a favorite that does
// not exist returns ErrCodeNotFoundFavorite.
func (r *UserRepository) RemoveFavorite(ctx context.Context, userID string, name string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM favorite_locations WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to remove favorite", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundFavorite, "favorite not found", nil)
	}
	return nil
}

// listFavorites loads a user's favorites ordered by name for stable output.
func (r *UserRepository) listFavorites(ctx context.Context, userID string) ([]types.GeoPoint, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, lat, lon, altitude_m
		 FROM favorite_locations
		 WHERE user_id = $1
		 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list favorites", err)
	}
	defer rows.Close()

	var favs []types.GeoPoint
	for rows.Next() {
		var p types.GeoPoint
		if err := rows.Scan(&p.Name, &p.Lat, &p.Lon, &p.AltitudeM); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan favorite row", err)
		}
		favs = append(favs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate favorites", err)
	}
	return favs, nil
}
