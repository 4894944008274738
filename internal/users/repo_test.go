package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	roles := `
CREATE TABLE IF NOT EXISTS roles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  permissions INTEGER NOT NULL DEFAULT 0,
  is_default INTEGER NOT NULL DEFAULT 0
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  confirmed INTEGER NOT NULL DEFAULT 0,
  role_id TEXT NOT NULL,
  name TEXT,
  location TEXT,
  about_me TEXT,
  avatar_hash TEXT NOT NULL DEFAULT '',
  member_since DATETIME,
  last_seen_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(roles).Error)
	require.NoError(t, db.Exec(users).Error)
	return db
}

func seedRole(t *testing.T, db *gorm.DB, name string, permissions int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO roles (id, name, permissions, is_default) VALUES (?, ?, ?, ?)`,
		id, name, permissions, name == "User",
	).Error)
	return id
}

func TestCreateNormalizesEmailAndDerivesAvatar(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	roleID := seedRole(t, db, "User", 3)

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "  Greta@Example.COM ",
		Username:     "greta",
		PasswordHash: "hash",
		RoleID:       roleID,
	})
	require.NoError(t, err)

	assert.Equal(t, "greta@example.com", user.Email)
	assert.Equal(t, AvatarHash("greta@example.com"), user.AvatarHash)
	assert.False(t, user.Confirmed)
}

func TestFindByLoginResolvesUsernameOrEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	roleID := seedRole(t, db, "User", 3)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "finn@example.com",
		Username:     "finn",
		PasswordHash: "hash",
		RoleID:       roleID,
	})
	require.NoError(t, err)

	byName, err := repo.FindByLogin(ctx, "finn")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindByLogin(ctx, "Finn@Example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	require.NotNil(t, byEmail.Role)
	assert.Equal(t, "User", byEmail.Role.Name)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateProfileAppliesOnlySetFields(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	roleID := seedRole(t, db, "User", 3)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "ines@example.com",
		Username:     "ines",
		PasswordHash: "hash",
		RoleID:       roleID,
	})
	require.NoError(t, err)

	location := "Lisbon"
	require.NoError(t, repo.UpdateProfile(ctx, created.ID, UpdateProfileDTO{Location: &location}))
	// empty update is a no-op, not an error
	require.NoError(t, repo.UpdateProfile(ctx, created.ID, UpdateProfileDTO{}))

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Location)
	assert.Equal(t, "Lisbon", *fetched.Location)
	assert.Nil(t, fetched.Name)
}

func TestAdminUpdateRecomputesAvatarOnEmailChange(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	roleID := seedRole(t, db, "User", 3)
	modRoleID := seedRole(t, db, "Moderator", 10)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "joss@example.com",
		Username:     "joss",
		PasswordHash: "hash",
		RoleID:       roleID,
	})
	require.NoError(t, err)

	newEmail := "Joss@New.example.com"
	confirmed := true
	require.NoError(t, repo.AdminUpdate(ctx, created.ID, AdminUpdateDTO{
		Email:     &newEmail,
		Confirmed: &confirmed,
		RoleID:    &modRoleID,
	}))

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "joss@new.example.com", fetched.Email)
	assert.Equal(t, AvatarHash("joss@new.example.com"), fetched.AvatarHash)
	assert.True(t, fetched.Confirmed)
	assert.Equal(t, modRoleID, fetched.RoleID)
}

func TestUpdateLastSeenAndMarkConfirmed(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	roleID := seedRole(t, db, "User", 3)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "kira@example.com",
		Username:     "kira",
		PasswordHash: "hash",
		RoleID:       roleID,
	})
	require.NoError(t, err)

	seen := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastSeen(ctx, created.ID, seen))
	require.NoError(t, repo.MarkConfirmed(ctx, created.ID))

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastSeenAt)
	assert.WithinDuration(t, seen, *fetched.LastSeenAt, time.Second)
	assert.True(t, fetched.Confirmed)
}
