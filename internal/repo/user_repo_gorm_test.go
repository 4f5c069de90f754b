package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authmini/internal/domain"
	"authmini/internal/testutil"
)

func seedUser(t *testing.T, r *UserRepo, email string, role domain.Role, active bool) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "$2a$10$hash", Role: role, IsActive: active}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestUserRepo_CreateAndFind(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	ctx := context.Background()

	u := seedUser(t, r, "a@x.com", domain.RoleUser, true)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := r.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)
	assert.Equal(t, domain.RoleUser, byEmail.Role)
	assert.True(t, byEmail.IsActive)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Nil(t, byID.Profile)

	missing, err := r.FindByEmail(ctx, "A@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing, "email lookup is case-sensitive")

	missing, err = r.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_CreateInactiveKeepsFlag(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	u := seedUser(t, r, "off@x.com", domain.RoleUser, false)

	got, err := r.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@x.com", domain.RoleUser, true)

	err := r.Create(context.Background(), &domain.User{Email: "a@x.com", PasswordHash: "h", Role: domain.RoleUser, IsActive: true})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUserRepo_List(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	ctx := context.Background()
	admin := seedUser(t, r, "admin@example.com", domain.RoleAdmin, true)
	u1 := seedUser(t, r, "User1@example.com", domain.RoleUser, true)
	off := seedUser(t, r, "disabled@example.com", domain.RoleUser, false)
	require.NoError(t, r.UpsertProfile(ctx, u1.ID, domain.Profile{DisplayName: "User One"}))

	all, err := r.List(ctx, domain.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{admin.ID, u1.ID, off.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	require.NotNil(t, all[1].Profile)
	assert.Equal(t, "User One", all[1].Profile.DisplayName)

	found, err := r.List(ctx, domain.UserFilter{Search: "user1"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, u1.ID, found[0].ID)

	inactive := false
	found, err = r.List(ctx, domain.UserFilter{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, off.ID, found[0].ID)

	active := true
	found, err = r.List(ctx, domain.UserFilter{Search: "example", Active: &active})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// 通配符按字面匹配
	for _, s := range []string{"_", "%", "!"} {
		found, err = r.List(ctx, domain.UserFilter{Search: s})
		require.NoError(t, err)
		assert.Empty(t, found, s)
	}
	odd := seedUser(t, r, "a_b%c!d@example.com", domain.RoleUser, true)
	for _, s := range []string{"_", "b%c", "c!d"} {
		found, err = r.List(ctx, domain.UserFilter{Search: s})
		require.NoError(t, err)
		require.Len(t, found, 1, s)
		assert.Equal(t, odd.ID, found[0].ID)
	}
}

func TestUserRepo_SetActive(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com", domain.RoleUser, true)

	got, err := r.SetActive(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// 重复设置同一个值也应成功
	_, err = r.SetActive(ctx, u.ID, false)
	require.NoError(t, err)

	fresh, err := r.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, fresh.IsActive)

	_, err = r.SetActive(ctx, 999, true)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepo_ProfileAndSettingsUpsert(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com", domain.RoleUser, true)

	require.NoError(t, r.UpsertProfile(ctx, u.ID, domain.Profile{DisplayName: "A", Bio: "first"}))
	require.NoError(t, r.UpsertProfile(ctx, u.ID, domain.Profile{DisplayName: "A2", AvatarURL: "https://x/a.png"}))
	require.NoError(t, r.UpsertSettings(ctx, u.ID, domain.Settings{Theme: "dark", Notifications: true}))
	require.NoError(t, r.UpsertSettings(ctx, u.ID, domain.Settings{Theme: "light"}))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	require.NotNil(t, got.Settings)
	assert.Equal(t, domain.Profile{DisplayName: "A2", AvatarURL: "https://x/a.png"}, *got.Profile)
	assert.Equal(t, domain.Settings{Theme: "light"}, *got.Settings)

	require.ErrorIs(t, r.UpsertProfile(ctx, 999, domain.Profile{}), domain.ErrUserNotFound)
	require.ErrorIs(t, r.UpsertSettings(ctx, 999, domain.Settings{}), domain.ErrUserNotFound)
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "a@x.com", domain.RoleUser, true)

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "$2a$10$new"))
	got, err := r.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$new", got.PasswordHash)

	require.ErrorIs(t, r.UpdatePassword(ctx, 999, "x"), domain.ErrUserNotFound)
}

func TestUserRepo_DeleteRemovesRelations(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewUserRepo(db)
	acts := NewActivityRepo(db)
	ctx := context.Background()

	u := seedUser(t, r, "a@x.com", domain.RoleUser, true)
	keep := seedUser(t, r, "b@x.com", domain.RoleUser, true)
	require.NoError(t, r.UpsertProfile(ctx, u.ID, domain.Profile{DisplayName: "A"}))
	require.NoError(t, r.UpsertSettings(ctx, u.ID, domain.Settings{Theme: "dark"}))
	require.NoError(t, acts.Append(ctx, u.ID, "User registered"))
	require.NoError(t, acts.Append(ctx, keep.ID, "User registered"))

	require.NoError(t, r.Delete(ctx, u.ID))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	logs, err := acts.List(ctx, domain.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, keep.ID, logs[0].UserID)

	require.ErrorIs(t, r.Delete(ctx, u.ID), domain.ErrUserNotFound)
}
