package useradmin_test

import (
	"testing"

	useradmin "github.com/goliatone/go-useradmin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeUser(perms ...string) *useradmin.User {
	return &useradmin.User{
		ID: uuid.New(),
		Role: &useradmin.Role{
			ID:          uuid.New(),
			Title:       "tester",
			Permissions: perms,
		},
	}
}

func TestHasPermissionMembership(t *testing.T) {
	user := makeUser(useradmin.CapabilityViewUsers, useradmin.CapabilityViewRoles)

	assert.True(t, useradmin.HasPermission(user, useradmin.CapabilityViewUsers))
	assert.True(t, useradmin.HasPermission(user, useradmin.CapabilityViewRoles))
	assert.False(t, useradmin.HasPermission(user, useradmin.CapabilityDeleteUsers))
	assert.False(t, useradmin.HasPermission(user, "made-up:capability"))
}

func TestHasPermissionDeniesWithoutRole(t *testing.T) {
	assert.False(t, useradmin.HasPermission(nil, useradmin.CapabilityViewUsers))

	noRole := &useradmin.User{ID: uuid.New()}
	assert.False(t, useradmin.HasPermission(noRole, useradmin.CapabilityViewUsers))
}

func TestHasPermissionSelfScoped(t *testing.T) {
	user := makeUser(useradmin.CapabilityEditOwnUsers)

	t.Run("actor equals target", func(t *testing.T) {
		ok := useradmin.HasPermission(user, useradmin.CapabilityEditOwnUsers,
			useradmin.OnTarget(user.ID), useradmin.ByActor(user.ID))
		assert.True(t, ok)
	})

	t.Run("actor differs from target", func(t *testing.T) {
		ok := useradmin.HasPermission(user, useradmin.CapabilityEditOwnUsers,
			useradmin.OnTarget(uuid.New()), useradmin.ByActor(user.ID))
		assert.False(t, ok)
	})

	t.Run("only target given denies", func(t *testing.T) {
		ok := useradmin.HasPermission(user, useradmin.CapabilityEditOwnUsers,
			useradmin.OnTarget(user.ID))
		assert.False(t, ok)
	})

	t.Run("only actor given denies", func(t *testing.T) {
		ok := useradmin.HasPermission(user, useradmin.CapabilityEditOwnUsers,
			useradmin.ByActor(user.ID))
		assert.False(t, ok)
	})

	t.Run("ids equal but capability missing", func(t *testing.T) {
		ok := useradmin.HasPermission(user, useradmin.CapabilityDeleteOwnUsers,
			useradmin.OnTarget(user.ID), useradmin.ByActor(user.ID))
		assert.False(t, ok)
	})
}

func TestCanActOnUser(t *testing.T) {
	admin := makeUser(useradmin.CapabilityEditUsers)
	member := makeUser(useradmin.CapabilityEditOwnUsers)
	stranger := uuid.New()

	t.Run("any-target capability acts on anyone", func(t *testing.T) {
		assert.True(t, useradmin.CanActOnUser(admin,
			useradmin.CapabilityEditUsers, useradmin.CapabilityEditOwnUsers, stranger))
	})

	t.Run("own capability acts on self only", func(t *testing.T) {
		assert.True(t, useradmin.CanActOnUser(member,
			useradmin.CapabilityEditUsers, useradmin.CapabilityEditOwnUsers, member.ID))
		assert.False(t, useradmin.CanActOnUser(member,
			useradmin.CapabilityEditUsers, useradmin.CapabilityEditOwnUsers, stranger))
	})

	t.Run("nil actor denies", func(t *testing.T) {
		assert.False(t, useradmin.CanActOnUser(nil,
			useradmin.CapabilityEditUsers, useradmin.CapabilityEditOwnUsers, stranger))
	})
}

func TestKnownCapabilities(t *testing.T) {
	caps := useradmin.KnownCapabilities()
	assert.Len(t, caps, 10)

	for _, c := range caps {
		assert.True(t, useradmin.IsKnownCapability(c))
	}

	assert.False(t, useradmin.IsKnownCapability("view:invoices"))
}
