package useradmin

import "github.com/google/uuid"

// Capability is a named permission string granting one action
type Capability = string

const (
	CapabilityCreateUsers    Capability = "create:users"
	CapabilityViewUsers      Capability = "view:users"
	CapabilityViewOwnUsers   Capability = "viewOwn:users"
	CapabilityViewDetails    Capability = "viewDetails:users"
	CapabilityViewOwnDetails Capability = "viewOwnDetails:users"
	CapabilityEditUsers      Capability = "edit:users"
	CapabilityEditOwnUsers   Capability = "editOwn:users"
	CapabilityDeleteUsers    Capability = "delete:users"
	CapabilityDeleteOwnUsers Capability = "deleteOwn:users"
	CapabilityViewRoles      Capability = "view:roles"
)

// KnownCapabilities returns the canonical capability registry. Permission
// sets remain open string sets; the registry exists so tests can catch typos
// in capability names.
func KnownCapabilities() []Capability {
	return []Capability{
		CapabilityCreateUsers,
		CapabilityViewUsers,
		CapabilityViewOwnUsers,
		CapabilityViewDetails,
		CapabilityViewOwnDetails,
		CapabilityEditUsers,
		CapabilityEditOwnUsers,
		CapabilityDeleteUsers,
		CapabilityDeleteOwnUsers,
		CapabilityViewRoles,
	}
}

// IsKnownCapability checks a name against the canonical registry
func IsKnownCapability(name string) bool {
	for _, c := range KnownCapabilities() {
		if c == name {
			return true
		}
	}
	return false
}

// PermissionCheck carries the optional identity pair for self-scoped checks
type PermissionCheck struct {
	TargetID *uuid.UUID
	ActorID  *uuid.UUID
}

// PermissionOption mutates a PermissionCheck
type PermissionOption func(*PermissionCheck)

// OnTarget scopes the check to the identity being acted on
func OnTarget(id uuid.UUID) PermissionOption {
	return func(c *PermissionCheck) {
		c.TargetID = &id
	}
}

// ByActor scopes the check to the identity performing the action
func ByActor(id uuid.UUID) PermissionOption {
	return func(c *PermissionCheck) {
		c.ActorID = &id
	}
}

// HasPermission decides whether the user's role grants the named capability.
//
// With no options the check is plain membership in the role's permission
// set. When both OnTarget and ByActor are supplied the capability is
// self-scoped: it is granted only if the two ids are equal AND the
// capability is present. Supplying exactly one of the pair always denies;
// a half-specified self check is a caller bug, and we fail closed. A user
// without a resolved role denies everything.
func HasPermission(user *User, capability string, opts ...PermissionOption) bool {
	if user == nil || user.Role == nil {
		return false
	}

	check := &PermissionCheck{}
	for _, opt := range opts {
		if opt != nil {
			opt(check)
		}
	}

	if check.TargetID != nil || check.ActorID != nil {
		if check.TargetID == nil || check.ActorID == nil {
			return false
		}
		if *check.TargetID != *check.ActorID {
			return false
		}
	}

	return user.Role.HasPermission(capability)
}

// CanActOnUser ORs the any-target capability with its self-scoped variant,
// which is how every user endpoint combines the two checks.
func CanActOnUser(actor *User, capability, ownCapability string, targetID uuid.UUID) bool {
	if HasPermission(actor, capability) {
		return true
	}
	if actor == nil {
		return false
	}
	return HasPermission(actor, ownCapability, OnTarget(targetID), ByActor(actor.ID))
}
