package authz

import (
	"context"

	"github.com/inkwell-blog/backend/internal/platform/ownership"
)

// rule is a single permission predicate. Rules are deterministic and free of
// side effects; a denial is a false value, never an error. The only I/O a
// rule may perform is an owner lookup through the ownership registry.
type rule func(ctx context.Context, e *Engine, actor Actor, ref Ref) (bool, error)

type ruleKey struct {
	resource Resource
	action   Action
}

// Engine evaluates permission checks against the static policy table.
type Engine struct {
	owners ownership.Registry
	rules  map[ruleKey]rule
}

// NewEngine creates the authorization engine with the full policy table.
func NewEngine(owners ownership.Registry) *Engine {
	e := &Engine{owners: owners}
	e.rules = map[ruleKey]rule{
		// Posts: any authenticated user may create and view; only the
		// owner or an admin may modify.
		{ResourcePosts, ActionCreate}:  anyone,
		{ResourcePosts, ActionViewAny}: anyone,
		{ResourcePosts, ActionView}:    anyone,
		{ResourcePosts, ActionUpdate}:  ownerOrAdmin,
		{ResourcePosts, ActionDelete}:  ownerOrAdmin,

		// Categories and tags: world-readable, admin-managed.
		{ResourceCategories, ActionCreate}:  adminOnly,
		{ResourceCategories, ActionViewAny}: anyone,
		{ResourceCategories, ActionView}:    anyone,
		{ResourceCategories, ActionUpdate}:  adminOnly,
		{ResourceCategories, ActionDelete}:  adminOnly,

		{ResourceTags, ActionCreate}:  adminOnly,
		{ResourceTags, ActionViewAny}: anyone,
		{ResourceTags, ActionView}:    anyone,
		{ResourceTags, ActionUpdate}:  adminOnly,
		{ResourceTags, ActionDelete}:  adminOnly,

		// Comments: creation happens only through the post-scoped
		// endpoint, which never consults this rule, so the generic
		// create check always denies.
		{ResourceComments, ActionCreate}:  deny,
		{ResourceComments, ActionViewAny}: anyone,
		{ResourceComments, ActionView}:    anyone,
		{ResourceComments, ActionUpdate}:  ownerOrAdmin,
		{ResourceComments, ActionDelete}:  commentDelete,

		// Users: admin-managed; a user may view and update their own
		// record. Self-deletion and self-role-change are forbidden even
		// for admins.
		{ResourceUsers, ActionCreate}:     adminOnly,
		{ResourceUsers, ActionViewAny}:    adminOnly,
		{ResourceUsers, ActionView}:       selfOrAdmin,
		{ResourceUsers, ActionUpdate}:     selfOrAdmin,
		{ResourceUsers, ActionDelete}:     adminAndNotSelf,
		{ResourceUsers, ActionUpdateRole}: adminAndNotSelf,
	}
	return e
}

// Can reports whether the actor may perform action on the referenced
// entity or entity class. Unknown (resource, action) pairs deny.
func (e *Engine) Can(ctx context.Context, actor Actor, action Action, ref Ref) (bool, error) {
	r, ok := e.rules[ruleKey{ref.Resource, action}]
	if !ok {
		return false, nil
	}
	return r(ctx, e, actor, ref)
}

// Predicates

func anyone(context.Context, *Engine, Actor, Ref) (bool, error) {
	return true, nil
}

func deny(context.Context, *Engine, Actor, Ref) (bool, error) {
	return false, nil
}

func adminOnly(_ context.Context, _ *Engine, actor Actor, _ Ref) (bool, error) {
	return actor.Admin, nil
}

func ownerOrAdmin(_ context.Context, _ *Engine, actor Actor, ref Ref) (bool, error) {
	return actor.Admin || actor.ID == ref.OwnerID, nil
}

// selfOrAdmin compares the actor against the target entity's own id, not an
// owner field: a user "owns" their own user record.
func selfOrAdmin(_ context.Context, _ *Engine, actor Actor, ref Ref) (bool, error) {
	return actor.Admin || actor.ID == ref.ID, nil
}

func adminAndNotSelf(_ context.Context, _ *Engine, actor Actor, ref Ref) (bool, error) {
	return actor.Admin && actor.ID != ref.ID, nil
}

// commentDelete allows the comment's author, the owner of the commented
// entity, or an admin. The commented entity's owner is resolved through the
// ownership registry keyed by the commentable discriminant.
func commentDelete(ctx context.Context, e *Engine, actor Actor, ref Ref) (bool, error) {
	if actor.Admin || actor.ID == ref.OwnerID {
		return true, nil
	}
	if ref.TargetType == "" {
		return false, nil
	}
	return e.owners.CheckOwnership(ctx, actor.ID, ref.TargetType, ref.TargetID)
}
