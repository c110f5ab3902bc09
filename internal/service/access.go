package service

import (
	"github.com/jackc/pgx/v5"

	"github.com/veldtlabs/docvault/internal/domain"
)

// AccessFilter is a boolean predicate over chunk records, rendered as a SQL
// fragment plus its named arguments. The repository splices it into every
// query; read paths never run without one.
type AccessFilter struct {
	Fragment string
	Args     pgx.NamedArgs
}

// VisibilityFilter builds the single read-path gate: a requester sees a
// chunk when they own it, when it is globally shared, or when they appear
// on its allow-list.
func VisibilityFilter(userID string) AccessFilter {
	return AccessFilter{
		Fragment: "(owner_user_id = @requester OR is_shared OR @requester = ANY(allowed_users))",
		Args:     pgx.NamedArgs{"requester": userID},
	}
}

// OwnerFilter builds the stricter mutation gate: ownership only.
func OwnerFilter(userID string) AccessFilter {
	return AccessFilter{
		Fragment: "(owner_user_id = @req_owner)",
		Args:     pgx.NamedArgs{"req_owner": userID},
	}
}

// CanRead evaluates the visibility predicate in memory. It mirrors
// VisibilityFilter exactly and exists for defense-in-depth checks and
// property tests against the SQL rendering.
func CanRead(c *domain.Chunk, userID string) bool {
	if c == nil || userID == "" {
		return false
	}
	if c.OwnerUserID == userID {
		return true
	}
	if c.IsShared {
		return true
	}
	for _, u := range c.AllowedUsers {
		if u == userID {
			return true
		}
	}
	return false
}

// CanMutate evaluates the mutation gate: owner only, unless the caller
// carries an administrator override.
func CanMutate(c *domain.Chunk, userID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return c != nil && userID != "" && c.OwnerUserID == userID
}
