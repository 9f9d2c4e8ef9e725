package auth

import "github.com/adboards/adboards-api/internal/model"

// Action identifies a resource-scoped mutation subject to the ownership
// gate. The gate runs after the AuthenticatedUser policy has passed and
// strictly before the mutation itself, so a denied request never leaves
// partial state behind.
type Action int

const (
	ActionAdUpdate Action = iota
	ActionAdUpdatePhoto
	ActionAdDelete
	ActionFavoriteDelete
)

// adminOverride lists the actions where an Admin right bypasses the owner
// comparison. Only ad deletion carries the override: ad update and ad
// photo-update require the owning person even for admins, and favorite
// operations never have an override. Keeping this as a table makes the
// per-operation behavior explicit instead of burying it in handlers.
var adminOverride = map[Action]bool{
	ActionAdDelete: true,
}

// CheckOwnership decides whether the caller may mutate a resource owned by
// ownerID. For actions with an admin override the right claim must parse;
// an unparsable right yields ErrBadRightClaim (a bad request), while a
// plain owner mismatch yields ErrForbidden. Actions without an override
// never inspect the right claim at all.
func CheckOwnership(claims *Claims, action Action, ownerID uint64) error {
	if adminOverride[action] {
		r, err := claims.Right()
		if err != nil {
			return err
		}
		if r == model.RightAdmin {
			return nil
		}
	}
	if claims.PersonID != ownerID {
		return ErrForbidden
	}
	return nil
}
