package echoapi

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
)

// AccessCheck is a declarative gate on a route. Checks are evaluated
// left-to-right by Require; the first failure short-circuits the request.
type AccessCheck interface {
	check(ctx echo.Context, g *guard, usr user.User) error
}

type guard struct {
	userSvc   *user.Service
	clubSvc   *club.Service
	memberSvc *membership.Service
}

// Require gates a route behind the given access checks. The caller must
// already be authenticated (jwt + loadUserMiddleware run before it).
func (g *guard) Require(checks ...AccessCheck) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, g.userSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			for _, check := range checks {
				if err = check.check(ctx, g, usr); err != nil {
					return err
				}
			}
			return next(ctx)
		}
	}
}

// RoleCheck passes when the caller's role is in Roles. There is no admin
// bypass: the role set itself says who is allowed.
type RoleCheck struct {
	Roles []user.Role
}

func (rc RoleCheck) check(_ echo.Context, _ *guard, usr user.User) error {
	for _, role := range rc.Roles {
		if usr.Role == role {
			return nil
		}
	}
	return errHTTPForbidden
}

// ownerResolvers is the closed set of resources an OwnershipCheck may name.
// Each resolver answers "does userID own the row with this id" with a single
// repository lookup.
func (g *guard) ownerResolvers() map[string]func(ctx context.Context, id, userID string) (bool, error) {
	return map[string]func(ctx context.Context, id, userID string) (bool, error){
		"clubs": func(ctx context.Context, id, userID string) (bool, error) {
			c, err := g.clubSvc.GetByID(ctx, id)
			if err != nil {
				return false, err
			}
			return c.IsLeader(userID), nil
		},
		"users": func(_ context.Context, id, userID string) (bool, error) {
			return id == userID, nil
		},
	}
}

// OwnershipCheck passes when the caller owns the resource row named by the
// IDParam path parameter, or is an admin.
type OwnershipCheck struct {
	Resource string
	IDParam  string
}

func (oc OwnershipCheck) check(ctx echo.Context, g *guard, usr user.User) error {
	if usr.IsAdmin() {
		return nil
	}
	id := ctx.Param(oc.IDParam)
	if id == "" {
		return errMissingResourceID
	}
	resolve, ok := g.ownerResolvers()[oc.Resource]
	if !ok {
		return errors.Errorf("no ownership resolver for resource %q", oc.Resource)
	}
	owns, err := resolve(ctx.Request().Context(), id, usr.ID)
	if err != nil {
		if errors.Cause(err) == club.ErrNotFound || errors.Cause(err) == user.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "resolving ownership")
	}
	if !owns {
		return errHTTPForbidden
	}
	return nil
}

// MembershipCheck passes when the caller holds an approved membership of the
// club named by ClubIDParam, or is an admin.
type MembershipCheck struct {
	ClubIDParam string
}

func (mc MembershipCheck) check(ctx echo.Context, g *guard, usr user.User) error {
	if usr.IsAdmin() {
		return nil
	}
	clubID := ctx.Param(mc.ClubIDParam)
	if clubID == "" {
		return errMissingResourceID
	}
	ok, err := g.memberSvc.IsApprovedMember(ctx.Request().Context(), clubID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "checking membership")
	}
	if !ok {
		return errHTTPForbidden
	}
	return nil
}

// LeadershipCheck passes when the caller leads the club named by ClubIDParam
// (or vice-leads it when IncludeVice), or is an admin.
type LeadershipCheck struct {
	ClubIDParam string
	IncludeVice bool
}

func (lc LeadershipCheck) check(ctx echo.Context, g *guard, usr user.User) error {
	if usr.IsAdmin() {
		return nil
	}
	clubID := ctx.Param(lc.ClubIDParam)
	if clubID == "" {
		return errMissingResourceID
	}
	c, err := g.clubSvc.GetByID(ctx.Request().Context(), clubID)
	if err != nil {
		if errors.Cause(err) == club.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "finding club by ID")
	}
	if lc.IncludeVice {
		if !c.IsLeadership(usr.ID) {
			return errHTTPForbidden
		}
		return nil
	}
	if !c.IsLeader(usr.ID) {
		return errHTTPForbidden
	}
	return nil
}
