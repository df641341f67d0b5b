package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
)

type clubApi struct {
	svc       *club.Service
	memberSvc *membership.Service
	userSvc   *user.Service
}

func registerClubAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	guard *guard,
	svc *club.Service,
	memberSvc *membership.Service,
	userSvc *user.Service,
) {
	api := clubApi{svc: svc, memberSvc: memberSvc, userSvc: userSvc}

	cg := g.Group("/clubs")

	// un-authed endpoints
	cg.GET("", api.list)
	cg.GET("/:id", api.retrieve)

	// authed endpoints
	ag := cg.Group("", jwt, loadUserMiddleware(userSvc))
	ag.POST("", api.create,
		guard.Require(RoleCheck{Roles: []user.Role{user.RoleAdmin, user.RoleClubLeader, user.RoleMember}}))
	ag.PUT("/:id", api.update,
		guard.Require(LeadershipCheck{ClubIDParam: "id", IncludeVice: true}))
	ag.PUT("/:id/status", api.updateStatus,
		guard.Require(RoleCheck{Roles: []user.Role{user.RoleAdmin}}))
	ag.DELETE("/:id", api.destroy,
		guard.Require(OwnershipCheck{Resource: "clubs", IDParam: "id"}))

	// membership endpoints
	ag.POST("/:id/join", api.join)
	ag.DELETE("/:id/leave", api.leave)
	ag.GET("/:id/members", api.queryMembers,
		guard.Require(MembershipCheck{ClubIDParam: "id"}))
	ag.PUT("/:id/members/:userID", api.updateMemberStatus,
		guard.Require(LeadershipCheck{ClubIDParam: "id", IncludeVice: true}))

	// the caller's own memberships across clubs
	g.GET("/users/me/memberships", api.myMemberships, jwt, loadUserMiddleware(userSvc))
}

// Handlers

func (api *clubApi) list(ctx echo.Context) error {
	filter := new(club.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	pagination := new(Pagination)
	pagination.Bind(ctx)

	clubs, pages, err := api.svc.List(ctx.Request().Context(), filter, pagination.Page, pagination.Limit)
	if err != nil {
		return errors.Wrap(err, "listing clubs")
	}
	if clubs == nil {
		clubs = []club.Club{}
	}
	return respondList(ctx, clubs, pages)
}

func (api *clubApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, c)
}

func (api *clubApi) create(ctx echo.Context) error {
	var data club.NewClub
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClub")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "creating club")
	}

	// the founder holds an approved membership from day one
	if _, err = api.memberSvc.AutoApprove(ctx.Request().Context(), c.ID, ctxUsr.ID); err != nil {
		return errors.Wrap(err, "creating founder membership")
	}
	return respondData(ctx, http.StatusCreated, c)
}

func (api *clubApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data club.UpdateClub
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClub")
	}
	if err = data.Validate(orig, api.svc); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating club")
	}
	return respondData(ctx, http.StatusOK, c)
}

func (api *clubApi) updateStatus(ctx echo.Context) error {
	var data club.UpdateClubStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClubStatus")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, c)
}

func (api *clubApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *clubApi) join(ctx echo.Context) error {
	// only live clubs accept members
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if c.Status != club.StatusActive {
		return core.NewValidationError(errors.New("club is not accepting members"))
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	m, err := api.memberSvc.Join(ctx.Request().Context(), c.ID, ctxUsr.ID, c.MaxMembers)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, m)
}

func (api *clubApi) leave(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.memberSvc.Leave(ctx.Request().Context(), ctx.Param("id"), ctxUsr.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *clubApi) queryMembers(ctx echo.Context) error {
	statuses := parseMemberStatuses(ctx.QueryParam("status"))
	ordering := new(Ordering)
	ordering.Bind(ctx)

	members, err := api.memberSvc.QueryClubMembers(ctx.Request().Context(), ctx.Param("id"), statuses, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying club members")
	}
	if members == nil {
		members = []membership.Member{}
	}
	return respondData(ctx, http.StatusOK, members)
}

func (api *clubApi) myMemberships(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	memberships, err := api.memberSvc.QueryUserMemberships(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying user memberships")
	}
	if memberships == nil {
		memberships = []membership.Membership{}
	}
	return respondData(ctx, http.StatusOK, memberships)
}

func (api *clubApi) updateMemberStatus(ctx echo.Context) error {
	var data membership.UpdateMemberStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMemberStatus")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	m, err := api.memberSvc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), ctx.Param("userID"), data.Status)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, m)
}

// parseMemberStatuses parses a comma-separated status filter, dropping
// unknown values.
func parseMemberStatuses(raw string) []membership.Status {
	if raw == "" {
		return nil
	}
	var statuses []membership.Status
	for _, s := range strings.Split(raw, ",") {
		status := membership.Status(strings.TrimSpace(s))
		if status.Valid() {
			statuses = append(statuses, status)
		}
	}
	return statuses
}
