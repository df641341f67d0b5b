package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
	testutil "github.com/campushq/clubhub/tests"
)

func Test_clubApi_list(t *testing.T) {
	app := setup(t)
	leader := testutil.CreateUser(t, app.usrRepo, "Lea Der", "lea@test.test", "G0od#Pass123", user.RoleClubLeader, true)

	now := time.Now().UTC()
	for i, seed := range []struct {
		name     string
		category club.Category
	}{
		{"Robotics", club.CategoryTechnology},
		{"Chess Masters", club.CategoryAcademic},
		{"Film Society", club.CategoryArts},
	} {
		testutil.CreateClub(t, app.clubRepo, seed.name, seed.category, club.StatusActive, leader.ID,
			now.Add(time.Duration(i)*time.Minute))
	}

	t.Run("public, paginated", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/clubs?limit=2", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, env.Success)

		var clubs []club.Club
		decodeData(t, env, &clubs)
		require.Len(t, clubs, 2)
		// newest first
		assert.Equal(t, "Film Society", clubs[0].Name)
		assert.Equal(t, "Chess Masters", clubs[1].Name)

		require.NotNil(t, env.Pagination)
		assert.Equal(t, 3, env.Pagination.Total)
		assert.Equal(t, 2, env.Pagination.TotalPages)
		assert.True(t, env.Pagination.HasNext)
		assert.False(t, env.Pagination.HasPrev)
	})

	t.Run("category filter", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/clubs?category=technology", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var clubs []club.Club
		decodeData(t, env, &clubs)
		require.Len(t, clubs, 1)
		assert.Equal(t, "Robotics", clubs[0].Name)
	})

	t.Run("search filter", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/clubs?search=chess", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var clubs []club.Club
		decodeData(t, env, &clubs)
		require.Len(t, clubs, 1)
		assert.Equal(t, "Chess Masters", clubs[0].Name)
	})

	t.Run("malformed filter value is a 400", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/clubs?max_members=lots", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("unknown club is 404", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/clubs/6f1c7af2-52a0-4b02-9c1b-36a1a86c4a30", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
	})
}

func Test_clubApi_create(t *testing.T) {
	app := setup(t)
	member := testutil.CreateUser(t, app.usrRepo, "Jamie Doe", "jamie@test.test", "G0od#Pass123", user.RoleMember, true)
	guest := testutil.CreateUser(t, app.usrRepo, "Gus Guest", "gus@test.test", "G0od#Pass123", user.RoleGuest, true)

	body := map[string]interface{}{
		"name":        "Robotics",
		"description": "We build robots.",
		"category":    "technology",
		"tags":        []string{"robots", "engineering"},
	}

	t.Run("auth required", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPost, "/v1/clubs", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("guests cannot create", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPost, "/v1/clubs", getToken(t, guest), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("creator becomes leader with approved membership", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/v1/clubs", getToken(t, member), body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var c club.Club
		decodeData(t, env, &c)
		assert.Equal(t, member.ID, c.LeaderID)
		assert.Equal(t, club.StatusPending, c.Status)

		m, err := app.memberRepo.GetMembership(t.Context(), c.ID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, membership.StatusApproved, m.Status)
	})

	t.Run("duplicate name is a field error", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/v1/clubs", getToken(t, member), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, env.Errors)
	})
}

func Test_clubApi_update(t *testing.T) {
	app := setup(t)
	leader := testutil.CreateUser(t, app.usrRepo, "Lea Der", "lea@test.test", "G0od#Pass123", user.RoleClubLeader, true)
	vice := testutil.CreateUser(t, app.usrRepo, "Vic E", "vic@test.test", "G0od#Pass123", user.RoleClubViceLeader, true)
	member := testutil.CreateUser(t, app.usrRepo, "Jamie Doe", "jamie@test.test", "G0od#Pass123", user.RoleMember, true)
	admin := testutil.CreateUser(t, app.usrRepo, "Admin", "admin@test.test", "G0od#Pass123", user.RoleAdmin, true)

	c := testutil.CreateClub(t, app.clubRepo, "Robotics", club.CategoryTechnology, club.StatusActive, leader.ID)
	c.ViceLeaderID = strPtr(vice.ID)
	_, err := app.clubRepo.UpdateClub(t.Context(), c)
	require.NoError(t, err)

	body := map[string]interface{}{"description": "New description."}

	t.Run("members cannot update", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID, getToken(t, member), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("leader updates", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID, getToken(t, leader), body)
		require.Equal(t, http.StatusOK, rec.Code)

		var got club.Club
		decodeData(t, env, &got)
		assert.Equal(t, "New description.", got.Description)
	})

	t.Run("vice leader updates", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID, getToken(t, vice),
			map[string]interface{}{"description": "Vice was here."})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin bypasses leadership", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID, getToken(t, admin),
			map[string]interface{}{"description": "Admin was here."})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("status is not mutable here", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID, getToken(t, leader),
			map[string]interface{}{"status": "archived"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got club.Club
		decodeData(t, env, &got)
		assert.Equal(t, club.StatusActive, got.Status)
	})
}

func Test_clubApi_updateStatus(t *testing.T) {
	app := setup(t)
	leader := testutil.CreateUser(t, app.usrRepo, "Lea Der", "lea@test.test", "G0od#Pass123", user.RoleClubLeader, true)
	admin := testutil.CreateUser(t, app.usrRepo, "Admin", "admin@test.test", "G0od#Pass123", user.RoleAdmin, true)
	c := testutil.CreateClub(t, app.clubRepo, "Robotics", club.CategoryTechnology, club.StatusPending, leader.ID)

	t.Run("admin only", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID+"/status", getToken(t, leader),
			map[string]string{"status": "active"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("legal transition", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID+"/status", getToken(t, admin),
			map[string]string{"status": "active"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got club.Club
		decodeData(t, env, &got)
		assert.Equal(t, club.StatusActive, got.Status)
	})

	t.Run("illegal transition", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID+"/status", getToken(t, admin),
			map[string]string{"status": "pending"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
	})
}

func Test_clubApi_delete(t *testing.T) {
	app := setup(t)
	leader := testutil.CreateUser(t, app.usrRepo, "Lea Der", "lea@test.test", "G0od#Pass123", user.RoleClubLeader, true)
	vice := testutil.CreateUser(t, app.usrRepo, "Vic E", "vic@test.test", "G0od#Pass123", user.RoleClubViceLeader, true)
	c := testutil.CreateClub(t, app.clubRepo, "Robotics", club.CategoryTechnology, club.StatusActive, leader.ID)
	c.ViceLeaderID = strPtr(vice.ID)
	_, err := app.clubRepo.UpdateClub(t.Context(), c)
	require.NoError(t, err)

	t.Run("vice leader cannot delete", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodDelete, "/v1/clubs/"+c.ID, getToken(t, vice), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("leader deletes", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodDelete, "/v1/clubs/"+c.ID, getToken(t, leader), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := app.clubRepo.GetClubByID(t.Context(), c.ID)
		assert.Equal(t, club.ErrNotFound, err)
	})
}

func Test_clubApi_memberships(t *testing.T) {
	app := setup(t)
	leader := testutil.CreateUser(t, app.usrRepo, "Lea Der", "lea@test.test", "G0od#Pass123", user.RoleClubLeader, true)
	member := testutil.CreateUser(t, app.usrRepo, "Jamie Doe", "jamie@test.test", "G0od#Pass123", user.RoleMember, true)
	outsider := testutil.CreateUser(t, app.usrRepo, "Out Sider", "out@test.test", "G0od#Pass123", user.RoleMember, true)

	c := testutil.CreateClub(t, app.clubRepo, "Robotics", club.CategoryTechnology, club.StatusActive, leader.ID)
	testutil.CreateMembership(t, app.memberRepo, c.ID, leader.ID, membership.StatusApproved)

	memberToken := getToken(t, member)
	leaderToken := getToken(t, leader)

	t.Run("join creates pending membership", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/v1/clubs/"+c.ID+"/join", memberToken, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var m membership.Membership
		decodeData(t, env, &m)
		assert.Equal(t, membership.StatusPending, m.Status)
	})

	t.Run("duplicate join is rejected", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/v1/clubs/"+c.ID+"/join", memberToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Errors, "club_id")
	})

	t.Run("members listing requires membership", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodGet, "/v1/clubs/"+c.ID+"/members", getToken(t, outsider), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("leadership approves a request", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID+"/members/"+member.ID, leaderToken,
			map[string]string{"status": "approved"})
		require.Equal(t, http.StatusOK, rec.Code)

		var m membership.Membership
		decodeData(t, env, &m)
		assert.Equal(t, membership.StatusApproved, m.Status)
		assert.NotNil(t, m.JoinedAt)
	})

	t.Run("member cannot moderate members", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodPut, "/v1/clubs/"+c.ID+"/members/"+leader.ID, memberToken,
			map[string]string{"status": "suspended"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("approved member lists members", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/clubs/"+c.ID+"/members", memberToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var members []membership.Member
		decodeData(t, env, &members)
		require.Len(t, members, 2)
		for _, m := range members {
			assert.NotEmpty(t, m.UserName)
			assert.NotEmpty(t, m.UserEmail)
		}
	})

	t.Run("member leaves", func(t *testing.T) {
		rec, _ := app.do(t, http.MethodDelete, "/v1/clubs/"+c.ID+"/leave", memberToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		m, err := app.memberRepo.GetMembership(t.Context(), c.ID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, membership.StatusLeft, m.Status)
	})

	t.Run("rejoining after leaving", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/v1/clubs/"+c.ID+"/join", memberToken, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var m membership.Membership
		decodeData(t, env, &m)
		assert.Equal(t, membership.StatusPending, m.Status)
	})

	t.Run("joining a full club is rejected", func(t *testing.T) {
		full := testutil.CreateClub(t, app.clubRepo, "Tiny Club", club.CategorySocial, club.StatusActive, leader.ID)
		full.MaxMembers = 1
		_, err := app.clubRepo.UpdateClub(t.Context(), full)
		require.NoError(t, err)
		testutil.CreateMembership(t, app.memberRepo, full.ID, leader.ID, membership.StatusApproved)

		rec, env := app.do(t, http.MethodPost, "/v1/clubs/"+full.ID+"/join", memberToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Errors, "club_id")
	})

	t.Run("joining a pending club is rejected", func(t *testing.T) {
		pending := testutil.CreateClub(t, app.clubRepo, "Ghost Club", club.CategoryOther, club.StatusPending, leader.ID)
		rec, _ := app.do(t, http.MethodPost, "/v1/clubs/"+pending.ID+"/join", memberToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("own memberships listing", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/v1/users/me/memberships", memberToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var mine []membership.Membership
		decodeData(t, env, &mine)
		require.Len(t, mine, 1)
		assert.Equal(t, c.ID, mine[0].ClubID)
		assert.Equal(t, membership.StatusPending, mine[0].Status)
	})
}
