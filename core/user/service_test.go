package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/user"
	emailsvc "github.com/campushq/clubhub/services/email"
	inmemdb "github.com/campushq/clubhub/storage/database/inmem"
	testutil "github.com/campushq/clubhub/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	testutil.SetupConfig(t)
	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewUserRepository(db)
	return user.NewService(repo, emailsvc.NewConsoleServiceMock()), repo
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("role is forced to member", func(t *testing.T) {
		svc, _ := setup(t)

		usr, err := svc.Register(ctx, user.NewUser{
			Name:            "Jamie Doe",
			Email:           "jamie@test.test",
			Password:        "G0od#Pass123",
			PasswordConfirm: "G0od#Pass123",
		})
		require.NoError(t, err)
		assert.Equal(t, user.RoleMember, usr.Role)
		assert.True(t, usr.Active())
		assert.NoError(t, usr.CheckPassword("G0od#Pass123"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := setup(t)

		nu := user.NewUser{
			Name:            "Jamie Doe",
			Email:           "jamie@test.test",
			Password:        "G0od#Pass123",
			PasswordConfirm: "G0od#Pass123",
		}
		_, err := svc.Register(ctx, nu)
		require.NoError(t, err)

		nu.Name = "Other Jamie"
		_, err = svc.Register(ctx, nu)
		assert.Error(t, err)
	})
}

func TestService_CreateWithRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	usr, err := svc.CreateWithRole(ctx, user.NewUser{
		Name:            "Admin Person",
		Email:           "admin@test.test",
		Password:        "G0od#Pass123",
		PasswordConfirm: "G0od#Pass123",
	}, user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, usr.Role)
	assert.True(t, usr.IsAdmin())
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	usr := testutil.CreateUser(t, repo, "Jamie Doe", "jamie@test.test", "G0od#Pass123", user.RoleMember, true)

	t.Run("unknown email surfaces ErrNotFound", func(t *testing.T) {
		err := svc.RequestPasswordReset(ctx, "nobody@test.test")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, svc.RequestPasswordReset(ctx, usr.Email))

		token, err := user.MakeToken(usr)
		require.NoError(t, err)

		err = svc.ResetPassword(ctx, user.ResetUserPassword{
			Token:           token,
			UID:             user.EncodeUID(usr),
			Password:        "N3w&Pass4567",
			PasswordConfirm: "N3w&Pass4567",
		})
		require.NoError(t, err)

		got, err := svc.GetByEmail(ctx, usr.Email)
		require.NoError(t, err)
		assert.NoError(t, got.CheckPassword("N3w&Pass4567"))
		assert.Error(t, got.CheckPassword("G0od#Pass123"))
	})

	t.Run("used token is rejected", func(t *testing.T) {
		// the hash changed on reset; a token minted before is dead
		token, err := user.MakeToken(usr)
		require.NoError(t, err)

		err = svc.ResetPassword(ctx, user.ResetUserPassword{
			Token:           token,
			UID:             user.EncodeUID(usr),
			Password:        "An0ther!Pass8",
			PasswordConfirm: "An0ther!Pass8",
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}
