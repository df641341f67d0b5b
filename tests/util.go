package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
)

// SetupConfig installs a fixture configuration for the duration of a test.
func SetupConfig(t *testing.T) {
	t.Helper()
	prev := core.Conf
	core.Conf = &core.Config{
		Env:             "TEST",
		Debug:           true,
		TestMode:        true,
		AppName:         "ClubHub",
		SecretKey:       []byte("secret"),
		FrontendBaseURL: "http://localhost:3000",

		DefaultFromEmail: "noreply@test.test",

		JWTExpirationDelta:        7 * 24 * time.Hour,
		JWTRefreshExpirationDelta: 30 * 24 * time.Hour,
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
	t.Cleanup(func() { core.Conf = prev })
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClub(
	t *testing.T,
	repo club.Repository,
	name string,
	category club.Category,
	status club.Status,
	leaderID string,
	createdAt ...time.Time,
) club.Club {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	c := club.Club{
		Name:        name,
		Description: name + " description",
		Category:    category,
		Status:      status,
		LeaderID:    leaderID,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	c, err := repo.CreateClub(context.Background(), c)
	if err != nil {
		t.Fatalf("CreateClub() failed: %v", err)
	}
	return c
}

func CreateMembership(
	t *testing.T,
	repo membership.Repository,
	clubID, userID string,
	status membership.Status,
) membership.Membership {
	t.Helper()
	now := time.Now().UTC()
	m := membership.Membership{
		UserID:    userID,
		ClubID:    clubID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == membership.StatusApproved {
		m.JoinedAt = &now
	}
	m, err := repo.CreateMembership(context.Background(), m)
	if err != nil {
		t.Fatalf("CreateMembership() failed: %v", err)
	}
	return m
}
