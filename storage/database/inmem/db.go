package inmemdb

import (
	"sync"

	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
)

// DB is a map-backed database used by tests; it mimics the MySQL layer's
// behavior, including uniqueness violations.
type (
	DB struct {
		user       *userTable
		club       *clubTable
		membership *membershipTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	clubTable struct {
		sync.RWMutex
		table map[string]*club.Club
	}

	membershipTable struct {
		sync.RWMutex
		table map[string]*membership.Membership
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		club:       &clubTable{table: make(map[string]*club.Club)},
		membership: &membershipTable{table: make(map[string]*membership.Membership)},
	}
	return db, nil
}
