package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/membership"
)

type membershipRepository struct {
	db    *membershipTable
	users *userTable // for the member listing's joined user fields
}

var _ membership.Repository = (*membershipRepository)(nil)

func NewMembershipRepository(db *DB) *membershipRepository {
	return &membershipRepository{db: db.membership, users: db.user}
}

func (repo *membershipRepository) query() []membership.Membership {
	ms := make([]membership.Membership, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		ms = append(ms, *m)
	}
	return ms
}

func (repo *membershipRepository) CreateMembership(_ context.Context, m membership.Membership) (membership.Membership, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.UserID == m.UserID && existing.ClubID == m.ClubID {
			return membership.Membership{}, membership.ErrAlreadyMember
		}
	}

	m.ID = uuid.New().String()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *membershipRepository) GetMembership(_ context.Context, clubID, userID string) (membership.Membership, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, m := range repo.db.table {
		if m.ClubID == clubID && m.UserID == userID {
			return *m, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (repo *membershipRepository) QueryClubMembers(
	_ context.Context, clubID string, statuses []membership.Status, ordering []core.DBOrdering,
) ([]membership.Member, error) {
	repo.db.RLock()
	members := make([]membership.Member, 0)
	for _, m := range repo.query() {
		if m.ClubID != clubID {
			continue
		}
		if len(statuses) > 0 && !statusIn(m.Status, statuses) {
			continue
		}
		members = append(members, membership.Member{Membership: m})
	}
	repo.db.RUnlock()

	repo.users.RLock()
	for i, m := range members {
		if usr, ok := repo.users.table[m.UserID]; ok {
			members[i].UserName = usr.Name
			members[i].UserEmail = usr.Email
			members[i].UserAvatar = usr.Avatar
		}
	}
	repo.users.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		for _, o := range ordering {
			var less, diff bool
			switch o.Field {
			case "status":
				less, diff = members[i].Status < members[j].Status, members[i].Status != members[j].Status
			case "joined_at":
				li, lj := members[i].JoinedAt, members[j].JoinedAt
				switch {
				case li == nil && lj == nil:
				case li == nil:
					less, diff = true, true
				case lj == nil:
					less, diff = false, true
				default:
					less, diff = li.Before(*lj), !li.Equal(*lj)
				}
			default:
				less = members[i].CreatedAt.Before(members[j].CreatedAt)
				diff = !members[i].CreatedAt.Equal(members[j].CreatedAt)
			}
			if diff {
				if o.Ascending {
					return less
				}
				return !less
			}
		}
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

func statusIn(s membership.Status, statuses []membership.Status) bool {
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

func (repo *membershipRepository) QueryUserMemberships(_ context.Context, userID string) ([]membership.Membership, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ms := make([]membership.Membership, 0)
	for _, m := range repo.query() {
		if m.UserID == userID {
			ms = append(ms, m)
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].CreatedAt.Before(ms[j].CreatedAt) })
	return ms, nil
}

func (repo *membershipRepository) UpdateMembership(_ context.Context, m membership.Membership) (membership.Membership, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[m.ID]; !ok {
		return membership.Membership{}, membership.ErrNotFound
	}
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *membershipRepository) DeleteMembership(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return membership.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *membershipRepository) CountMembers(_ context.Context, clubID string, status membership.Status) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	count := 0
	for _, m := range repo.db.table {
		if m.ClubID == clubID && m.Status == status {
			count++
		}
	}
	return count, nil
}

func (repo *membershipRepository) IsApprovedMember(_ context.Context, clubID, userID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, m := range repo.db.table {
		if m.ClubID == clubID && m.UserID == userID && m.Status == membership.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}
