package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/club"
)

type clubRepository struct {
	db *clubTable
}

var _ club.Repository = (*clubRepository)(nil)

func NewClubRepository(db *DB) *clubRepository {
	return &clubRepository{db: db.club}
}

func (repo *clubRepository) query() []club.Club {
	clubs := make([]club.Club, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		clubs = append(clubs, *c)
	}
	return clubs
}

func (repo *clubRepository) CheckNameUniqueness(_ context.Context, name string, excludedClubs ...club.Club) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.query() {
		if c.Name != name {
			continue
		}
		excluded := false
		for _, e := range excludedClubs {
			if c.ID == e.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return club.ErrNameExists
		}
	}
	return nil
}

func (repo *clubRepository) CreateClub(_ context.Context, c club.Club) (club.Club, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.Name == c.Name {
			return club.Club{}, club.ErrNameExists
		}
	}

	c.ID = uuid.New().String()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *clubRepository) GetClubByID(_ context.Context, id string) (club.Club, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return club.Club{}, club.ErrNotFound
}

func (repo *clubRepository) ListClubs(_ context.Context, filter *club.QueryFilter, page, limit int) ([]club.Club, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]club.Club, 0)
	for _, c := range repo.query() {
		if filter != nil && !matchesClubFilter(c, filter) {
			continue
		}
		matches = append(matches, c)
	}
	// newest first, like the SQL listing
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	total := len(matches)
	offset := core.Offset(page, limit)
	if offset >= total {
		return []club.Club{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func matchesClubFilter(c club.Club, qf *club.QueryFilter) bool {
	if qf.Category != "" && c.Category != qf.Category {
		return false
	}
	if qf.Status != "" && c.Status != qf.Status {
		return false
	}
	if qf.MeetingFrequency != "" && c.MeetingFrequency != qf.MeetingFrequency {
		return false
	}
	if qf.MaxMembers > 0 && c.MaxMembers > qf.MaxMembers {
		return false
	}
	if qf.Search != "" {
		s := strings.ToLower(qf.Search)
		if !strings.Contains(strings.ToLower(c.Name), s) && !strings.Contains(strings.ToLower(c.Description), s) {
			return false
		}
	}
	if len(qf.Tags) > 0 {
		overlap := false
		for _, want := range qf.Tags {
			for _, have := range c.Tags {
				if want == have {
					overlap = true
					break
				}
			}
		}
		if !overlap {
			return false
		}
	}
	return true
}

func (repo *clubRepository) UpdateClub(_ context.Context, c club.Club) (club.Club, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return club.Club{}, club.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *clubRepository) DeleteClub(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return club.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
