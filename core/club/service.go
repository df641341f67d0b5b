package club

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
)

var (
	// errors
	ErrNotFound          = errors.New("club not found")
	ErrNameExists        = errors.New("a club with this name already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excludedClubs ...Club) error
		CreateClub(ctx context.Context, c Club) (Club, error)
		GetClubByID(ctx context.Context, id string) (Club, error)
		// ListClubs returns the requested page plus the total count of rows
		// matching the filter. Page and limit arrive pre-clamped.
		ListClubs(ctx context.Context, filter *QueryFilter, page, limit int) ([]Club, int, error)
		UpdateClub(ctx context.Context, c Club) (Club, error)
		DeleteClub(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkNameUniqueness(name string, exclClubs ...Club) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name, exclClubs...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create registers a new club owned by leaderID. New clubs always start
// pending; an admin activates them.
func (svc *Service) Create(ctx context.Context, nc NewClub, leaderID string) (Club, error) {
	now := time.Now().UTC()
	c := Club{
		Name:             nc.Name,
		Description:      nc.Description,
		Category:         nc.Category,
		Status:           StatusPending,
		Tags:             nc.Tags,
		MeetingFrequency: nc.MeetingFrequency,
		MaxMembers:       nc.MaxMembers,
		LeaderID:         leaderID,
		ViceLeaderID:     nc.ViceLeaderID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateClub(ctx, c)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Club, error) {
	return svc.repo.GetClubByID(ctx, id)
}

// List runs the filtered, paginated listing.
func (svc *Service) List(ctx context.Context, filter *QueryFilter, page, limit int) ([]Club, core.Pages, error) {
	page, limit = core.CleanPagination(page, limit)
	clubs, total, err := svc.repo.ListClubs(ctx, filter, page, limit)
	if err != nil {
		return nil, core.Pages{}, errors.Wrap(err, "listing clubs")
	}
	if clubs == nil {
		clubs = []Club{}
	}
	return clubs, core.NewPages(total, page, limit), nil
}

func (svc *Service) Update(ctx context.Context, orig Club, uc UpdateClub) (Club, error) {
	c := orig
	c.Name = uc.Name
	c.Description = uc.Description
	if uc.Category != "" {
		c.Category = uc.Category
	}
	if uc.Tags != nil {
		c.Tags = uc.Tags
	}
	if uc.MeetingFrequency != "" {
		c.MeetingFrequency = uc.MeetingFrequency
	}
	if uc.MaxMembers != 0 {
		c.MaxMembers = uc.MaxMembers
	}
	if uc.ViceLeaderID != nil {
		c.ViceLeaderID = uc.ViceLeaderID
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClub(ctx, c)
}

// UpdateStatus moves a club through its lifecycle, enforcing the
// transition table.
func (svc *Service) UpdateStatus(ctx context.Context, id string, next Status) (Club, error) {
	c, err := svc.repo.GetClubByID(ctx, id)
	if err != nil {
		return Club{}, err
	}
	if !c.Status.CanTransitionTo(next) {
		return Club{}, core.NewValidationError(ErrInvalidTransition, core.FieldError{
			Field: "status",
			Error: string(c.Status) + " clubs cannot become " + string(next),
		})
	}
	c.Status = next
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClub(ctx, c)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClub(ctx, id)
}
