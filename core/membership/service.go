package membership

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
)

var (
	// errors
	ErrNotFound          = errors.New("membership not found")
	ErrAlreadyMember     = errors.New("a membership for this user and club already exists")
	ErrClubFull          = errors.New("club has reached its member limit")
	ErrNotApproved       = errors.New("membership is not approved")
	ErrInvalidTransition = errors.New("invalid membership status transition")
)

type (
	Repository interface {
		// CreateMembership relies on the (user_id, club_id) unique key as the
		// authoritative guard against concurrent duplicate joins; duplicate-key
		// failures surface as ErrAlreadyMember.
		CreateMembership(ctx context.Context, m Membership) (Membership, error)
		GetMembership(ctx context.Context, clubID, userID string) (Membership, error)
		QueryClubMembers(ctx context.Context, clubID string, statuses []Status, ordering []core.DBOrdering) ([]Member, error)
		QueryUserMemberships(ctx context.Context, userID string) ([]Membership, error)
		UpdateMembership(ctx context.Context, m Membership) (Membership, error)
		DeleteMembership(ctx context.Context, id string) error
		CountMembers(ctx context.Context, clubID string, status Status) (int, error)
		IsApprovedMember(ctx context.Context, clubID, userID string) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Join files a pending membership request. A terminal row (left, rejected)
// is replaced by a fresh one; any live row is a conflict. maxMembers caps the
// approved headcount; 0 means unlimited.
func (svc *Service) Join(ctx context.Context, clubID, userID string, maxMembers int) (Membership, error) {
	if maxMembers > 0 {
		count, err := svc.repo.CountMembers(ctx, clubID, StatusApproved)
		if err != nil {
			return Membership{}, errors.Wrap(err, "counting approved members")
		}
		if count >= maxMembers {
			return Membership{}, core.NewValidationError(ErrClubFull,
				core.FieldError{Field: "club_id", Error: ErrClubFull.Error()})
		}
	}

	if existing, err := svc.repo.GetMembership(ctx, clubID, userID); err == nil {
		if !existing.Status.Terminal() {
			return Membership{}, core.NewValidationError(ErrAlreadyMember,
				core.FieldError{Field: "club_id", Error: ErrAlreadyMember.Error()})
		}
		if err = svc.repo.DeleteMembership(ctx, existing.ID); err != nil {
			return Membership{}, errors.Wrap(err, "replacing terminal membership")
		}
	} else if err != ErrNotFound {
		return Membership{}, errors.Wrap(err, "checking existing membership")
	}

	now := time.Now().UTC()
	m := Membership{
		UserID:    userID,
		ClubID:    clubID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m, err := svc.repo.CreateMembership(ctx, m)
	if err == ErrAlreadyMember {
		// lost the race to a concurrent join; the unique key decided
		return Membership{}, core.NewValidationError(ErrAlreadyMember,
			core.FieldError{Field: "club_id", Error: ErrAlreadyMember.Error()})
	}
	return m, err
}

// AutoApprove creates an already-approved membership (club founders).
func (svc *Service) AutoApprove(ctx context.Context, clubID, userID string) (Membership, error) {
	now := time.Now().UTC()
	m := Membership{
		UserID:    userID,
		ClubID:    clubID,
		Status:    StatusApproved,
		JoinedAt:  &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateMembership(ctx, m)
}

func (svc *Service) Get(ctx context.Context, clubID, userID string) (Membership, error) {
	return svc.repo.GetMembership(ctx, clubID, userID)
}

func (svc *Service) QueryClubMembers(ctx context.Context, clubID string, statuses []Status, ordering []core.DBOrdering) ([]Member, error) {
	return svc.repo.QueryClubMembers(ctx, clubID, statuses, ordering)
}

func (svc *Service) QueryUserMemberships(ctx context.Context, userID string) ([]Membership, error) {
	return svc.repo.QueryUserMemberships(ctx, userID)
}

// UpdateStatus moves a membership through its lifecycle, enforcing the
// transition table. First approval stamps JoinedAt.
func (svc *Service) UpdateStatus(ctx context.Context, clubID, userID string, next Status) (Membership, error) {
	m, err := svc.repo.GetMembership(ctx, clubID, userID)
	if err != nil {
		return Membership{}, err
	}
	if !m.Status.CanTransitionTo(next) {
		return Membership{}, core.NewValidationError(ErrInvalidTransition, core.FieldError{
			Field: "status",
			Error: string(m.Status) + " memberships cannot become " + string(next),
		})
	}
	now := time.Now().UTC()
	m.Status = next
	m.UpdatedAt = now
	if next == StatusApproved && m.JoinedAt == nil {
		m.JoinedAt = &now
	}
	return svc.repo.UpdateMembership(ctx, m)
}

// Leave ends the caller's own membership.
func (svc *Service) Leave(ctx context.Context, clubID, userID string) error {
	m, err := svc.repo.GetMembership(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if !m.Status.CanTransitionTo(StatusLeft) {
		return core.NewValidationError(ErrNotApproved,
			core.FieldError{Field: "club_id", Error: ErrNotApproved.Error()})
	}
	m.Status = StatusLeft
	m.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateMembership(ctx, m)
	return err
}

func (svc *Service) CountMembers(ctx context.Context, clubID string, status Status) (int, error) {
	return svc.repo.CountMembers(ctx, clubID, status)
}

func (svc *Service) IsApprovedMember(ctx context.Context, clubID, userID string) (bool, error) {
	return svc.repo.IsApprovedMember(ctx, clubID, userID)
}
