package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/membership"
)

const membershipTable = "memberships"

var membershipColumns = []string{
	"id", "user_id", "club_id", "status", "joined_at", "created_at", "updated_at",
}

// allowed `?ordering=` fields for the club members listing
var membershipOrderings = map[string]bool{
	"status":     true,
	"joined_at":  true,
	"created_at": true,
}

type membershipRepository struct {
	db *sqlx.DB
}

var _ membership.Repository = (*membershipRepository)(nil) // interface compliance check

func NewMembershipRepository(db *sqlx.DB) *membershipRepository {
	return &membershipRepository{db: db}
}

func (repo membershipRepository) CreateMembership(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	m.ID = uuid.New().String()

	query, args, err := sq.Insert(membershipTable).
		Columns(membershipColumns...).
		Values(m.ID, m.UserID, m.ClubID, string(m.Status), m.JoinedAt, m.CreatedAt, m.UpdatedAt).
		ToSql()
	if err != nil {
		return membership.Membership{}, errors.Wrap(err, "building insert query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		if isDupKeyErr(err) {
			return membership.Membership{}, membership.ErrAlreadyMember
		}
		return membership.Membership{}, errors.Wrap(err, "inserting membership")
	}
	return m, nil
}

func (repo membershipRepository) GetMembership(ctx context.Context, clubID, userID string) (membership.Membership, error) {
	query, args, err := sq.Select(membershipColumns...).
		From(membershipTable).
		Where(sq.Eq{"club_id": clubID, "user_id": userID}).
		ToSql()
	if err != nil {
		return membership.Membership{}, errors.Wrap(err, "building query")
	}

	var m membership.Membership
	if err = repo.db.GetContext(ctx, &m, query, args...); err != nil {
		return membership.Membership{}, trapNoRowsErr(err, membership.ErrNotFound, "finding membership")
	}
	return m, nil
}

func (repo membershipRepository) QueryClubMembers(ctx context.Context, clubID string, statuses []membership.Status, ordering []core.DBOrdering) ([]membership.Member, error) {
	cols := make([]string, 0, len(membershipColumns)+3)
	for _, c := range membershipColumns {
		cols = append(cols, "m."+c)
	}
	cols = append(cols, "u.name AS user_name", "u.email AS user_email", "u.avatar AS user_avatar")

	b := sq.Select(cols...).
		From(membershipTable + " m").
		Join(userTable + " u ON u.id = m.user_id").
		Where(sq.Eq{"m.club_id": clubID})

	if len(statuses) > 0 {
		vals := make([]string, 0, len(statuses))
		for _, s := range statuses {
			vals = append(vals, string(s))
		}
		b = b.Where(sq.Eq{"m.status": vals})
	}

	ordered := false
	for _, ord := range ordering {
		if membershipOrderings[ord.Field] {
			b = b.OrderBy("m." + ord.String())
			ordered = true
		}
	}
	if !ordered {
		b = b.OrderBy("m.created_at ASC")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var members []membership.Member
	if err = repo.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying club members")
	}
	return members, nil
}

func (repo membershipRepository) QueryUserMemberships(ctx context.Context, userID string) ([]membership.Membership, error) {
	query, args, err := sq.Select(membershipColumns...).
		From(membershipTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var memberships []membership.Membership
	if err = repo.db.SelectContext(ctx, &memberships, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying user memberships")
	}
	return memberships, nil
}

func (repo membershipRepository) UpdateMembership(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	query, args, err := sq.Update(membershipTable).
		Set("status", string(m.Status)).
		Set("joined_at", m.JoinedAt).
		Set("updated_at", m.UpdatedAt).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return membership.Membership{}, errors.Wrap(err, "building update query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return membership.Membership{}, errors.Wrap(err, "updating membership")
	}
	return m, nil
}

func (repo membershipRepository) DeleteMembership(ctx context.Context, id string) error {
	query, args, err := sq.Delete(membershipTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting membership")
	}
	return nil
}

func (repo membershipRepository) CountMembers(ctx context.Context, clubID string, status membership.Status) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(membershipTable).
		Where(sq.Eq{"club_id": clubID, "status": string(status)}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building count query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting members")
	}
	return count, nil
}

func (repo membershipRepository) IsApprovedMember(ctx context.Context, clubID, userID string) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(membershipTable).
		Where(sq.Eq{
			"club_id": clubID,
			"user_id": userID,
			"status":  string(membership.StatusApproved),
		}).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, errors.Wrap(err, "checking membership")
	}
	return count > 0, nil
}
