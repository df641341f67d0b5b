package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core/club"
)

type clubRepository struct {
	db *sqlx.DB
}

var _ club.Repository = (*clubRepository)(nil) // interface compliance check

func NewClubRepository(db *sqlx.DB) *clubRepository {
	return &clubRepository{db: db}
}

func (repo clubRepository) CheckNameUniqueness(ctx context.Context, name string, excludedClubs ...club.Club) error {
	b := sq.Select("COUNT(*)").From(club.Table).Where(sq.Eq{"name": name})
	if len(excludedClubs) > 0 {
		ids := make([]string, 0, len(excludedClubs))
		for _, c := range excludedClubs {
			ids = append(ids, c.ID)
		}
		b = b.Where(sq.NotEq{"id": ids})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking club name uniqueness")
	}
	if count > 0 {
		return club.ErrNameExists
	}
	return nil
}

func (repo clubRepository) CreateClub(ctx context.Context, c club.Club) (club.Club, error) {
	c.ID = uuid.New().String()

	query, args, err := sq.Insert(club.Table).
		Columns(club.Columns...).
		Values(
			c.ID, c.Name, c.Description, string(c.Category), string(c.Status),
			c.Tags, string(c.MeetingFrequency), c.MaxMembers, c.LeaderID,
			c.ViceLeaderID, c.CreatedAt, c.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return club.Club{}, errors.Wrap(err, "building insert query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		if isDupKeyErr(err) {
			return club.Club{}, club.ErrNameExists
		}
		return club.Club{}, errors.Wrap(err, "inserting club")
	}
	return c, nil
}

func (repo clubRepository) GetClubByID(ctx context.Context, id string) (club.Club, error) {
	if _, err := uuid.Parse(id); err != nil {
		return club.Club{}, club.ErrNotFound
	}

	query, args, err := sq.Select(club.Columns...).From(club.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return club.Club{}, errors.Wrap(err, "building query")
	}

	var c club.Club
	if err = repo.db.GetContext(ctx, &c, query, args...); err != nil {
		return club.Club{}, trapNoRowsErr(err, club.ErrNotFound, "finding club by ID")
	}
	return c, nil
}

func (repo clubRepository) ListClubs(ctx context.Context, filter *club.QueryFilter, page, limit int) ([]club.Club, int, error) {
	q, err := club.BuildListQuery(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, q.CountSQL, q.CountArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "counting clubs")
	}

	var clubs []club.Club
	if err := repo.db.SelectContext(ctx, &clubs, q.ListSQL, q.ListArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "querying clubs")
	}
	return clubs, total, nil
}

func (repo clubRepository) UpdateClub(ctx context.Context, c club.Club) (club.Club, error) {
	query, args, err := sq.Update(club.Table).
		Set("name", c.Name).
		Set("description", c.Description).
		Set("category", string(c.Category)).
		Set("status", string(c.Status)).
		Set("tags", c.Tags).
		Set("meeting_frequency", string(c.MeetingFrequency)).
		Set("max_members", c.MaxMembers).
		Set("vice_leader_id", c.ViceLeaderID).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return club.Club{}, errors.Wrap(err, "building update query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		if isDupKeyErr(err) {
			return club.Club{}, club.ErrNameExists
		}
		return club.Club{}, errors.Wrap(err, "updating club")
	}
	return repo.GetClubByID(ctx, c.ID)
}

func (repo clubRepository) DeleteClub(ctx context.Context, id string) error {
	query, args, err := sq.Delete(club.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "deleting club")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return club.ErrNotFound
	}
	return nil
}
