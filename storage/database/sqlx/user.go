package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/user"
)

const userTable = "users"

var userColumns = []string{
	"id", "name", "email", "password_hash", "role", "department",
	"academic_year", "avatar", "is_active", "created_at", "updated_at", "last_login",
}

// allowed `?ordering=` fields for the admin user listing
var userOrderings = map[string]bool{
	"name":       true,
	"email":      true,
	"role":       true,
	"created_at": true,
	"last_login": true,
}

type userRow struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	PasswordHash []byte       `db:"password_hash"`
	Role         string       `db:"role"`
	Department   string       `db:"department"`
	AcademicYear int          `db:"academic_year"`
	Avatar       string       `db:"avatar"`
	IsActive     bool         `db:"is_active"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) toDomain() user.User {
	usr := user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		Department:   r.Department,
		AcademicYear: r.AcademicYear,
		Avatar:       r.Avatar,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	usr.SetActive(r.IsActive)
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time
	}
	return usr
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// isDupKeyErr reports a MySQL 1062 duplicate-key violation.
func isDupKeyErr(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// trapNoRowsErr maps "no rows" to the domain's not-found sentinel.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	b := sq.Select("COUNT(*)").From(userTable).Where(sq.Eq{"email": email})
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		b = b.Where(sq.NotEq{"id": ids})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()

	var lastLogin interface{}
	if !usr.LastLogin.IsZero() {
		lastLogin = usr.LastLogin
	}
	query, args, err := sq.Insert(userTable).
		Columns(userColumns...).
		Values(
			usr.ID, usr.Name, usr.Email, usr.PasswordHash, string(usr.Role),
			usr.Department, usr.AcademicYear, usr.Avatar, usr.Active(),
			usr.CreatedAt, usr.UpdatedAt, lastLogin,
		).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building insert query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		if isDupKeyErr(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	b := sq.Select(userColumns...).From(userTable)

	if filter != nil {
		if filter.Search != "" {
			pattern := "%" + core.EscapeLike(filter.Search) + "%"
			b = b.Where(sq.Expr(`(name LIKE ? ESCAPE '\\' OR email LIKE ? ESCAPE '\\')`, pattern, pattern))
		}
		if filter.Role != "" {
			b = b.Where(sq.Eq{"role": string(filter.Role)})
		}
		if filter.IsActive != nil {
			b = b.Where(sq.Eq{"is_active": *filter.IsActive})
		}
		if !filter.CreatedFrom.IsZero() {
			b = b.Where(sq.GtOrEq{"created_at": filter.CreatedFrom.UTC()})
		}
		if !filter.CreatedTo.IsZero() {
			b = b.Where(sq.LtOrEq{"created_at": filter.CreatedTo.UTC()})
		}
	}

	for _, ord := range ordering {
		if userOrderings[ord.Field] {
			b = b.OrderBy(ord.String())
		}
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toDomain())
	}
	return users, nil
}

func (repo userRepository) getUserBy(ctx context.Context, pred sq.Eq, msg string) (user.User, error) {
	query, args, err := sq.Select(userColumns...).From(userTable).Where(pred).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}

	var row userRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, msg)
	}
	return row.toDomain(), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	return repo.getUserBy(ctx, sq.Eq{"id": id}, "finding user by ID")
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUserBy(ctx, sq.Eq{"email": email}, "finding user by email")
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	b := sq.Update(userTable).Where(sq.Eq{"id": usr.ID})

	if usr.Name != "" {
		b = b.Set("name", usr.Name)
	}
	if usr.Department != "" {
		b = b.Set("department", usr.Department)
	}
	if usr.AcademicYear != 0 {
		b = b.Set("academic_year", usr.AcademicYear)
	}
	if usr.Avatar != "" {
		b = b.Set("avatar", usr.Avatar)
	}
	if usr.Role != "" {
		b = b.Set("role", string(usr.Role))
	}
	if usr.PasswordHash != nil {
		b = b.Set("password_hash", usr.PasswordHash)
	}
	if !usr.LastLogin.IsZero() {
		b = b.Set("last_login", usr.LastLogin)
	}
	if isActive != nil {
		b = b.Set("is_active", *isActive)
	}
	b = b.Set("updated_at", time.Now().UTC())

	query, args, err := b.ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building update query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return repo.GetUserByID(ctx, usr.ID)
}
