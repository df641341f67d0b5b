package club

import (
	"encoding/json"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
)

const Table = "clubs"

// Columns selected by the listing query, in table order.
var Columns = []string{
	"id", "name", "description", "category", "status", "tags",
	"meeting_frequency", "max_members", "leader_id", "vice_leader_id",
	"created_at", "updated_at",
}

// QueryFilter is the optional, independently-specifiable set of listing
// filters. Absent fields contribute no conjunct.
type QueryFilter struct {
	Category         Category         `query:"category"`
	Status           Status           `query:"status"`
	Search           string           `query:"search"`
	Tags             Tags             `query:"tags"`
	MaxMembers       int              `query:"max_members"`
	MeetingFrequency MeetingFrequency `query:"meeting_frequency"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Category == "" && qf.Status == "" && qf.Search == "" &&
		len(qf.Tags) == 0 && qf.MaxMembers == 0 && qf.MeetingFrequency == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// ListQuery is the pair of parameterized queries produced for a listing
// request. CountArgs and the leading ListArgs are identical by construction.
type ListQuery struct {
	CountSQL  string
	ListSQL   string
	CountArgs []interface{}
	ListArgs  []interface{}
	Page      int
	Limit     int
}

// conditions assembles the WHERE conjuncts in a fixed order so generated
// SQL is stable for equal input: equality filters first, then the search
// OR-clause, then the tags overlap predicate.
func (qf *QueryFilter) conditions() (sq.And, error) {
	var conds sq.And

	if qf.Category != "" {
		conds = append(conds, sq.Eq{"category": string(qf.Category)})
	}
	if qf.Status != "" {
		conds = append(conds, sq.Eq{"status": string(qf.Status)})
	}
	if qf.MeetingFrequency != "" {
		conds = append(conds, sq.Eq{"meeting_frequency": string(qf.MeetingFrequency)})
	}
	if qf.MaxMembers > 0 {
		conds = append(conds, sq.LtOrEq{"max_members": qf.MaxMembers})
	}
	if qf.Search != "" {
		pattern := "%" + core.EscapeLike(strings.ToLower(qf.Search)) + "%"
		conds = append(conds, sq.Expr(
			`(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')`,
			pattern, pattern,
		))
	}
	// an empty tag set must not exclude all rows; treat it as absent
	if len(qf.Tags) > 0 {
		tagsJSON, err := json.Marshal(qf.Tags)
		if err != nil {
			return nil, errors.Wrap(err, "encoding tags filter")
		}
		conds = append(conds, sq.Expr(`JSON_OVERLAPS(tags, CAST(? AS JSON))`, string(tagsJSON)))
	}
	return conds, nil
}

// BuildListQuery turns a filter plus pagination into a COUNT query and a
// page query sharing the exact same WHERE clause and bound values. Page and
// limit are clamped to their allowed ranges first.
func BuildListQuery(filter *QueryFilter, page, limit int) (ListQuery, error) {
	page, limit = core.CleanPagination(page, limit)

	var conds sq.And
	if filter != nil {
		var err error
		if conds, err = filter.conditions(); err != nil {
			return ListQuery{}, err
		}
	}

	countB := sq.Select("COUNT(*)").From(Table)
	listB := sq.Select(Columns...).From(Table)
	if len(conds) > 0 {
		countB = countB.Where(conds)
		listB = listB.Where(conds)
	}
	listB = listB.
		OrderBy("created_at DESC").
		Suffix("LIMIT ? OFFSET ?", limit, core.Offset(page, limit))

	countSQL, countArgs, err := countB.ToSql()
	if err != nil {
		return ListQuery{}, errors.Wrap(err, "building count query")
	}
	listSQL, listArgs, err := listB.ToSql()
	if err != nil {
		return ListQuery{}, errors.Wrap(err, "building list query")
	}

	return ListQuery{
		CountSQL:  countSQL,
		ListSQL:   listSQL,
		CountArgs: countArgs,
		ListArgs:  listArgs,
		Page:      page,
		Limit:     limit,
	}, nil
}

// Pages derives the pagination metadata for a total matching the query.
func (lq ListQuery) Pages(total int) core.Pages {
	return core.NewPages(total, lq.Page, lq.Limit)
}
