package membership

import (
	"time"

	"github.com/campushq/clubhub/core"
)

// Status is the membership lifecycle state, independent of the club's own
// status. Transitions are one-directional per event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
	StatusLeft      Status = "left"
)

var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusSuspended, StatusLeft}

// statusTransitions holds the allowed transitions; rejected and left are
// terminal — rejoining inserts a fresh row.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusSuspended, StatusLeft},
	StatusSuspended: {StatusApproved, StatusLeft},
	StatusRejected:  {},
	StatusLeft:      {},
}

func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// Membership joins a User to a Club; unique per (UserID, ClubID).
type Membership struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	ClubID    string     `json:"club_id" db:"club_id"`
	Status    Status     `json:"status" db:"status"`
	JoinedAt  *time.Time `json:"joined_at,omitempty" db:"joined_at"` // set on first approval
	CreatedAt time.Time  `json:"created_at" db:"created_at"`         // UTC
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`         // UTC
}

// Member is a membership row joined with the member's public user fields,
// as returned by the club members listing.
type Member struct {
	Membership
	UserName   string `json:"user_name" db:"user_name"`
	UserEmail  string `json:"user_email" db:"user_email"`
	UserAvatar string `json:"user_avatar,omitempty" db:"user_avatar"`
}

// UpdateMemberStatus is the leadership request to move a member through
// the membership lifecycle.
type UpdateMemberStatus struct {
	Status Status `json:"status" validate:"required,membershipstatus"`
}

func (us UpdateMemberStatus) Validate() error { return core.Validate.Struct(us) }
