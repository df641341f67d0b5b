package club

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/campushq/clubhub/core"
)

// Category is the closed set of club categories.
type Category string

const (
	CategoryTechnology   Category = "technology"
	CategorySports       Category = "sports"
	CategoryArts         Category = "arts"
	CategoryAcademic     Category = "academic"
	CategoryCultural     Category = "cultural"
	CategorySocial       Category = "social"
	CategoryVolunteering Category = "volunteering"
	CategoryOther        Category = "other"
)

var AllCategories = []Category{
	CategoryTechnology, CategorySports, CategoryArts, CategoryAcademic,
	CategoryCultural, CategorySocial, CategoryVolunteering, CategoryOther,
}

func (c Category) Valid() bool {
	for _, cat := range AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// Status is the club lifecycle state. Transitions are admin-controlled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusArchived  Status = "archived"
)

var AllStatuses = []Status{StatusPending, StatusActive, StatusSuspended, StatusArchived}

// statusTransitions holds the allowed transitions; archived is terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusActive, StatusArchived},
	StatusActive:    {StatusSuspended, StatusArchived},
	StatusSuspended: {StatusActive, StatusArchived},
	StatusArchived:  {},
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

// MeetingFrequency is the closed set of meeting cadences.
type MeetingFrequency string

const (
	MeetWeekly     MeetingFrequency = "weekly"
	MeetBiweekly   MeetingFrequency = "biweekly"
	MeetMonthly    MeetingFrequency = "monthly"
	MeetOccasional MeetingFrequency = "occasional"
)

var AllMeetingFrequencies = []MeetingFrequency{MeetWeekly, MeetBiweekly, MeetMonthly, MeetOccasional}

func (mf MeetingFrequency) Valid() bool {
	for _, f := range AllMeetingFrequencies {
		if mf == f {
			return true
		}
	}
	return false
}

// Tags is stored as a JSON-encoded array column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	return json.Marshal(t)
}

func (t *Tags) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return errors.Errorf("unsupported tags type %T", src)
}

type Club struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Description      string           `json:"description" db:"description"`
	Category         Category         `json:"category" db:"category"`
	Status           Status           `json:"status" db:"status"`
	Tags             Tags             `json:"tags" db:"tags"`
	MeetingFrequency MeetingFrequency `json:"meeting_frequency,omitempty" db:"meeting_frequency"`
	MaxMembers       int              `json:"max_members,omitempty" db:"max_members"`
	LeaderID         string           `json:"leader_id" db:"leader_id"`
	ViceLeaderID     *string          `json:"vice_leader_id,omitempty" db:"vice_leader_id"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"` // UTC
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"` // UTC
}

// IsLeader reports whether userID owns the club.
func (c *Club) IsLeader(userID string) bool {
	return c.LeaderID == userID
}

// IsLeadership reports whether userID is the leader or vice leader.
func (c *Club) IsLeadership(userID string) bool {
	if c.LeaderID == userID {
		return true
	}
	return c.ViceLeaderID != nil && *c.ViceLeaderID == userID
}

// NewClub contains information needed to create a new Club.
type NewClub struct {
	Name             string           `json:"name" validate:"required,max=150"`
	Description      string           `json:"description" validate:"required"`
	Category         Category         `json:"category" validate:"required,clubcategory"`
	Tags             Tags             `json:"tags" validate:"omitempty,max=10,dive,required,max=50"`
	MeetingFrequency MeetingFrequency `json:"meeting_frequency" validate:"omitempty,meetingfreq"`
	MaxMembers       int              `json:"max_members" validate:"omitempty,min=2,max=1000"`
	ViceLeaderID     *string          `json:"vice_leader_id" validate:"omitempty,uuid4"`
}

func (nc *NewClub) Validate(svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkNameUniqueness(nc.Name)
}

// UpdateClub defines the mutable club attributes. Status is excluded:
// it only moves through the admin status endpoint.
type UpdateClub struct {
	Name             string           `json:"name" validate:"omitempty,max=150"`
	Description      string           `json:"description"`
	Category         Category         `json:"category" validate:"omitempty,clubcategory"`
	Tags             Tags             `json:"tags" validate:"omitempty,max=10,dive,required,max=50"`
	MeetingFrequency MeetingFrequency `json:"meeting_frequency" validate:"omitempty,meetingfreq"`
	MaxMembers       int              `json:"max_members" validate:"omitempty,min=2,max=1000"`
	ViceLeaderID     *string          `json:"vice_leader_id" validate:"omitempty,uuid4"`
}

func (uc *UpdateClub) Validate(orig Club, svc *Service) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}

	desc := core.CleanString(uc.Description)
	if desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	return svc.checkNameUniqueness(uc.Name, orig)
}

// UpdateClubStatus is the admin-only status transition request.
type UpdateClubStatus struct {
	Status Status `json:"status" validate:"required,clubstatus"`
}

func (us UpdateClubStatus) Validate() error { return core.Validate.Struct(us) }
