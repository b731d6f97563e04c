package model

import "time"

// Activity is a plannable event owned by a user and hosted at a location.
type Activity struct {
	ID           int64         `json:"id"`
	ActivityName string        `json:"activityName"`
	Description  string        `json:"description"`
	CategoryName string        `json:"categoryName"`
	Date         time.Time     `json:"date"`
	Finished     bool          `json:"finished"`
	User         *User         `json:"user"`
	Location     *Location     `json:"location"`
	Participants []Participant `json:"participants"`
}

// NewActivity validates a and returns a copy of it with a non-nil
// participant list.
func NewActivity(a Activity) (*Activity, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Participants == nil {
		a.Participants = []Participant{}
	}
	return &a, nil
}

// Validate returns the first violated invariant, or nil.
func (a Activity) Validate() error {
	switch {
	case IsBlank(a.ActivityName):
		return invalid("activityName", "activityName cannot be empty")
	case IsBlank(a.Description):
		return invalid("description", "description cannot be empty")
	case IsBlank(a.CategoryName):
		return invalid("categoryName", "categoryName cannot be empty")
	case a.User == nil:
		return invalid("user", "user cannot be empty")
	case a.Location == nil:
		return invalid("location", "location cannot be empty")
	case len(a.Participants) > a.Location.Capacity:
		return invalid("participants", "participants cannot exceed location capacity")
	}
	return nil
}

// IsFull reports whether no more participants fit at the location.
func (a *Activity) IsFull() bool {
	return a.Location != nil && len(a.Participants) >= a.Location.Capacity
}

// HasParticipant reports whether the participant with id is enrolled.
func (a *Activity) HasParticipant(id int64) bool {
	for _, p := range a.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CreateActivityRequest is the payload of POST /activities/add.
type CreateActivityRequest struct {
	ActivityName string    `json:"activityName"`
	Description  string    `json:"description"`
	CategoryName string    `json:"categoryName"`
	Date         time.Time `json:"date"`
	UserEmail    string    `json:"userEmail"`
	LocationName string    `json:"locationName"`
}

// ActivityPatch carries the fields of a partial activity update.
// LocationName is resolved by the caller and passed to Apply.
type ActivityPatch struct {
	ActivityName *string    `json:"activityName"`
	Description  *string    `json:"description"`
	CategoryName *string    `json:"categoryName"`
	Date         *time.Time `json:"date"`
	LocationName *string    `json:"locationName"`
}

// Apply merges p over a. A nil loc keeps the current location.
func (p ActivityPatch) Apply(a Activity, loc *Location) Activity {
	if p.ActivityName != nil {
		a.ActivityName = *p.ActivityName
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.CategoryName != nil {
		a.CategoryName = *p.CategoryName
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if loc != nil {
		a.Location = loc
	}
	return a
}
