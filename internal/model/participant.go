package model

// Participant is an enrollment identity, linked many-to-many with activities.
type Participant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewParticipant validates p and returns a copy of it.
func NewParticipant(p Participant) (*Participant, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate returns the first violated invariant, or nil.
func (p Participant) Validate() error {
	if IsBlank(p.Name) {
		return invalid("name", "Name cannot be empty")
	}
	if !IsValidEmail(p.Email) {
		return invalid("email", "Email cannot be empty or is typed wrong")
	}
	return nil
}
