package model

// Location is a venue that hosts activities.
type Location struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Locality     string `json:"locality"`
	Street       string `json:"street"`
	StreetNumber int    `json:"streetNumber"`
	PostalCode   int    `json:"postalCode"`
	Capacity     int    `json:"capacity"`
}

// NewLocation validates l and returns a copy of it.
func NewLocation(l Location) (*Location, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate returns the first violated invariant, or nil.
func (l Location) Validate() error {
	switch {
	case IsBlank(l.Name):
		return invalid("name", "Name cannot be empty")
	case IsBlank(l.Locality):
		return invalid("locality", "Locality cannot be empty")
	case IsBlank(l.Street):
		return invalid("street", "Street cannot be empty")
	case l.StreetNumber < 0:
		return invalid("streetNumber", "StreetNumber cannot be smaller than 0")
	case l.PostalCode < 0:
		return invalid("postalCode", "PostalCode cannot be smaller than 0")
	case l.Capacity < 0:
		return invalid("capacity", "Capacity cannot be smaller than 0")
	}
	return nil
}

// LocationPatch carries the fields of a partial location update.
type LocationPatch struct {
	Name         *string `json:"name"`
	Locality     *string `json:"locality"`
	Street       *string `json:"street"`
	StreetNumber *int    `json:"streetNumber"`
	PostalCode   *int    `json:"postalCode"`
	Capacity     *int    `json:"capacity"`
}

// Apply merges p over l.
func (p LocationPatch) Apply(l Location) Location {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Locality != nil {
		l.Locality = *p.Locality
	}
	if p.Street != nil {
		l.Street = *p.Street
	}
	if p.StreetNumber != nil {
		l.StreetNumber = *p.StreetNumber
	}
	if p.PostalCode != nil {
		l.PostalCode = *p.PostalCode
	}
	if p.Capacity != nil {
		l.Capacity = *p.Capacity
	}
	return l
}

// CreateLocationRequest is the payload of POST /locations/add.
type CreateLocationRequest struct {
	Name         string `json:"name"`
	Locality     string `json:"locality"`
	Street       string `json:"street"`
	StreetNumber int    `json:"streetNumber"`
	PostalCode   int    `json:"postalCode"`
	Capacity     int    `json:"capacity"`
}
