package model

// User is a registered account.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	FamilyName string `json:"familyName"`
	Email      string `json:"email"`
	Password   string `json:"-"` // bcrypt hash once persisted
	Role       Role   `json:"role"`
}

// NewUser validates u and returns a copy of it.
func NewUser(u User) (*User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// Validate returns the first violated invariant, or nil.
func (u User) Validate() error {
	if IsBlank(u.Name) {
		return invalid("name", "Name cannot be empty")
	}
	if IsBlank(u.FamilyName) {
		return invalid("familyName", "familyName cannot be empty")
	}
	if !IsValidEmail(u.Email) {
		return invalid("email", "Email cannot be empty or is typed wrong")
	}
	if IsBlank(u.Password) {
		return invalid("password", "Password cannot be empty")
	}
	if IsBlank(string(u.Role)) {
		return invalid("role", "Role cannot be empty")
	}
	if !u.Role.Valid() {
		return invalid("role", "Role must be one of admin, user, guest")
	}
	return nil
}

// FullName joins the given and family name.
func (u User) FullName() string {
	return u.Name + " " + u.FamilyName
}

// UserPatch carries the fields of a partial user update. Nil fields keep
// the stored value.
type UserPatch struct {
	Name       *string `json:"name"`
	FamilyName *string `json:"familyName"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Role       *Role   `json:"role"`
}

// Apply merges p over u. Password is copied verbatim, so callers hash it first.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.FamilyName != nil {
		u.FamilyName = *p.FamilyName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}

// SignupRequest is the payload of POST /users/signup.
type SignupRequest struct {
	Name       string `json:"name"`
	FamilyName string `json:"familyName"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Password   string `json:"password"`
}

// LoginRequest is the payload of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Role     Role   `json:"role"`
}
