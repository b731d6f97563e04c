package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() User {
	return User{
		Name:       "ben",
		FamilyName: "branders",
		Email:      "benbranders@gmail.com",
		Password:   "itsAsecret",
		Role:       RoleAdmin,
	}
}

func validLocation() Location {
	return Location{
		Name:         "tennis",
		Locality:     "hasselt",
		Street:       "street",
		StreetNumber: 12,
		PostalCode:   3560,
		Capacity:     10,
	}
}

func validActivity() Activity {
	u := validUser()
	l := validLocation()
	return Activity{
		ActivityName: "Football",
		Description:  "description",
		CategoryName: "Sport",
		Date:         time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC),
		User:         &u,
		Location:     &l,
	}
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msg, verr.Message)
}

func TestNewUser_Valid(t *testing.T) {
	t.Parallel()

	u, err := NewUser(validUser())
	require.NoError(t, err)
	assert.Equal(t, "ben branders", u.FullName())
}

func TestNewUser_BlankFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*User)
		msg    string
	}{
		{"empty name", func(u *User) { u.Name = "" }, "Name cannot be empty"},
		{"whitespace name", func(u *User) { u.Name = "   " }, "Name cannot be empty"},
		{"empty family name", func(u *User) { u.FamilyName = "\t" }, "familyName cannot be empty"},
		{"empty password", func(u *User) { u.Password = " " }, "Password cannot be empty"},
		{"empty role", func(u *User) { u.Role = "" }, "Role cannot be empty"},
		{"unknown role", func(u *User) { u.Role = "owner" }, "Role must be one of admin, user, guest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)
			_, err := NewUser(u)
			requireValidation(t, err, tc.msg)
		})
	}
}

func TestEmailShape(t *testing.T) {
	t.Parallel()

	good := []string{"a@b.co", "Jane.Doe+tag@Example.ORG", "x_y%z@sub.domain.be"}
	bad := []string{"", "plain", "no-at.example.com", "a@b", "a@b.c", "a b@c.com", "a@b.c0m"}

	for _, e := range good {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range bad {
		assert.False(t, IsValidEmail(e), e)

		u := validUser()
		u.Email = e
		_, err := NewUser(u)
		requireValidation(t, err, "Email cannot be empty or is typed wrong")

		_, err = NewParticipant(Participant{Name: "Jane Doe", Email: e})
		requireValidation(t, err, "Email cannot be empty or is typed wrong")
	}
}

func TestNewParticipant(t *testing.T) {
	t.Parallel()

	p, err := NewParticipant(Participant{Name: "Jane Doe", Email: "janedoe@gmail.com", ID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = NewParticipant(Participant{Name: "  ", Email: "janedoe@gmail.com"})
	requireValidation(t, err, "Name cannot be empty")
}

func TestNewLocation(t *testing.T) {
	t.Parallel()

	_, err := NewLocation(validLocation())
	require.NoError(t, err)

	zero := validLocation()
	zero.StreetNumber, zero.PostalCode, zero.Capacity = 0, 0, 0
	_, err = NewLocation(zero)
	require.NoError(t, err, "zero is a valid numeric value")

	cases := []struct {
		name   string
		mutate func(*Location)
		msg    string
	}{
		{"name", func(l *Location) { l.Name = "" }, "Name cannot be empty"},
		{"locality", func(l *Location) { l.Locality = " " }, "Locality cannot be empty"},
		{"street", func(l *Location) { l.Street = "" }, "Street cannot be empty"},
		{"street number", func(l *Location) { l.StreetNumber = -1 }, "StreetNumber cannot be smaller than 0"},
		{"postal code", func(l *Location) { l.PostalCode = -3560 }, "PostalCode cannot be smaller than 0"},
		{"capacity", func(l *Location) { l.Capacity = -10 }, "Capacity cannot be smaller than 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := validLocation()
			tc.mutate(&l)
			_, err := NewLocation(l)
			requireValidation(t, err, tc.msg)
		})
	}
}

func TestNewActivity(t *testing.T) {
	t.Parallel()

	a, err := NewActivity(validActivity())
	require.NoError(t, err)
	assert.False(t, a.Finished)
	assert.NotNil(t, a.Participants)
	assert.Empty(t, a.Participants)

	cases := []struct {
		name   string
		mutate func(*Activity)
		msg    string
	}{
		{"name", func(a *Activity) { a.ActivityName = "" }, "activityName cannot be empty"},
		{"description", func(a *Activity) { a.Description = "  " }, "description cannot be empty"},
		{"category", func(a *Activity) { a.CategoryName = "" }, "categoryName cannot be empty"},
		{"user", func(a *Activity) { a.User = nil }, "user cannot be empty"},
		{"location", func(a *Activity) { a.Location = nil }, "location cannot be empty"},
		{"over capacity", func(a *Activity) {
			a.Location.Capacity = 1
			a.Participants = []Participant{{ID: 1}, {ID: 2}}
		}, "participants cannot exceed location capacity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validActivity()
			tc.mutate(&a)
			_, err := NewActivity(a)
			requireValidation(t, err, tc.msg)
		})
	}
}

func TestActivity_IsFull(t *testing.T) {
	t.Parallel()

	a := validActivity()
	a.Location.Capacity = 2
	a.Participants = []Participant{{ID: 1}}
	assert.False(t, a.IsFull())
	assert.True(t, a.HasParticipant(1))
	assert.False(t, a.HasParticipant(2))

	a.Participants = append(a.Participants, Participant{ID: 2})
	assert.True(t, a.IsFull())
}

func TestLocationPatch_KeepsUnsetFields(t *testing.T) {
	t.Parallel()

	name := "New Name"
	got := LocationPatch{Name: &name}.Apply(validLocation())

	want := validLocation()
	want.Name = "New Name"
	assert.Equal(t, want, got)
}

func TestLocationPatch_ZeroOverrides(t *testing.T) {
	t.Parallel()

	zero := 0
	got := LocationPatch{Capacity: &zero}.Apply(validLocation())
	assert.Equal(t, 0, got.Capacity)
	assert.Equal(t, 12, got.StreetNumber)
}

func TestUserPatch_Apply(t *testing.T) {
	t.Parallel()

	role := RoleGuest
	family := "holland"
	got := UserPatch{FamilyName: &family, Role: &role}.Apply(validUser())
	assert.Equal(t, "ben", got.Name)
	assert.Equal(t, "holland", got.FamilyName)
	assert.Equal(t, RoleGuest, got.Role)
	assert.Equal(t, "itsAsecret", got.Password)
}

func TestActivityPatch_Apply(t *testing.T) {
	t.Parallel()

	desc := "new description"
	other := validLocation()
	other.Name = "gym"

	base := validActivity()
	got := ActivityPatch{Description: &desc}.Apply(base, nil)
	assert.Equal(t, "new description", got.Description)
	assert.Equal(t, base.ActivityName, got.ActivityName)
	assert.Equal(t, "tennis", got.Location.Name)

	got = ActivityPatch{}.Apply(base, &other)
	assert.Equal(t, "gym", got.Location.Name)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRole("superuser")
	assert.Error(t, err)
}
