package domain

type User struct {
	ID       string
	Email    string
	Phone    string
	FullName string
}

// DisplayName prefers the profile name, falling back to the
// email and finally to the account identifier.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

func (u User) IsZero() bool {
	return u == User{}
}
