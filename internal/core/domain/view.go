package domain

// UserView is the outbound representation of a User. It has no password
// field; Email and Token are dropped from the JSON when empty.
type UserView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Token  string `json:"token,omitempty"`
	Role   int    `json:"role"`
	Active int    `json:"active"`
}

// SelfView is what the account owner sees: everything except the password.
func (u *User) SelfView() UserView {
	return UserView{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Token:  u.Token,
		Role:   u.Role,
		Active: u.Active,
	}
}

// ListView is the row shape of the user listing: email and token are always
// stripped, whoever asks.
func (u *User) ListView() UserView {
	return UserView{
		ID:     u.ID,
		Name:   u.Name,
		Role:   u.Role,
		Active: u.Active,
	}
}

// ProfileView is the single-user lookup shape. Visibility is decided by the
// role of the record being viewed, not by the caller: elevated accounts expose
// their email, regular ones do not.
func (u *User) ProfileView() UserView {
	v := u.ListView()
	if u.IsElevated() {
		v.Email = u.Email
	}
	return v
}
