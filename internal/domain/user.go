package domain

// UserProfile is the profile part of a sign-in result. Optional fields are nil
// when the provider did not return them.
type UserProfile struct {
	ID         string  `json:"id"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Photo      *string `json:"photo"`
	GivenName  *string `json:"given_name"`
	FamilyName *string `json:"family_name"`
}

// UserRecord is the read-only snapshot a provider returns on a successful
// sign-in. It is stored as returned; display fallbacks belong to the view.
type UserRecord struct {
	User    UserProfile `json:"user"`
	Scopes  []string    `json:"scopes,omitempty"`
	IDToken *string     `json:"id_token,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate held session state.
func (u *UserRecord) Clone() *UserRecord {
	if u == nil {
		return nil
	}
	c := *u
	c.User.Name = cloneString(u.User.Name)
	c.User.Email = cloneString(u.User.Email)
	c.User.Photo = cloneString(u.User.Photo)
	c.User.GivenName = cloneString(u.User.GivenName)
	c.User.FamilyName = cloneString(u.User.FamilyName)
	c.IDToken = cloneString(u.IDToken)
	if u.Scopes != nil {
		c.Scopes = append([]string(nil), u.Scopes...)
	}
	return &c
}

// SessionState is either signed out (User == nil) or holds a complete record.
type SessionState struct {
	User *UserRecord
}

// SignedIn reports whether a user record is present.
func (s SessionState) SignedIn() bool {
	return s.User != nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
