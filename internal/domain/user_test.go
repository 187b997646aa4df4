package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRecord_Clone(t *testing.T) {
	orig := &UserRecord{
		User: UserProfile{
			ID:    "1",
			Name:  StringPtr("Jane"),
			Email: StringPtr("jane@x.com"),
		},
		Scopes:  []string{"openid", "email"},
		IDToken: StringPtr("tok"),
	}

	c := orig.Clone()
	require.NotNil(t, c)
	assert.Equal(t, orig, c)

	*c.User.Name = "Changed"
	c.Scopes[0] = "profile"
	assert.Equal(t, "Jane", *orig.User.Name)
	assert.Equal(t, "openid", orig.Scopes[0])
	assert.Nil(t, c.User.Photo)

	var nilRecord *UserRecord
	assert.Nil(t, nilRecord.Clone())
}

func TestSessionState_SignedIn(t *testing.T) {
	assert.False(t, SessionState{}.SignedIn())
	assert.True(t, SessionState{User: &UserRecord{}}.SignedIn())
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	require.NotNil(t, StringPtr("a"))
	assert.Equal(t, "a", *StringPtr("a"))
}
