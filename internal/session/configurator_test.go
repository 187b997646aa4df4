package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"signin-screen/internal/provider"
)

func TestConfigurator_ConfiguresExactlyOnce(t *testing.T) {
	cfg := provider.Config{ClientID: "abc", OfflineAccess: true}
	p := &MockProvider{}
	p.On("Configure", cfg).Return(nil).Once()

	c := NewConfigurator(p, cfg)
	assert.NoError(t, c.Run())
	assert.NoError(t, c.Run())
	assert.NoError(t, c.Run())

	p.AssertNumberOfCalls(t, "Configure", 1)
	assert.Equal(t, cfg, c.Config())
}

func TestConfigurator_ErrorIsReturnedAndSticky(t *testing.T) {
	p := &MockProvider{}
	p.On("Configure", mock.Anything).Return(errors.New("client ID is required")).Once()

	c := NewConfigurator(p, provider.Config{})
	err := c.Run()
	assert.ErrorContains(t, err, "configure provider")
	assert.Equal(t, err, c.Run())

	p.AssertNumberOfCalls(t, "Configure", 1)
}
