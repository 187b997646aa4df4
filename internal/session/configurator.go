package session

import (
	"fmt"
	"sync"

	"signin-screen/internal/provider"
)

// Configurator hands the static provider configuration to the provider
// exactly once.
type Configurator struct {
	provider provider.Provider
	config   provider.Config

	once sync.Once
	err  error
}

// NewConfigurator creates a Configurator for p with the given record.
func NewConfigurator(p provider.Provider, cfg provider.Config) *Configurator {
	return &Configurator{provider: p, config: cfg}
}

// Config returns the configuration record.
func (c *Configurator) Config() provider.Config {
	return c.config
}

// Run configures the provider on the first call. Later calls return the
// first call's result without touching the provider.
func (c *Configurator) Run() error {
	c.once.Do(func() {
		if err := c.provider.Configure(c.config); err != nil {
			c.err = fmt.Errorf("configure provider: %w", err)
		}
	})
	return c.err
}
