package refdata

import (
	"sync"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// Provider loads reference data lazily on first use and memoizes the result,
// including a load error, for the lifetime of the process. It belongs to the
// process entry points; the engine only ever receives the loaded value.
type Provider struct {
	once sync.Once
	load func() (*ReferenceData, error)
	data *ReferenceData
	err  error
}

// NewProvider wraps a load function
func NewProvider(load func() (*ReferenceData, error)) *Provider {
	return &Provider{load: load}
}

// NewConfiguredProvider loads the tables named by cfg (embedded defaults otherwise)
func NewConfiguredProvider(cfg domain.ReferenceDataConfig) *Provider {
	return NewProvider(func() (*ReferenceData, error) {
		return LoadConfigured(cfg)
	})
}

// Get returns the loaded reference data, loading it on the first call
func (p *Provider) Get() (*ReferenceData, error) {
	p.once.Do(func() {
		p.data, p.err = p.load()
	})
	return p.data, p.err
}
