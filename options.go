package dbsyncr

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dbsyncr/dbsyncr/pkg/mappings"
)

// DefaultTTL is the eviction horizon used when no TTL option is given.
const DefaultTTL = time.Hour

// config holds the resolved session options.
type config struct {
	mapping *mappings.Mapping
	ttl     time.Duration
	logger  *zerolog.Logger
}

func defaultConfig() *config {
	return &config{ttl: DefaultTTL}
}

// Option is a function that configures a session.
type Option func(*config) error

// WithMapping configures the initial field mapping. It is validated during
// New.
func WithMapping(m mappings.Mapping) Option {
	return func(c *config) error {
		c.mapping = &m
		return nil
	}
}

// WithMappingDocument configures the initial field mapping from its YAML
// document form.
func WithMappingDocument(doc []byte) Option {
	return func(c *config) error {
		m, err := mappings.ParseDocument(doc)
		if err != nil {
			return err
		}
		c.mapping = &m
		return nil
	}
}

// WithTTL configures how long loaded datasets are kept before EvictExpired
// removes them.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) error {
		c.ttl = ttl
		return nil
	}
}

// WithLogger replaces the process-wide default logger for the session.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = &logger
		return nil
	}
}
