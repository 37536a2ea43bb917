package mem

type config struct {
	Collections []string `json:"collections"`
}

type Option func(c *config)

// WithCollections pre-creates collections, parents included.
func WithCollections(paths ...string) Option {
	return func(c *config) {
		c.Collections = append(c.Collections, paths...)
	}
}
