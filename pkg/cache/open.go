package cache

import "context"

// Config selects a cache backend. The first configured backend wins, in the
// order Disabled, RedisURL, MongoURI, Dir.
type Config struct {
	Disabled      bool
	RedisURL      string
	RedisPrefix   string
	MongoURI      string
	MongoDatabase string
	Dir           string
}

// Open connects the backend selected by cfg. With nothing configured it
// returns a [NullCache].
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch {
	case cfg.Disabled:
		return NewNullCache(), nil
	case cfg.RedisURL != "":
		c, err := NewRedisCache(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case cfg.MongoURI != "":
		c, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return c, nil
	case cfg.Dir != "":
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return NewNullCache(), nil
}

// Backend names the backend cfg selects, for log output.
func (cfg Config) Backend() string {
	switch {
	case cfg.Disabled:
		return "none"
	case cfg.RedisURL != "":
		return "redis"
	case cfg.MongoURI != "":
		return "mongo"
	case cfg.Dir != "":
		return "file"
	}
	return "none"
}
