package internal

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/sanLimbu/taskplanner-api/internal"
	envvar "github.com/sanLimbu/taskplanner-api/internal/envar"
)

// NewMemcached instantiates the memcached client using configuration defined
// in environment variables.
func NewMemcached(conf *envvar.Configuration) (*memcache.Client, error) {
	host, err := conf.Get("MEMCACHED_HOST")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get MEMCACHED_HOST")
	}

	// Assuming environment variable contains only one server
	client := memcache.New(host)

	if err := client.Ping(); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Ping")
	}

	client.Timeout = 100 * time.Millisecond
	client.MaxIdleConns = 100

	return client, nil
}
