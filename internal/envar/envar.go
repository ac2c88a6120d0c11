package envar

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// Configuration provides access to environment variables, values suffixed
// with "_SECURE" are resolved through the secrets provider instead.
type Configuration struct {
	provider Provider
}

// Provider defines the interface implemented by secret stores.
type Provider interface {
	Get(key string) (string, error)
}

// New ...
func New(provider Provider) *Configuration {
	return &Configuration{
		provider: provider,
	}
}

// Load reads the env filename and loads it into ENV for this process, a blank
// filename is a no-op so production deployments can rely on real variables.
func Load(filename string) error {
	if filename == "" {
		return nil
	}

	if err := godotenv.Load(filename); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "godotenv.Load")
	}

	return nil
}

// Get returns the value for "key", if the environment variable named
// "<key>_SECURE" exists its value is used as the path for looking the secret
// up in the provider.
func (c *Configuration) Get(key string) (string, error) {
	res := os.Getenv(key)

	valSecret := os.Getenv(key + "_SECURE")
	if valSecret != "" {
		valSecretRes, err := c.provider.Get(valSecret)
		if err != nil {
			return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "provider.Get")
		}

		res = valSecretRes
	}

	return res, nil
}
