package vault

import (
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// Provider looks secrets up in a HashiCorp Vault KV v2 mount, caching every
// path after the first read.
type Provider struct {
	client *vault.Client
	path   string

	mutex sync.RWMutex
	data  map[string]map[string]interface{}
}

// New instantiates the provider.
func New(token, addr, path string) (*Provider, error) {
	config := vault.DefaultConfig()
	config.Address = addr

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "vault.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		client: client,
		path:   path,
		data:   make(map[string]map[string]interface{}),
	}, nil
}

// Get returns the secret stored under "<mount>/data/<dir>" keyed by the last
// element of "v".
func (p *Provider) Get(v string) (string, error) {
	dir, key := path(v)

	secrets, err := p.secrets(dir)
	if err != nil {
		return "", err
	}

	res, ok := secrets[key]
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key not found: %s", v)
	}

	val, ok := res.(string)
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeUnknown, "secret is not a string: %s", v)
	}

	return val, nil
}

func (p *Provider) secrets(dir string) (map[string]interface{}, error) {
	p.mutex.RLock()
	cached, ok := p.data[dir]
	p.mutex.RUnlock()

	if ok {
		return cached, nil
	}

	secret, err := p.client.Logical().Read(p.path + "/data" + dir)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Logical.Read")
	}

	if secret == nil || secret.Data == nil {
		return nil, internal.NewErrorf(internal.ErrorCodeNotFound, "no secrets at: %s", dir)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, internal.NewErrorf(internal.ErrorCodeUnknown, "malformed secret at: %s", dir)
	}

	p.mutex.Lock()
	p.data[dir] = data
	p.mutex.Unlock()

	return data, nil
}

func path(v string) (dir, key string) {
	idx := strings.LastIndex(v, "/")
	if idx == -1 {
		return "/", v
	}

	return v[:idx], v[idx+1:]
}
