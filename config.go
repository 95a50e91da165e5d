package authclient

// SimpleConfig is a plain-struct Config implementation.
type SimpleConfig struct {
	// BaseURL is the API root, e.g. "https://clinic.example.com/api".
	BaseURL string
	// StorageKey names the persisted credential entry. Defaults to "token".
	StorageKey string
	// HTTPTimeoutSeconds bounds each auth API call. Defaults to 10.
	HTTPTimeoutSeconds int
	// AuthScheme prefixes the Authorization header. Defaults to "Bearer".
	AuthScheme string
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c SimpleConfig) GetStorageKey() string {
	if c.StorageKey == "" {
		return "token"
	}
	return c.StorageKey
}

func (c SimpleConfig) GetHTTPTimeout() int {
	if c.HTTPTimeoutSeconds <= 0 {
		return 10
	}
	return c.HTTPTimeoutSeconds
}

func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}
