package auth

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "auth.token"

// DefaultTokenExpiration is the token/cookie lifetime in hours.
const DefaultTokenExpiration = 24

// DefaultDatabaseName is used when no database name is configured.
const DefaultDatabaseName = "auth"

// Options is the concrete Config used to build a Manager.
type Options struct {
	Domain   string          `json:"domain"`
	Database DatabaseOptions `json:"database"`
	JWT      JWTOptions      `json:"jwt"`
}

// DatabaseOptions carries the store connection settings.
type DatabaseOptions struct {
	DSN  string `json:"dsn"`
	Name string `json:"name,omitempty"`
}

// JWTOptions carries token signing and cookie settings.
type JWTOptions struct {
	Secret          string `json:"secret"`
	Cookie          string `json:"cookie,omitempty"`
	ExpirationHours int    `json:"expiration_hours,omitempty"`
}

var _ Config = Options{}

func (o Options) GetSigningKey() string {
	return o.JWT.Secret
}

func (o Options) GetCookieName() string {
	if o.JWT.Cookie == "" {
		return DefaultCookieName
	}
	return o.JWT.Cookie
}

func (o Options) GetCookieDomain() string {
	return o.Domain
}

func (o Options) GetTokenExpiration() int {
	if o.JWT.ExpirationHours <= 0 {
		return DefaultTokenExpiration
	}
	return o.JWT.ExpirationHours
}

// GetDatabaseName returns the configured database name or the default.
func (o Options) GetDatabaseName() string {
	if o.Database.Name == "" {
		return DefaultDatabaseName
	}
	return o.Database.Name
}
