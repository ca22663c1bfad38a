package types

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the settings a client needs to reach the collection API.
type Config struct {
	OwnerID        int64         `json:"owner_id" yaml:"owner_id"`
	BaseURL        string        `json:"base_url" yaml:"base_url"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// DefaultBaseURL points at a locally running `todos serve`.
const DefaultBaseURL = "http://127.0.0.1:8080"

// Config validation errors.
var (
	ErrBaseURLEmpty   = errors.New("base URL must not be empty")
	ErrBaseURLInvalid = errors.New("base URL must be an absolute http(s) URL")
	ErrTimeoutInvalid = errors.New("request timeout must not be negative")
)

// Validate checks that the Config is usable. A zero owner ID is reported
// as ErrOwnerUnset so callers can show the setup notice instead of the
// list.
func (c Config) Validate() error {
	if c.OwnerID <= 0 {
		return ErrOwnerUnset
	}
	if c.BaseURL == "" {
		return ErrBaseURLEmpty
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrBaseURLInvalid
	}
	if c.RequestTimeout < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}
