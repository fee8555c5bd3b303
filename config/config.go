package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPITimeout           = geolib.DefaultLookupTimeout
	DefaultAPIWorkers           = geolib.DefaultWorkerPoolSize
	DefaultAPIRateLimitInterval = geolib.DefaultRateLimitInterval
	DefaultAPIRateLimitBurst    = geolib.DefaultRateLimitBurst
	DefaultAPIUserAgent         = "geoipfilter"

	maxCacheTTL = math.MaxInt64 / uint(time.Second)
)

// ErrInvalidConfig is returned for any configuration which cannot be
// used to build a filter.
var ErrInvalidConfig = errors.New("invalid configuration")

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type rawConfig struct {
	Mode                 string   `json:"mode"`
	Countries            string   `json:"countries"`
	AllowUnknown         bool     `json:"allow_unknown"`
	DBPath               string   `json:"db_path"`
	APIURL               string   `json:"api_url"`
	URL                  string   `json:"url"`
	CacheSize            uint     `json:"cache_size"`
	CacheTTL             uint     `json:"cache_ttl"`
	APITimeout           duration `json:"api_timeout"`
	APIWorkers           uint     `json:"api_workers"`
	APIRateLimitInterval duration `json:"api_rate_limit_interval"`
	APIRateLimitBurst    uint     `json:"api_rate_limit_burst"`
	APIUserAgent         string   `json:"api_user_agent"`
}

// Config is a validated configuration of a filter. Zero values of
// optional fields are replaced with defaults by getters.
type Config struct {
	Mode         geolib.Mode
	Countries    []geolib.CountryCode
	AllowUnknown bool

	// Exactly one of DBPath and APIURL is set.
	DBPath string
	APIURL string

	CacheSize int
	CacheTTL  time.Duration

	APITimeout           time.Duration
	APIWorkers           int
	APIRateLimitInterval time.Duration
	APIRateLimitBurst    int
	APIUserAgent         string
}

func (c *Config) GetCacheSize() int {
	if c.CacheSize == 0 {
		return geolib.DefaultCacheSize
	}

	return c.CacheSize
}

func (c *Config) GetCacheTTL() time.Duration {
	if c.CacheTTL == 0 {
		return geolib.DefaultCacheTTL
	}

	return c.CacheTTL
}

func (c *Config) GetAPITimeout() time.Duration {
	if c.APITimeout == 0 {
		return DefaultAPITimeout
	}

	return c.APITimeout
}

func (c *Config) GetAPIWorkers() int {
	if c.APIWorkers == 0 {
		return DefaultAPIWorkers
	}

	return c.APIWorkers
}

func (c *Config) GetAPIRateLimitInterval() time.Duration {
	if c.APIRateLimitInterval == 0 {
		return DefaultAPIRateLimitInterval
	}

	return c.APIRateLimitInterval
}

func (c *Config) GetAPIRateLimitBurst() int {
	if c.APIRateLimitBurst == 0 {
		return DefaultAPIRateLimitBurst
	}

	return c.APIRateLimitBurst
}

func (c *Config) GetAPIUserAgent() string {
	if c.APIUserAgent == "" {
		return DefaultAPIUserAgent
	}

	return c.APIUserAgent
}

// UseLocalDatabase tells if filter has to use a local database
// instead of a remote API.
func (c *Config) UseLocalDatabase() bool {
	return c.DBPath != ""
}

// Load reads, validates and parses a configuration file. A format is
// chosen by file extension: .toml, .yaml/.yml or HJSON otherwise (so
// plain JSON works too).
func Load(fs afero.Fs, path string) (*Config, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	conf, err := Parse(content, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	if conf.UseLocalDatabase() {
		stat, err := fs.Stat(conf.DBPath)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot access db_path: %v", ErrInvalidConfig, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("%w: db_path %s is a directory", ErrInvalidConfig, conf.DBPath)
		}
	}

	return conf, nil
}

// Parse parses a content of configuration file. Extension defines a
// format of the content.
func Parse(content []byte, extension string) (*Config, error) {
	rawMap := map[string]interface{}{}

	if err := decode(content, extension, &rawMap); err != nil {
		return nil, err
	}

	rawBytes, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("cannot convert config to json: %w", err)
	}

	errs, err := configJSONSchema.ValidateBytes(context.Background(), rawBytes)
	if err != nil {
		return nil, fmt.Errorf("cannot validate config: %w", err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, errs[0].Error())
	}

	raw := rawConfig{}

	if err := json.Unmarshal(rawBytes, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return raw.build()
}

func decode(content []byte, extension string, rawMap *map[string]interface{}) error {
	var err error

	switch strings.ToLower(extension) {
	case ".toml":
		err = toml.Unmarshal(content, rawMap)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, rawMap)
	default:
		err = hjson.Unmarshal(content, rawMap)
	}

	if err != nil {
		return fmt.Errorf("cannot parse config: %w", err)
	}

	return nil
}

func (r rawConfig) build() (*Config, error) {
	mode, err := geolib.ParseMode(r.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	countries, err := geolib.ParseCountryList(r.Countries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	apiURL := r.APIURL

	switch {
	case r.URL != "" && apiURL != "":
		return nil, fmt.Errorf("%w: api_url and url are aliases, use only one", ErrInvalidConfig)
	case r.URL != "":
		apiURL = r.URL
	}

	switch {
	case r.DBPath == "" && apiURL == "":
		return nil, fmt.Errorf("%w: either db_path or api_url is required", ErrInvalidConfig)
	case r.DBPath != "" && apiURL != "":
		return nil, fmt.Errorf("%w: db_path and api_url are mutually exclusive", ErrInvalidConfig)
	}

	if r.CacheTTL > maxCacheTTL {
		return nil, fmt.Errorf("%w: cache_ttl should be <= %d", ErrInvalidConfig, maxCacheTTL)
	}

	if r.CacheSize > math.MaxInt32 || r.APIWorkers > math.MaxInt32 || r.APIRateLimitBurst > math.MaxInt32 {
		return nil, fmt.Errorf("%w: cache_size, api_workers and api_rate_limit_burst should be <= %d",
			ErrInvalidConfig, math.MaxInt32)
	}

	if r.APITimeout.Duration < 0 || r.APIRateLimitInterval.Duration < 0 {
		return nil, fmt.Errorf("%w: durations have to be positive", ErrInvalidConfig)
	}

	return &Config{
		Mode:                 mode,
		Countries:            countries,
		AllowUnknown:         r.AllowUnknown,
		DBPath:               r.DBPath,
		APIURL:               apiURL,
		CacheSize:            int(r.CacheSize),
		CacheTTL:             time.Duration(r.CacheTTL) * time.Second,
		APITimeout:           r.APITimeout.Duration,
		APIWorkers:           int(r.APIWorkers),
		APIRateLimitInterval: r.APIRateLimitInterval.Duration,
		APIRateLimitBurst:    int(r.APIRateLimitBurst),
		APIUserAgent:         r.APIUserAgent,
	}, nil
}
