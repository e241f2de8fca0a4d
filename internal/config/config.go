// Package config resolves caller options, stored connection profiles and
// host-supplied values into one fully populated Settings record.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/brunotm/elasticsplunk/internal/timeexpr"
	"github.com/go-playground/validator/v10"
)

// ProfilePath is the fixed relative location of the profile store.
const ProfilePath = "local/elasticsplunk.json"

// Hard defaults applied when neither the caller nor a stored profile supplies
// a value.
const (
	DefaultIndex          = "_all"
	DefaultTimestampField = "time"
	DefaultQuery          = "*"
	DefaultLimit          = 10000
	DefaultEarliest       = "now-1h"
	DefaultLatest         = "now"
)

// Options holds caller-supplied values. Address is required; every other
// field is a pointer so an unset option is distinguishable from an explicit
// zero value.
type Options struct {
	// Address is a comma-separated host list or the name of a stored profile.
	Address        string
	Index          *string
	Scan           *bool
	SourceTypes    *string
	TimestampField *string
	Query          *string
	Fields         *string
	Limit          *int
	IncludeES      *bool
	IncludeRaw     *bool
	UseTLS         *bool
	VerifyCerts    *bool
	Earliest       *string
	Latest         *string
	RequestTimeout *time.Duration
}

// HostRange carries an already-resolved time range handed down by the
// invoking environment, in epoch seconds. Nil fields mean the host supplied
// no value.
type HostRange struct {
	Earliest *int64
	Latest   *int64
}

// Profile is a stored partial settings record keyed by connection identifier.
type Profile struct {
	Hosts          []string `json:"hosts"`
	TimestampField string   `json:"tsfield"`
	UseTLS         *bool    `json:"use_ssl"`
	VerifyCerts    *bool    `json:"verify_certs"`
	Username       string   `json:"username"`
	Password       string   `json:"password"`
}

// Settings is the fully resolved configuration of one invocation.
type Settings struct {
	Hosts          []string `validate:"required,min=1"`
	Index          string   `validate:"required"`
	Scan           bool
	SourceTypes    []string
	TimestampField string `validate:"required"`
	Query          string
	Fields         []string
	Limit          int `validate:"gt=0"`
	IncludeES      bool
	IncludeRaw     bool
	UseTLS         bool
	VerifyCerts    bool
	Username       string
	Password       string
	RequestTimeout time.Duration
	Earliest       int64
	Latest         int64 `validate:"gtefield=Earliest"`
}

var validate = validator.New()

// LoadProfiles reads the profile store at path. A missing file is an empty
// store; malformed JSON is a fatal configuration error.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile store %s: %w", path, err)
	}

	var profiles map[string]Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profile store %s: %w", path, err)
	}
	return profiles, nil
}

// Resolve merges caller options, the matching stored profile and hard
// defaults into a validated Settings record. The time window resolves latest
// first; a relative earliest is then anchored to the resolved latest, so the
// two stay consistent even when evaluated moments apart. No partial Settings
// value is ever returned.
func Resolve(opts Options, profiles map[string]Profile, host HostRange, now time.Time) (Settings, error) {
	if opts.Address == "" {
		return Settings{}, fmt.Errorf("connection address is required")
	}

	stored, fromProfile := profiles[opts.Address]

	s := Settings{
		Index:          resolve(opts.Index, nil, DefaultIndex),
		Scan:           resolve(opts.Scan, nil, true),
		Query:          resolve(opts.Query, nil, DefaultQuery),
		Limit:          resolve(opts.Limit, nil, DefaultLimit),
		IncludeES:      resolve(opts.IncludeES, nil, false),
		IncludeRaw:     resolve(opts.IncludeRaw, nil, false),
		RequestTimeout: resolve(opts.RequestTimeout, nil, 0),
		Username:       stored.Username,
		Password:       stored.Password,
	}

	if fromProfile {
		s.Hosts = stored.Hosts
	} else {
		s.Hosts = splitList(opts.Address)
	}

	s.TimestampField = resolve(opts.TimestampField, optional(stored.TimestampField), DefaultTimestampField)
	s.UseTLS = resolve(opts.UseTLS, stored.UseTLS, false)
	s.VerifyCerts = resolve(opts.VerifyCerts, stored.VerifyCerts, false)
	if !s.UseTLS {
		// Verification cannot apply without TLS, even when explicitly requested.
		s.VerifyCerts = false
	}

	if opts.SourceTypes != nil {
		s.SourceTypes = splitList(*opts.SourceTypes)
	}
	if opts.Fields != nil {
		s.Fields = ensureField(splitList(*opts.Fields), s.TimestampField)
	}

	latest, err := resolveBound(opts.Latest, host.Latest, DefaultLatest, now)
	if err != nil {
		return Settings{}, fmt.Errorf("resolve latest: %w", err)
	}
	earliest, err := resolveBound(opts.Earliest, host.Earliest, DefaultEarliest, time.Unix(latest, 0))
	if err != nil {
		return Settings{}, fmt.Errorf("resolve earliest: %w", err)
	}
	s.Earliest, s.Latest = earliest, latest

	if err := validate.Struct(s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// resolve applies the three-tier precedence: explicit caller value, then
// stored profile value, then the hard default.
func resolve[T any](explicit, stored *T, def T) T {
	if explicit != nil {
		return *explicit
	}
	if stored != nil {
		return *stored
	}
	return def
}

// resolveBound resolves one time bound. An explicitly supplied expression
// always wins; otherwise a host-resolved instant is honored as-is; otherwise
// the default expression is resolved against the anchor.
func resolveBound(explicit *string, hostValue *int64, def string, anchor time.Time) (int64, error) {
	if explicit != nil {
		return timeexpr.Resolve(*explicit, anchor)
	}
	if hostValue != nil {
		return *hostValue, nil
	}
	return timeexpr.Resolve(def, anchor)
}

// optional returns nil for the empty string so blank profile fields fall
// through to the next precedence tier.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty elements. An empty input yields nil.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ensureField appends name to fields unless already present, so a projection
// can never drop the field the output record is derived from.
func ensureField(fields []string, name string) []string {
	for _, f := range fields {
		if f == name {
			return fields
		}
	}
	return append(fields, name)
}
