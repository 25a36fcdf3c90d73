package storage

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Options holds the key=value settings handed to a backend factory. Keys are
// backend specific.
type Options map[string]string

// ParseOptions parses a comma separated list of key=value pairs such as
// "path=/var/lib/registry,sync_writes=true". Empty entries are skipped.
func ParseOptions(s string) (Options, error) {
	opts := make(Options)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid storage option %q: want key=value", pair)
		}
		opts[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return opts, nil
}

// Merge returns a new Options with overrides layered on top of o.
func (o Options) Merge(overrides Options) Options {
	merged := make(Options, len(o)+len(overrides))
	maps.Copy(merged, o)
	maps.Copy(merged, overrides)
	return merged
}

// OptionReader decodes typed values out of Options for one backend. The first
// failure sticks: later reads return their defaults and Err reports it.
type OptionReader struct {
	backend string
	opts    Options
	err     error
}

// NewOptionReader returns a reader over opts for the named backend.
func NewOptionReader(backend string, opts Options) *OptionReader {
	return &OptionReader{backend: backend, opts: opts}
}

// Err returns the first decoding failure as an *OptionError, or nil.
func (r *OptionReader) Err() error {
	return r.err
}

// Fail records reason against key unless an earlier failure is already held.
func (r *OptionReader) Fail(key, reason string) {
	r.fail(key, reason, nil)
}

func (r *OptionReader) fail(key, reason string, cause error) {
	if r.err != nil {
		return
	}
	r.err = &OptionError{
		Backend: r.backend,
		Option:  key,
		Value:   r.opts[key],
		Reason:  reason,
		Err:     cause,
	}
}

func (r *OptionReader) lookup(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.opts[key]
	return v, ok && v != ""
}

// String returns the value of key, or def when unset or empty.
func (r *OptionReader) String(key, def string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return def
}

// Required returns the value of key and fails when it is unset or empty.
func (r *OptionReader) Required(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		r.Fail(key, "is required")
	}
	return v
}

// Path is Required with a leading ~/ expanded to the home directory.
func (r *OptionReader) Path(key string) string {
	p := r.Required(key)
	if p == "" {
		return ""
	}
	return expandPath(p)
}

// Bool accepts true/false, 1/0 and yes/no, case-insensitively.
func (r *OptionReader) Bool(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	r.Fail(key, "must be a boolean (true/false, 1/0, yes/no)")
	return def
}

// Int returns key as an integer.
func (r *OptionReader) Int(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, "must be an integer", err)
		return def
	}
	return i
}

// Duration accepts Go duration strings ("5s", "1m30s") or integer seconds.
func (r *OptionReader) Duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	r.Fail(key, "must be a duration such as 5s or integer seconds")
	return def
}

func expandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
		return path
	}
	return filepath.Clean(path)
}
