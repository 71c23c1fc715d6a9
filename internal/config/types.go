package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Duration is a time.Duration that koanf can decode from YAML or env text.
// A bare integer is read as seconds, so PORT-style env values like "30" work.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	var parsed time.Duration
	if secs, err := strconv.Atoi(s); err == nil {
		parsed = time.Duration(secs) * time.Second
	} else {
		parsed, err = time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", s)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Duration converts d back to a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

const redacted = "[REDACTED]"

// Secret is a credential (GitHub token, generator API key). Every
// formatting and encoding path prints a placeholder; only Value exposes it.
type Secret string

// String returns the placeholder, or "" when unset.
func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return redacted
}

// GoString keeps %#v from dumping the value.
func (s Secret) GoString() string { return "Secret(" + redacted + ")" }

// Value returns the raw credential.
func (s Secret) Value() string { return string(s) }

// IsSet reports whether s holds a credential.
func (s Secret) IsSet() bool { return s != "" }

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText stores the raw text as the credential.
func (s *Secret) UnmarshalText(text []byte) error {
	*s = Secret(text)
	return nil
}
