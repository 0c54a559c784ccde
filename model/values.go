package model

import (
	"fmt"
	"net/url"

	"github.com/Masterminds/semver/v3"

	"wireskip.dev/core/envelope"
)

// Version is a strictly parsed semantic version ("1.2.3", no "v" prefix,
// no missing components).
type Version struct {
	v *semver.Version
}

// ParseVersion parses s as a strict semantic version.
func ParseVersion(s string) (Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, envelope.WrapError(envelope.KindFormat, "REC-VER-001",
			fmt.Sprintf("invalid semantic version %q", s), err)
	}
	return Version{v: v}, nil
}

// Semver returns the underlying version, or 0.0.0 for the zero Version.
func (v Version) Semver() *semver.Version {
	if v.v == nil {
		return semver.New(0, 0, 0, "", "")
	}
	return v.v
}

func (v Version) String() string { return v.Semver().String() }

func (v Version) Equal(o Version) bool { return v.Semver().Equal(o.Semver()) }

func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// URL is an absolute URL.
type URL struct {
	u *url.URL
}

// ParseURL parses s and requires it to carry a scheme.
func ParseURL(s string) (URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URL{}, envelope.WrapError(envelope.KindFormat, "REC-URL-001", "invalid URL", err)
	}
	if !u.IsAbs() {
		return URL{}, envelope.NewError(envelope.KindFormat, "REC-URL-002", fmt.Sprintf("URL %q is not absolute", s))
	}
	return URL{u: u}, nil
}

// URL returns a copy of the parsed URL.
func (u URL) URL() *url.URL {
	if u.u == nil {
		return &url.URL{}
	}
	cp := *u.u
	return &cp
}

func (u URL) String() string {
	if u.u == nil {
		return ""
	}
	return u.u.String()
}

func (u URL) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *URL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
