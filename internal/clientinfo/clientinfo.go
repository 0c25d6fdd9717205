// Package clientinfo parses the Store-Client header sent by the mini-app
// and compares Telegram WebApp versions.
//
// Header format (RFC 8941 Dictionary):
//
//	Store-Client: platform="ios";version="7.2"
//
// The header is advisory: the server logs it and uses the version as a
// backstop for the client-side invoice capability check. A missing header
// is not an error — older app builds never send one.
package clientinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"
	"golang.org/x/mod/semver"
)

// Header is the HTTP header name carrying client runtime info.
const Header = "Store-Client"

// MinInvoiceVersion is the oldest Telegram WebApp version supporting the
// openInvoice flow.
const MinInvoiceVersion = "6.1"

// Info describes the client runtime.
type Info struct {
	Platform string
	Version  string
}

// Parse extracts client info from a Store-Client header value.
// Returns an error if the header is present but malformed.
func Parse(header string) (Info, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Info{}, errors.New("empty Store-Client header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return Info{}, fmt.Errorf("invalid Store-Client header: %w", err)
	}

	info := Info{
		Platform: dictString(dict, "platform"),
		Version:  dictString(dict, "version"),
	}
	if info.Platform == "" && info.Version == "" {
		return Info{}, errors.New("Store-Client header carries no known keys")
	}
	return info, nil
}

// dictString returns the string value for a dictionary key, "" if absent or
// not a string.
func dictString(dict *httpsfv.Dictionary, key string) string {
	member, ok := dict.Get(key)
	if !ok {
		return ""
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return ""
	}
	s, _ := item.Value.(string)
	return s
}

// SupportsInvoices reports whether the runtime version supports the
// invoice-opening capability. Unknown versions report false: the caller
// surfaces an upgrade-required error rather than guessing.
func (i Info) SupportsInvoices() bool {
	return AtLeast(i.Version, MinInvoiceVersion)
}

// AtLeast compares two WebApp versions ("6.1", "7.2.1"). Versions are
// canonicalized to semver before comparison; an unparseable version
// compares as older.
func AtLeast(version, minimum string) bool {
	v := canonical(version)
	m := canonical(minimum)
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return false
	}
	return semver.Compare(v, m) >= 0
}

// canonical converts a WebApp version to a semver string ("6.1" → "v6.1").
func canonical(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}
