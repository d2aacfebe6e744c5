package normalize

import (
	"net"
	"net/netip"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// fixedParents are always allowed to embed the player: loopback names and
// the sandbox/preview hosts the UI is commonly served from.
var fixedParents = []string{ //nolint:gochecknoglobals // read-only allow-list
	"localhost",
	"127.0.0.1",
	"bolt.new",
	"stackblitz.com",
	"stackblitz.io",
	"webcontainer.io",
	"codesandbox.io",
	"replit.com",
	"netlify.app",
	"vercel.app",
}

// FixedParentDomains returns a copy of the unconditional allow-list.
func FixedParentDomains() []string {
	return append([]string(nil), fixedParents...)
}

// RegistrableDomainFunc derives the registrable domain of host. ok is false
// when host has none distinct from itself.
type RegistrableDomainFunc func(host string) (domain string, ok bool)

// HeuristicRegistrableDomain returns the last two labels of host when it has
// more than two and is not an IPv4 literal. This approximates the
// registrable domain and is wrong for multi-label public suffixes such as
// co.uk; PublicSuffixRegistrableDomain handles those.
func HeuristicRegistrableDomain(host string) (string, bool) {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 || isIPv4(host) {
		return "", false
	}
	return strings.Join(labels[len(labels)-2:], "."), true
}

// PublicSuffixRegistrableDomain resolves eTLD+1 with the public suffix list.
func PublicSuffixRegistrableDomain(host string) (string, bool) {
	if isIPv4(host) || !strings.Contains(host, ".") {
		return "", false
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil || d == host {
		return "", false
	}
	return d, true
}

// ParentDomains builds the embed allow-list: the hostname, its registrable
// domain, the fixed list and any extras. Entries are unique; first
// occurrence wins the position.
func ParentDomains(hostname string, registrable RegistrableDomainFunc, extra ...string) []string {
	out := make([]string, 0, len(fixedParents)+len(extra)+2)
	seen := make(map[string]struct{}, cap(out))
	add := func(d string) {
		d = cleanHost(d)
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	if host := cleanHost(hostname); host != "" {
		add(host)
		if registrable == nil {
			registrable = HeuristicRegistrableDomain
		}
		if root, ok := registrable(host); ok {
			add(root)
		}
	}
	for _, d := range fixedParents {
		add(d)
	}
	for _, d := range extra {
		add(d)
	}
	return out
}

// cleanHost lower-cases h and strips a port and trailing dot.
func cleanHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	return strings.TrimSuffix(h, ".")
}

func isIPv4(host string) bool {
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Is4()
}
