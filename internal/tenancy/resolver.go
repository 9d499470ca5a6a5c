// Package tenancy maps an inbound host name to the tenant it addresses.
package tenancy

import (
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

// Headers set by the edge and trusted by route handlers.
const (
	HeaderTenantID     = "x-tenant-id"
	HeaderSubdomain    = "x-subdomain"
	HeaderIsMainDomain = "x-is-main-domain"
)

var DefaultMainAliases = []string{"www", "admin", "app"}

var loopbackMarkers = []string{"localhost", "127.0.0.1"}

// Info is the outcome of tenant detection for one request.
type Info struct {
	TenantID     string
	Subdomain    string
	IsMainDomain bool
}

// MainDomain is returned for every host that does not address a tenant.
var MainDomain = Info{IsMainDomain: true}

type Resolver struct {
	mainAliases []string
}

func NewResolver(mainAliases []string) *Resolver {
	if len(mainAliases) == 0 {
		mainAliases = DefaultMainAliases
	}
	return &Resolver{mainAliases: mainAliases}
}

// Resolve uses the default main-site aliases.
func Resolve(host string) Info {
	return NewResolver(nil).Resolve(host)
}

// Resolve is pure: the tenant id is the first host label, so distinct
// subdomains always yield distinct tenants. Hosts it cannot read map to the
// main domain.
func (r *Resolver) Resolve(host string) Info {
	host = normalizeHost(host)
	if host == "" {
		return MainDomain
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if label == "" {
			return MainDomain
		}
	}

	if isLoopback(host) {
		if len(labels) < 2 || net.ParseIP(host) != nil {
			return MainDomain
		}
		return r.fromLabel(labels[0], "localhost")
	}

	if len(labels) < 3 || net.ParseIP(host) != nil {
		return MainDomain
	}
	return r.fromLabel(labels[0])
}

func (r *Resolver) fromLabel(label string, extraAliases ...string) Info {
	if slices.Contains(r.mainAliases, label) || slices.Contains(extraAliases, label) {
		return MainDomain
	}
	if !domain.IsValidSubdomain(label) {
		return MainDomain
	}
	return Info{TenantID: label, Subdomain: label}
}

// Apply overwrites the edge headers so a client cannot choose its tenant.
func (i Info) Apply(h http.Header) {
	h.Set(HeaderTenantID, i.TenantID)
	h.Set(HeaderSubdomain, i.Subdomain)
	h.Set(HeaderIsMainDomain, strconv.FormatBool(i.IsMainDomain))
}

// FromHeaders reads the edge contract back. Missing headers mean main domain.
func FromHeaders(h http.Header) Info {
	tenantID := strings.TrimSpace(h.Get(HeaderTenantID))
	isMain, err := strconv.ParseBool(h.Get(HeaderIsMainDomain))
	if err != nil {
		isMain = tenantID == ""
	}
	if isMain || tenantID == "" {
		return MainDomain
	}
	subdomain := strings.TrimSpace(h.Get(HeaderSubdomain))
	if subdomain == "" {
		subdomain = tenantID
	}
	return Info{TenantID: tenantID, Subdomain: subdomain}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

func isLoopback(host string) bool {
	for _, marker := range loopbackMarkers {
		if host == marker || strings.HasSuffix(host, "."+marker) {
			return true
		}
	}
	return false
}
