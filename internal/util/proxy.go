// Package util holds shared outbound-HTTP helpers.
package util

import (
	"net/http"
	"net/url"
	"strings"

	"sectorbrief/internal/model"
)

// ProxyFunc builds the proxy resolver for outbound clients from the shared
// HTTP settings. Without explicit proxy URLs it defers to the environment;
// hosts matched by NoProxy connect directly.
func ProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if noProxyMatch(cfg.NoProxy, req.URL.Hostname()) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && cfg.HTTPSProxy != "" {
			return url.Parse(cfg.HTTPSProxy)
		}
		if cfg.HTTPProxy != "" {
			return url.Parse(cfg.HTTPProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// noProxyMatch reports whether host is covered by a comma-separated NoProxy
// list. Entries match exactly or as a domain suffix; "*" matches everything.
func noProxyMatch(noProxy, host string) bool {
	if noProxy == "" || host == "" {
		return false
	}
	host = strings.ToLower(host)
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if entry == "*" || host == entry {
			return true
		}
		if strings.HasSuffix(host, "."+strings.TrimPrefix(entry, ".")) {
			return true
		}
	}
	return false
}
