package classifier

import (
	"net/url"
	"strings"

	"github.com/berrythewa/clipsense/internal/types"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ftp":   "21",
}

// parseURLParts returns nil when text is not an absolute URL with a host
func parseURLParts(text string) *types.URLParts {
	u, err := url.Parse(text)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		host += ":" + port
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return &types.URLParts{
		Protocol:    scheme,
		Host:        host,
		Path:        path,
		QueryParams: queryPairs(u.RawQuery),
	}
}

// queryPairs decodes a raw query keeping the original pair order, which
// url.Values would lose.
func queryPairs(raw string) []types.QueryPair {
	pairs := []types.QueryPair{}
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		pairs = append(pairs, types.QueryPair{Key: key, Value: value})
	}
	return pairs
}
