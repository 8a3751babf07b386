package search

import (
	"net"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams are query parameters that identify a campaign or click, not a listing
var trackingParams = map[string]struct{}{
	"gclid":     {},
	"fbclid":    {},
	"msclkid":   {},
	"yclid":     {},
	"dclid":     {},
	"mc_cid":    {},
	"mc_eid":    {},
	"spm":       {},
	"scm":       {},
	"ref":       {},
	"ref_":      {},
	"_trkparms": {},
	"_trksid":   {},
	"hash":      {},
	"campid":    {},
	"customid":  {},
	"toolid":    {},
	"mkevt":     {},
	"mkcid":     {},
	"mkrid":     {},
}

func isTrackingParam(name string) bool {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "utm_") {
		return true
	}
	_, ok := trackingParams[name]
	return ok
}

// CanonicalURL returns the dedup key for a listing URL.
// The key ignores scheme, "www.", default ports, fragments, trailing slashes and
// tracking parameters, and sorts the remaining query. ok is false when the URL
// has no usable host.
func CanonicalURL(raw string) (key string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		host = net.JoinHostPort(host, port)
	}

	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	p = path.Clean(p)
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}

	query := u.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		if isTrackingParam(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(host)
	b.WriteString(p)
	sep := byte('?')
	for _, k := range keys {
		values := query[k]
		sort.Strings(values)
		for _, v := range values {
			b.WriteByte(sep)
			sep = '&'
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String(), true
}
