// Package assets classifies URLs against the fixed set of Webflow-operated
// hosts and maps platform assets to their local on-disk paths.
package assets

import (
	"net/url"
	"strings"
)

// Category buckets every exported file by the folder it lands in.
type Category string

// Categories recognized by the exporter. HTML is special-cased: pages mirror
// the URL path instead of sharing a flat folder.
const (
	CategoryHTML   Category = "html"
	CategoryCSS    Category = "css"
	CategoryJS     Category = "js"
	CategoryImages Category = "images"
	CategoryMedia  Category = "media"
)

// AssetCategories lists the non-page buckets in manifest order.
var AssetCategories = []Category{CategoryCSS, CategoryJS, CategoryImages, CategoryMedia}

// Hosts that always serve Webflow-managed assets.
var platformHosts = map[string]struct{}{
	"d3e54v103j8qbb.cloudfront.net": {},
}

// Domain suffixes owned by the platform.
var platformHostSuffixes = []string{
	"website-files.com",
	"webflow.io",
	"webflow.com",
}

// Normalize trims whitespace and upgrades protocol-relative URLs to https.
// Everything else passes through untouched.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// IsPlatformAsset reports whether raw points at a Webflow-managed resource.
// Non-http(s) schemes are rejected outright.
func IsPlatformAsset(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Host)
	if _, ok := platformHosts[host]; ok {
		return true
	}
	for _, suffix := range platformHostSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// LocalPath returns the relative path an asset is stored under, built from the
// final URL path segment. The second return is false when the URL has no
// filename; callers skip such assets silently.
func LocalPath(category Category, raw string) (string, bool) {
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return "", false
	}
	name := basename(u.Path)
	if name == "" {
		return "", false
	}
	return string(category) + "/" + name, true
}

// RewriteSrcset rewrites each URL of a srcset-style attribute value to its
// local path when the URL classifies as a platform asset. Entry order and
// descriptor text survive verbatim; URLs without a local mapping keep their
// original text.
func RewriteSrcset(value string, category Category) string {
	if value == "" {
		return value
	}
	var parts []string
	for _, item := range strings.Split(value, ",") {
		piece := strings.TrimSpace(item)
		if piece == "" {
			continue
		}
		urlPart := piece
		descriptor := ""
		if idx := strings.Index(piece, " "); idx >= 0 {
			urlPart = piece[:idx]
			descriptor = strings.TrimSpace(piece[idx+1:])
		}
		normalized := Normalize(urlPart)
		if IsPlatformAsset(normalized) {
			if local, ok := LocalPath(category, normalized); ok {
				urlPart = local
			}
		}
		if descriptor != "" {
			parts = append(parts, urlPart+" "+descriptor)
		} else {
			parts = append(parts, urlPart)
		}
	}
	return strings.Join(parts, ", ")
}

// basename mimics path basename semantics for URL paths: the segment after the
// final slash, which is empty for directory-style paths.
func basename(p string) string {
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// PreloadBucket maps a <link rel="preload" as=...> hint to the category its
// target is stored under. Unknown hints land in images.
func PreloadBucket(as string) Category {
	switch strings.ToLower(as) {
	case "style":
		return CategoryCSS
	case "script":
		return CategoryJS
	case "font", "image":
		return CategoryImages
	default:
		return CategoryImages
	}
}
