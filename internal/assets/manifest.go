package assets

import "sort"

// Manifest is the categorized collection of page and asset URLs discovered by
// one crawl. Slices are lexicographically sorted so downstream output is
// deterministic. It is built once and read-only afterwards.
type Manifest struct {
	HTML   []string `json:"html"`
	CSS    []string `json:"css"`
	JS     []string `json:"js"`
	Images []string `json:"images"`
	Media  []string `json:"media"`
}

// Assets returns the non-page URL sets keyed by category, in the fixed
// download order css, js, images, media.
func (m Manifest) Assets() map[Category][]string {
	return map[Category][]string{
		CategoryCSS:    m.CSS,
		CategoryJS:     m.JS,
		CategoryImages: m.Images,
		CategoryMedia:  m.Media,
	}
}

// ManifestBuilder accumulates discovered URLs, deduplicating per category.
// The zero value is not usable; call NewManifestBuilder.
type ManifestBuilder struct {
	html map[string]struct{}
	sets map[Category]map[string]struct{}
}

// NewManifestBuilder returns an empty builder.
func NewManifestBuilder() *ManifestBuilder {
	sets := make(map[Category]map[string]struct{}, len(AssetCategories))
	for _, cat := range AssetCategories {
		sets[cat] = make(map[string]struct{})
	}
	return &ManifestBuilder{
		html: make(map[string]struct{}),
		sets: sets,
	}
}

// AddPage records a crawled HTML page URL.
func (b *ManifestBuilder) AddPage(url string) {
	b.html[url] = struct{}{}
}

// AddAsset records an asset URL under the given category. Unknown categories
// are ignored.
func (b *ManifestBuilder) AddAsset(category Category, url string) {
	set, ok := b.sets[category]
	if !ok {
		return
	}
	set[url] = struct{}{}
}

// Build freezes the accumulated URLs into a sorted Manifest.
func (b *ManifestBuilder) Build() Manifest {
	return Manifest{
		HTML:   sortedKeys(b.html),
		CSS:    sortedKeys(b.sets[CategoryCSS]),
		JS:     sortedKeys(b.sets[CategoryJS]),
		Images: sortedKeys(b.sets[CategoryImages]),
		Media:  sortedKeys(b.sets[CategoryMedia]),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
