// Package schema loads the item-definition registry (numeric defindex to
// item metadata) used to attribute weapon kills/hurts to a logical weapon
// name. The registry is built once at process start, handed out by
// reference, and never mutated afterward.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Item is a single schema entry, fully resolved (prefab inheritance already
// merged — see Registry.resolve).
type Item struct {
	Defindex   int
	Name       string
	LogName    string
	Class      string
	Slot       string
	Quality    string
	MinILevel  int
	MaxILevel  int
	Attributes map[string]Attribute
	Prefabs    []string
}

// Attribute is a schema attribute value: exactly one of Float/String is set.
// The schema JSON encodes both numeric and string-valued attributes under
// the same key space (e.g. "set_charge_type" is numeric, "attach particle
// effect" can be either), so callers pick the accessor that matches what
// they expect and get an explicit ok bool rather than a zero-value guess.
type Attribute struct {
	Float    float64
	String   string
	IsString bool
}

// rawItem mirrors the on-disk/upstream JSON shape before prefab resolution.
type rawItem struct {
	Defindex   int                    `json:"defindex"`
	Name       string                 `json:"name"`
	LogName    string                 `json:"item_logname"`
	Class      string                 `json:"item_class"`
	Slot       string                 `json:"item_slot"`
	Quality    string                 `json:"item_quality"`
	MinILevel  int                    `json:"min_ilevel"`
	MaxILevel  int                    `json:"max_ilevel"`
	Prefab     string                 `json:"prefab"` // space-separated prefab tags
	Attributes map[string]rawAttrJSON `json:"attributes"`
}

type rawAttrJSON struct {
	Value any `json:"value"`
}

// document is the top-level shape of the schema JSON, keyed by the Steam Web
// API's "result.items" envelope.
type document struct {
	Result struct {
		Items []rawItem `json:"items"`
	} `json:"result"`
}

// Registry is an immutable, process-wide defindex → Item lookup table.
// Safe for concurrent reads from multiple analyzer instances.
type Registry struct {
	items map[int]Item
}

// Get returns the resolved item for defindex, or (Item{}, false) if the
// schema has no entry for it. Callers never panic on an unknown defindex.
func (r *Registry) Get(defindex int) (Item, bool) {
	if r == nil {
		return Item{}, false
	}
	item, ok := r.items[defindex]
	return item, ok
}

// Len returns the number of resolved items in the registry.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// LoadFile parses a schema JSON document from path and resolves prefab
// inheritance eagerly, returning a read-only Registry.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return parseDocument(data)
}

// FetchClient fetches the schema document from an upstream HTTP endpoint.
// It uses an explicit timeout and wraps errors with context rather than
// using the bare http.DefaultClient.
type FetchClient struct {
	httpClient *http.Client
	apiKey     string
}

// NewFetchClient returns a client authenticated with apiKey (the Steam Web
// API key, STEAM_API_KEY) and a conservative request timeout.
func NewFetchClient(apiKey string) *FetchClient {
	return &FetchClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the current item schema and returns a resolved Registry.
func (c *FetchClient) Fetch(endpoint string) (*Registry, error) {
	u := endpoint
	if u == "" {
		u = "https://api.steampowered.com/IEconItems_440/GetSchemaItems/v1?key=" + c.apiKey
	}
	resp, err := c.httpClient.Get(u) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("schema: fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("schema: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("schema: HTTP %d: %s", resp.StatusCode, snippet)
	}
	return parseDocument(body)
}

// FetchAndSave fetches the schema and writes the raw JSON to path, so a
// subsequent process can LoadFile it without network access.
func (c *FetchClient) FetchAndSave(endpoint, path string) (*Registry, error) {
	u := endpoint
	if u == "" {
		u = "https://api.steampowered.com/IEconItems_440/GetSchemaItems/v1?key=" + c.apiKey
	}
	resp, err := c.httpClient.Get(u) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("schema: fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("schema: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("schema: HTTP %d", resp.StatusCode)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, fmt.Errorf("schema: write %s: %w", path, err)
	}
	return parseDocument(body)
}

func parseDocument(data []byte) (*Registry, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode json: %w", err)
	}

	raw := make(map[int]rawItem, len(doc.Result.Items))
	for _, it := range doc.Result.Items {
		raw[it.Defindex] = it
	}

	resolved := make(map[int]Item, len(raw))
	for idx := range raw {
		resolved[idx] = resolveItem(raw, idx, make(map[int]bool))
	}
	return &Registry{items: resolved}, nil
}

// resolveItem merges prefab definitions left-to-right (later prefab tags
// override earlier ones), then overlays the item's own fields on top.
// visiting
// guards against a malformed schema with a prefab cycle.
func resolveItem(raw map[int]rawItem, defindex int, visiting map[int]bool) Item {
	item := raw[defindex]
	result := Item{
		Defindex:   item.Defindex,
		Attributes: make(map[string]Attribute),
	}

	if visiting[defindex] {
		return result
	}
	visiting[defindex] = true

	for _, tag := range splitPrefabTags(item.Prefab) {
		prefabDefindex, ok := prefabByTag(raw, tag)
		if !ok {
			continue
		}
		base := resolveItem(raw, prefabDefindex, visiting)
		mergeInto(&result, base)
	}

	overlay := Item{
		Defindex:   item.Defindex,
		Name:       item.Name,
		LogName:    item.LogName,
		Class:      item.Class,
		Slot:       item.Slot,
		Quality:    item.Quality,
		MinILevel:  item.MinILevel,
		MaxILevel:  item.MaxILevel,
		Attributes: convertAttributes(item.Attributes),
	}
	mergeInto(&result, overlay)
	result.Defindex = item.Defindex
	return result
}

// mergeInto applies src on top of dst using the scalar "right side wins if
// present" / vector "list-append" rule.
func mergeInto(dst *Item, src Item) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.LogName != "" {
		dst.LogName = src.LogName
	}
	if src.Class != "" {
		dst.Class = src.Class
	}
	if src.Slot != "" {
		dst.Slot = src.Slot
	}
	if src.Quality != "" {
		dst.Quality = src.Quality
	}
	if src.MinILevel != 0 {
		dst.MinILevel = src.MinILevel
	}
	if src.MaxILevel != 0 {
		dst.MaxILevel = src.MaxILevel
	}
	for k, v := range src.Attributes {
		dst.Attributes[k] = v
	}
	dst.Prefabs = append(dst.Prefabs, src.Prefabs...)
}

func convertAttributes(raw map[string]rawAttrJSON) map[string]Attribute {
	out := make(map[string]Attribute, len(raw))
	for name, v := range raw {
		switch val := v.Value.(type) {
		case string:
			out[name] = Attribute{String: val, IsString: true}
		case float64:
			out[name] = Attribute{Float: val}
		}
	}
	return out
}

func splitPrefabTags(prefab string) []string {
	var tags []string
	start := 0
	for i := 0; i <= len(prefab); i++ {
		if i == len(prefab) || prefab[i] == ' ' {
			if i > start {
				tags = append(tags, prefab[start:i])
			}
			start = i + 1
		}
	}
	return tags
}

// prefabByTag finds the defindex of the raw item acting as a named prefab.
// The schema encodes prefabs as ordinary items whose "name" equals the tag.
func prefabByTag(raw map[int]rawItem, tag string) (int, bool) {
	for idx, it := range raw {
		if it.Name == tag {
			return idx, true
		}
	}
	return 0, false
}

// AttrFloat returns the float value of attribute name on item, and whether
// it was present as a numeric attribute.
func (it Item) AttrFloat(name string) (float64, bool) {
	a, ok := it.Attributes[name]
	if !ok || a.IsString {
		return 0, false
	}
	return a.Float, true
}

// AttrString returns the string value of attribute name on item, and
// whether it was present as a string attribute.
func (it Item) AttrString(name string) (string, bool) {
	a, ok := it.Attributes[name]
	if !ok || !a.IsString {
		return "", false
	}
	return a.String, true
}
