package agronomy

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DatasetAverageYield is the mean yield (kg/ha) of the training dataset the
	// upstream regressor was fitted on. Crop baselines are expressed relative to it.
	DatasetAverageYield = 1645.0

	// DefaultCapYield clamps adjusted yields for crops without a cap of their own.
	DefaultCapYield = 10000.0
)

var (
	// DefaultTemperatureRange applies to crops without an optimal temperature window.
	DefaultTemperatureRange = Range{Min: 20, Max: 30}

	// DefaultNPK is the fertilizer target for crops without a recommendation.
	DefaultNPK = NPK{N: 100, P: 50, K: 50}
)

// Catalog is an immutable set of crop profiles keyed by normalized crop name.
// It is built once at startup and shared read-only between requests.
type Catalog struct {
	profiles map[string]CropProfile
}

// NewCatalog builds a catalog from the given profiles. Later entries with the
// same normalized name replace earlier ones.
func NewCatalog(profiles []CropProfile) *Catalog {
	c := &Catalog{profiles: make(map[string]CropProfile, len(profiles))}
	for _, p := range profiles {
		key := NormalizeCropName(p.Name)
		if key == "" {
			continue
		}
		p.Name = DisplayCropName(p.Name)
		p.Known = true
		c.profiles[key] = p
	}
	return c
}

// Merge returns a new catalog where the overrides replace or extend the
// receiver's entries field by field. The receiver is left untouched.
func (c *Catalog) Merge(overrides []CropProfile) *Catalog {
	merged := make([]CropProfile, 0, len(c.profiles)+len(overrides))
	byKey := make(map[string]int, len(c.profiles))
	for _, p := range c.Profiles() {
		byKey[NormalizeCropName(p.Name)] = len(merged)
		merged = append(merged, p)
	}
	for _, o := range overrides {
		key := NormalizeCropName(o.Name)
		if key == "" {
			continue
		}
		idx, ok := byKey[key]
		if !ok {
			byKey[key] = len(merged)
			merged = append(merged, o)
			continue
		}
		base := merged[idx]
		if o.BaselineYield > 0 {
			base.BaselineYield = o.BaselineYield
		}
		if o.CapYield > 0 {
			base.CapYield = o.CapYield
		}
		if o.Temperature != nil {
			base.Temperature = o.Temperature
		}
		if o.PH != nil {
			base.PH = o.PH
		}
		if o.Rainfall != nil {
			base.Rainfall = o.Rainfall
		}
		if o.NPK != nil {
			base.NPK = o.NPK
		}
		merged[idx] = base
	}
	return NewCatalog(merged)
}

// Lookup returns the raw catalog entry for name, without defaults applied.
func (c *Catalog) Lookup(name string) (CropProfile, bool) {
	p, ok := c.profiles[NormalizeCropName(name)]
	return p, ok
}

// Resolve returns the profile for name with every documented default filled
// in. Unknown crops resolve to a synthetic profile with Known=false.
func (c *Catalog) Resolve(name string) CropProfile {
	p, ok := c.Lookup(name)
	if !ok {
		p = CropProfile{Name: DisplayCropName(name)}
	}
	if p.BaselineYield <= 0 {
		p.BaselineYield = DatasetAverageYield
	}
	if p.CapYield <= 0 {
		p.CapYield = DefaultCapYield
	}
	if p.Temperature == nil {
		r := DefaultTemperatureRange
		p.Temperature = &r
	}
	if p.NPK == nil {
		n := DefaultNPK
		p.NPK = &n
	}
	return p
}

// Profiles returns all catalog entries sorted by name.
func (c *Catalog) Profiles() []CropProfile {
	out := make([]CropProfile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of crops in the catalog.
func (c *Catalog) Len() int {
	return len(c.profiles)
}

// NormalizeCropName is the single lookup key used by every stage: trimmed,
// lower-cased, inner whitespace collapsed.
func NormalizeCropName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DisplayCropName renders a crop name in title case ("pigeon pea" -> "Pigeon Pea").
// A Caser is stateful, so each call gets its own.
func DisplayCropName(name string) string {
	return cases.Title(language.English).String(NormalizeCropName(name))
}

func rng(lo, hi float64) *Range { return &Range{Min: lo, Max: hi} }

func npk(n, p, k float64) *NPK { return &NPK{N: n, P: p, K: k} }

// DefaultCatalog returns the built-in crop catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog([]CropProfile{
		{Name: "Rice", BaselineYield: 4000, CapYield: 9000, Temperature: rng(20, 35), PH: rng(5.0, 7.0), Rainfall: rng(1000, 2000), NPK: npk(150, 60, 40)},
		{Name: "Wheat", BaselineYield: 3500, CapYield: 8000, Temperature: rng(10, 30), PH: rng(6.0, 7.5), Rainfall: rng(300, 900), NPK: npk(120, 60, 40)},
		{Name: "Maize", BaselineYield: 5000, CapYield: 8500, Temperature: rng(18, 32), PH: rng(5.5, 7.5), Rainfall: rng(500, 800), NPK: npk(150, 75, 40)},
		{Name: "Cotton", BaselineYield: 2500, CapYield: 6000, Temperature: rng(20, 35), PH: rng(5.5, 7.5), Rainfall: rng(500, 1200), NPK: npk(100, 50, 50)},
		{Name: "Soybean", BaselineYield: 2800, CapYield: 5000, Temperature: rng(18, 32), PH: rng(5.5, 7.5), Rainfall: rng(700, 1000), NPK: npk(20, 60, 40)},
		{Name: "Potato", Temperature: rng(15, 25), PH: rng(5.0, 6.5), Rainfall: rng(500, 700), NPK: npk(180, 60, 100)},
		{Name: "Tomato", NPK: npk(150, 75, 75)},
		{Name: "Onion", NPK: npk(100, 50, 50)},
		{Name: "Banana", NPK: npk(200, 60, 200)},
		{Name: "Groundnut", Temperature: rng(20, 30), PH: rng(5.5, 7.0), Rainfall: rng(500, 1000), NPK: npk(25, 50, 75)},
		{Name: "Sugarcane", Temperature: rng(20, 38), PH: rng(6.0, 8.0), Rainfall: rng(1200, 1500), NPK: npk(250, 115, 115)},
		{Name: "Sorghum", Temperature: rng(25, 35), PH: rng(5.5, 7.5), Rainfall: rng(400, 800), NPK: npk(100, 50, 40)},
		{Name: "Millet", Temperature: rng(25, 35), PH: rng(5.0, 7.5), Rainfall: rng(300, 500), NPK: npk(80, 40, 40)},
		{Name: "Pigeon Pea", Temperature: rng(18, 30), PH: rng(5.0, 7.0), Rainfall: rng(600, 1000), NPK: npk(20, 60, 40)},
		{Name: "Chickpea", Temperature: rng(10, 30), PH: rng(6.0, 7.5), Rainfall: rng(400, 600), NPK: npk(20, 50, 40)},
		{Name: "Mustard", Temperature: rng(10, 25), PH: rng(6.0, 7.5), Rainfall: rng(350, 550), NPK: npk(120, 60, 40)},
		{Name: "Lentil", Temperature: rng(10, 25), PH: rng(6.0, 7.5), Rainfall: rng(300, 450), NPK: npk(20, 40, 30)},
		{Name: "Barley", Temperature: rng(12, 25), PH: rng(6.0, 7.5), Rainfall: rng(300, 500), NPK: npk(80, 40, 40)},
	})
}
