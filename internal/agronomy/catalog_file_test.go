package agronomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Profiles(), c.Profiles())
}

func TestLoadCatalog_YAML(t *testing.T) {
	path := writeFile(t, "crops.yaml", `
crops:
  - name: rice
    baseline_yield: 4200
  - name: Quinoa
    baseline_yield: 1800
    cap_yield: 4000
    rainfall: {min: 300, max: 600}
    npk: {n: 80, p: 40, k: 40}
`)
	c, err := LoadCatalog(path)
	require.NoError(t, err)

	rice := c.Resolve("Rice")
	assert.Equal(t, 4200.0, rice.BaselineYield)
	assert.Equal(t, 9000.0, rice.CapYield)

	quinoa := c.Resolve("quinoa")
	assert.True(t, quinoa.Known)
	assert.Equal(t, Range{Min: 300, Max: 600}, *quinoa.Rainfall)
	assert.Equal(t, NPK{N: 80, P: 40, K: 40}, *quinoa.NPK)
	assert.Equal(t, 4000.0, quinoa.CapYield)
}

func TestLoadCatalog_InvalidYAML(t *testing.T) {
	path := writeFile(t, "crops.yml", "crops: [name: {")
	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestReadCatalogFile_CSV(t *testing.T) {
	path := writeFile(t, "crops.csv", "\uFEFFCrop,Baseline Yield,Cap-Yield,Temp_Min,Temp_Max,pH Min,pH Max,Rainfall Min,Rainfall Max,Nitrogen,Phosphorus,Potassium\n"+
		"Quinoa,1800,4000,15,28,6,8.5,300,600,80,40,40\n"+
		"teff,,,,,,,,,60,30,\n"+
		",1,1,,,,,,,,,\n")

	got, err := ReadCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, CropProfile{
		Name:          "Quinoa",
		BaselineYield: 1800,
		CapYield:      4000,
		Temperature:   &Range{Min: 15, Max: 28},
		PH:            &Range{Min: 6, Max: 8.5},
		Rainfall:      &Range{Min: 300, Max: 600},
		NPK:           &NPK{N: 80, P: 40, K: 40},
	}, got[0])

	// Incomplete NPK triples and empty ranges stay unset.
	assert.Equal(t, CropProfile{Name: "teff"}, got[1])
}

func TestReadCatalogFile_CSVErrors(t *testing.T) {
	_, err := ReadCatalogFile(writeFile(t, "a.csv", "variety,yield\nx,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing crop column")

	_, err = ReadCatalogFile(writeFile(t, "b.csv", "crop,baseline_yield\nrice,lots\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"lots" is not a number`)

	_, err = ReadCatalogFile(writeFile(t, "c.csv", ""))
	require.Error(t, err)
}

func TestReadCatalogFile_RejectsImpossibleValues(t *testing.T) {
	const header = "crop,baseline_yield,cap_yield,temp_min,temp_max,ph_min,ph_max,rain_min,rain_max,n,p,k\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"inverted temperature", "Oats,,,30,10,,,,,,,", "temp_min 30 is above temp_max 10"},
		{"inverted rainfall", "Oats,,,,,,,900,300,,,", "rain_min 900 is above rain_max 300"},
		{"zero rain_min", "Oats,,,,,,,0,600,,,", "rain_min must be positive"},
		{"negative cap", "Oats,,-5,,,,,,,,,", "cap_yield -5 is negative"},
		{"negative baseline", "Oats,-1,,,,,,,,,,", "baseline_yield -1 is negative"},
		{"pH above 14", "Oats,,,,,6,15,,,,,", "outside 0-14"},
		{"negative nutrient", "Oats,,,,,,,,,80,-1,40", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "crops.csv", header+"Rice,4000,,,,,,,,,,\n"+tt.row+"\n")
			_, err := ReadCatalogFile(path)
			require.ErrorIs(t, err, ErrInvalidCatalogEntry)
			assert.Contains(t, err.Error(), "catalog row 3")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog_YAMLRejectsInvertedRange(t *testing.T) {
	path := writeFile(t, "crops.yaml", `
crops:
  - name: rice
    ph: {min: 7.5, max: 5.0}
`)
	_, err := LoadCatalog(path)
	require.ErrorIs(t, err, ErrInvalidCatalogEntry)
	assert.Contains(t, err.Error(), "catalog entry 1 (rice)")
}

func TestReadCatalogFile_Unsupported(t *testing.T) {
	_, err := ReadCatalogFile(writeFile(t, "crops.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedCatalogFormat)

	_, err = ReadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWriteCatalogXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteCatalogXLSX(f, DefaultCatalog()))
	require.NoError(t, f.Close())

	profiles, err := ReadCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, DefaultCatalog().Len())

	assert.Equal(t, DefaultCatalog().Profiles(), NewCatalog(profiles).Profiles())
}

func TestReadCatalogFile_ExtensionCaseInsensitive(t *testing.T) {
	path := writeFile(t, "CROPS.CSV", "crop,baseline_yield\nOats,2100\n")
	got, err := ReadCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, strings.EqualFold("oats", got[0].Name))
	assert.Equal(t, 2100.0, got[0].BaselineYield)
}
