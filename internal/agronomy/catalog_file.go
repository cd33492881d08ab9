package agronomy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedCatalogFormat is returned for catalog files that are not YAML, CSV or XLSX.
var ErrUnsupportedCatalogFormat = errors.New("unsupported catalog file format")

// ErrInvalidCatalogEntry is returned for crop profiles with impossible values.
var ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

// catalogColumns is the tabular layout shared by the CSV and XLSX formats.
var catalogColumns = []string{
	"crop", "baseline_yield", "cap_yield",
	"temp_min", "temp_max", "ph_min", "ph_max", "rain_min", "rain_max",
	"n", "p", "k",
}

type catalogDocument struct {
	Crops []CropProfile `yaml:"crops"`
}

// LoadCatalog returns DefaultCatalog merged with the overrides in path.
// An empty path returns DefaultCatalog unchanged.
func LoadCatalog(path string) (*Catalog, error) {
	base := DefaultCatalog()
	if path == "" {
		return base, nil
	}
	overrides, err := ReadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	return base.Merge(overrides), nil
}

// ReadCatalogFile parses crop profiles from a .yaml/.yml, .csv or .xlsx file.
func ReadCatalogFile(path string) ([]CropProfile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		var doc catalogDocument
		if err := yaml.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		for i, p := range doc.Crops {
			if err := checkProfile(p); err != nil {
				return nil, fmt.Errorf("catalog entry %d (%s): %w", i+1, p.Name, err)
			}
		}
		return doc.Crops, nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return readCatalogCSV(f)
	case ".xlsx":
		x, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer x.Close()
		sheets := x.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("catalog workbook %s has no sheets", path)
		}
		rows, err := x.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read catalog sheet: %w", err)
		}
		return parseCatalogRows(rows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCatalogFormat, path)
	}
}

func readCatalogCSV(r io.Reader) ([]CropProfile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse catalog csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return parseCatalogRows(rows)
}

// parseCatalogRows maps a header row plus data rows onto profiles. Header
// names are matched loosely; blank cells leave a field unset.
func parseCatalogRows(rows [][]string) ([]CropProfile, error) {
	if len(rows) == 0 {
		return nil, errors.New("catalog has no header row")
	}

	norm := func(s string) string {
		s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
		s = strings.ToLower(s)
		return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	}
	index := map[string]int{}
	for i, h := range rows[0] {
		index[norm(h)] = i
	}
	col := func(aliases ...string) int {
		for _, a := range aliases {
			if i, ok := index[norm(a)]; ok {
				return i
			}
		}
		return -1
	}

	cName := col("crop", "name", "crop_name")
	if cName == -1 {
		return nil, fmt.Errorf("catalog missing crop column; found headers %v", rows[0])
	}
	cBase := col("baseline_yield", "baseline")
	cCap := col("cap_yield", "cap")
	cTMin, cTMax := col("temp_min"), col("temp_max")
	cPHMin, cPHMax := col("ph_min"), col("ph_max")
	cRMin, cRMax := col("rain_min", "rainfall_min"), col("rain_max", "rainfall_max")
	cN, cP, cK := col("n", "nitrogen"), col("p", "phosphorus"), col("k", "potassium")

	var out []CropProfile
	for line, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		num := func(idx int) (float64, bool, error) {
			v := get(idx)
			if v == "" {
				return 0, false, nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return 0, false, fmt.Errorf("catalog row %d: %q is not a number", line+2, v)
			}
			return f, true, nil
		}
		pair := func(lo, hi int) (*Range, error) {
			a, okA, err := num(lo)
			if err != nil {
				return nil, err
			}
			b, okB, err := num(hi)
			if err != nil {
				return nil, err
			}
			if !okA || !okB {
				return nil, nil
			}
			return &Range{Min: a, Max: b}, nil
		}

		name := get(cName)
		if name == "" {
			continue
		}
		p := CropProfile{Name: name}
		var err error
		if p.BaselineYield, _, err = num(cBase); err != nil {
			return nil, err
		}
		if p.CapYield, _, err = num(cCap); err != nil {
			return nil, err
		}
		if p.Temperature, err = pair(cTMin, cTMax); err != nil {
			return nil, err
		}
		if p.PH, err = pair(cPHMin, cPHMax); err != nil {
			return nil, err
		}
		if p.Rainfall, err = pair(cRMin, cRMax); err != nil {
			return nil, err
		}
		n, okN, err := num(cN)
		if err != nil {
			return nil, err
		}
		pv, okP, err := num(cP)
		if err != nil {
			return nil, err
		}
		k, okK, err := num(cK)
		if err != nil {
			return nil, err
		}
		if okN && okP && okK {
			p.NPK = &NPK{N: n, P: pv, K: k}
		}
		if err := checkProfile(p); err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", line+2, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// checkProfile rejects values that would make the stress model meaningless.
// Unset fields are not checked.
func checkProfile(p CropProfile) error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidCatalogEntry, p.Name, fmt.Sprintf(format, args...))
	}
	if p.BaselineYield < 0 {
		return invalid("baseline_yield %g is negative", p.BaselineYield)
	}
	if p.CapYield < 0 {
		return invalid("cap_yield %g is negative", p.CapYield)
	}
	for _, r := range []struct {
		name string
		rng  *Range
	}{
		{"temp", p.Temperature},
		{"ph", p.PH},
		{"rain", p.Rainfall},
	} {
		if r.rng != nil && r.rng.Min > r.rng.Max {
			return invalid("%s_min %g is above %s_max %g", r.name, r.rng.Min, r.name, r.rng.Max)
		}
	}
	if p.PH != nil && (p.PH.Min < 0 || p.PH.Max > 14) {
		return invalid("ph range %g-%g is outside 0-14", p.PH.Min, p.PH.Max)
	}
	if p.Rainfall != nil && p.Rainfall.Min <= 0 {
		return invalid("rain_min must be positive, got %g", p.Rainfall.Min)
	}
	if p.NPK != nil && (p.NPK.N < 0 || p.NPK.P < 0 || p.NPK.K < 0) {
		return invalid("n/p/k must not be negative")
	}
	return nil
}

// WriteCatalogXLSX writes the catalog in the tabular layout ReadCatalogFile accepts.
func WriteCatalogXLSX(w io.Writer, c *Catalog) error {
	x := excelize.NewFile()
	defer x.Close()

	const sheet = "Sheet1"
	header := make([]interface{}, len(catalogColumns))
	for i, h := range catalogColumns {
		header[i] = h
	}
	if err := x.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write catalog header: %w", err)
	}

	for i, p := range c.Profiles() {
		row := make([]interface{}, len(catalogColumns))
		for j := range row {
			row[j] = ""
		}
		row[0] = p.Name
		if p.BaselineYield > 0 {
			row[1] = p.BaselineYield
		}
		if p.CapYield > 0 {
			row[2] = p.CapYield
		}
		if p.Temperature != nil {
			row[3], row[4] = p.Temperature.Min, p.Temperature.Max
		}
		if p.PH != nil {
			row[5], row[6] = p.PH.Min, p.PH.Max
		}
		if p.Rainfall != nil {
			row[7], row[8] = p.Rainfall.Min, p.Rainfall.Max
		}
		if p.NPK != nil {
			row[9], row[10], row[11] = p.NPK.N, p.NPK.P, p.NPK.K
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write catalog row %s: %w", p.Name, err)
		}
	}

	if err := x.Write(w); err != nil {
		return fmt.Errorf("write catalog workbook: %w", err)
	}
	return nil
}
