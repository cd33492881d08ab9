package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agripulse/internal/advisory"
	"github.com/i474232898/agripulse/internal/agronomy"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	build := func(catalogPath string) (*advisory.Service, error) {
		catalog, err := agronomy.LoadCatalog(catalogPath)
		if err != nil {
			return nil, err
		}
		return advisory.NewService(advisory.Options{Engine: agronomy.NewEngine(catalog)}), nil
	}
	cmd := RootCommand(build)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAssess_Text(t *testing.T) {
	out, err := execute(t, "assess",
		"--crop", "rice", "--n", "200", "--p", "20", "--k", "100", "--ph", "7",
		"--temp", "25", "--rainfall", "1500", "--raw-yield", "2000")
	require.NoError(t, err)

	assert.Contains(t, out, "Crop: Rice\n")
	assert.Contains(t, out, "Climate: 25.0 °C, 1500 mm/year (request)\n")
	assert.Contains(t, out, "Soil Fertility Score: 7\n")
	assert.Contains(t, out, "Predicted Remark: normal\n")
	assert.Contains(t, out, "Predicted Yield: 4863.22 kg/ha (raw 2000.00, request)\n")
	assert.Contains(t, out, "Recommendations:\n- ")
}

func TestAssess_JSONWithDefaults(t *testing.T) {
	out, err := execute(t, "assess", "--crop", "wheat", "--n", "0", "--p", "0", "--k", "0", "--ph", "6.8", "--json")
	require.NoError(t, err)

	var res advisory.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Wheat", res.Crop)
	assert.Equal(t, "default", res.ClimateSource)
	assert.Equal(t, agronomy.ClimateReading{TemperatureC: 25, AnnualRainfallMm: 800}, res.Input.Climate)
	assert.Equal(t, agronomy.DatasetAverageYield, res.Yield.RawYield)
	assert.Equal(t, "Apply additional Nitrogen (N): 120 kg/ha", res.Recommendations[0])
}

func TestAssess_MissingSoilValue(t *testing.T) {
	_, err := execute(t, "assess", "--crop", "rice", "--n", "200", "--p", "20", "--k", "100")
	require.ErrorIs(t, err, advisory.ErrInvalidInput)
	assert.Contains(t, err.Error(), "ph is required")

	_, err = execute(t, "assess", "--n", "200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"crop"`)
}

func TestCrops_ListAndExport(t *testing.T) {
	out, err := execute(t, "crops")
	require.NoError(t, err)
	assert.Contains(t, out, "CROP")
	assert.Contains(t, out, "Rice")
	assert.Contains(t, out, "150-60-40")

	path := filepath.Join(t.TempDir(), "crops.xlsx")
	out, err = execute(t, "crops", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	profiles, err := agronomy.ReadCatalogFile(path)
	require.NoError(t, err)
	assert.Len(t, profiles, agronomy.DefaultCatalog().Len())

	// The exported workbook is accepted back as a catalog override.
	out, err = execute(t, "--catalog", path, "crops")
	require.NoError(t, err)
	assert.Contains(t, out, "Rice")
}
