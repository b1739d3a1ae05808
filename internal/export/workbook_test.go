package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"autosales-dashboard/internal/models"
)

func testView() models.View {
	return models.View{
		Mode: models.ModeYearly,
		Year: 2019,
		Charts: []models.Chart{
			{
				ID:     "yearly-monthly-sales",
				Kind:   models.ChartLine,
				Series: []models.Series{{Name: "Automobile Sales", Points: []models.Point{{Label: "Jan", Value: 100}, {Label: "Feb", Value: 200}}}},
			},
			{
				ID:     "yearly-sales-by-type",
				Kind:   models.ChartBar,
				Series: []models.Series{{Name: "Automobile Sales", Points: []models.Point{}}},
			},
			{
				ID:   "recession-unemployment-effect",
				Kind: models.ChartGroupedBar,
				Series: []models.Series{
					{Name: "Sports", Points: []models.Point{{Label: "4.8", Value: 60}}},
					{Name: "SUV", Points: []models.Point{{Label: "5.4", Value: 456.5}}},
				},
			},
		},
	}
}

func TestWrite_SheetsAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testView()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"yearly-monthly-sales", "yearly-sales-by-type", "recession-unemployment-effect"}, f.GetSheetList())

	rows, err := f.GetRows("yearly-monthly-sales")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Series", "Label", "Value"},
		{"Automobile Sales", "Jan", "100"},
		{"Automobile Sales", "Feb", "200"},
	}, rows)

	rows, err = f.GetRows("yearly-sales-by-type")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Series", "Label", "Value"}}, rows, "empty chart keeps only the header")

	rows, err = f.GetRows("recession-unemployment-effect")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"SUV", "5.4", "456.5"}, rows[2])
}

func TestSheetName_Truncates(t *testing.T) {
	long := strings.Repeat("x", 40)
	assert.Len(t, sheetName(long), maxSheetName)
	assert.Equal(t, "short", sheetName("short"))
}
