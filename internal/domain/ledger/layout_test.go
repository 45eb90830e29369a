package ledger

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

func sampleRow() chem.InventoryRow {
	rec := chem.NewComplianceRecord()
	rec.Carcinogen = "1군(확인)"
	rec.ExposureTWA = "50ppm"
	rec.WorkEnvMonitoring = "O"
	rec.HazmatClass = "제4류 제1석유류"
	rec.HazmatQuantity = "200L"
	rec.HazmatGrade = "II"
	rec.ExistingChemical = "O"
	rec.ToxicSubstance = "O(85%이상)"
	rec.RestrictedSubstance = "제한물질 제2019-2호"
	rec.ContentRegulation = "유독물질 함량정보: 85% 이상"

	return chem.InventoryRow{
		ProcessName:    "도장공정",
		Workplace:      "1공장",
		ProductName:    "신너",
		Alias:          "톨루올",
		Identity:       chem.Identity{CAS: "108-88-3", NameKo: "톨루엔"},
		ContentPercent: "60",
		Compliance:     rec,
	}
}

func TestHeaderRows_Shape(t *testing.T) {
	rows := HeaderRows()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], ColumnCount)
	assert.Len(t, rows[1], ColumnCount)

	// Group headers sit at the first column of their merged span.
	assert.Equal(t, "공정명", rows[0][0])
	assert.Equal(t, GroupToxicity, rows[0][7])
	assert.Equal(t, GroupLaborLaw, rows[0][11])
	assert.Equal(t, GroupHazmat, rows[0][15])
	assert.Equal(t, GroupEnvironmental, rows[0][18])

	// Identity columns have no sub-header.
	for i := 0; i < 7; i++ {
		assert.Empty(t, rows[1][i])
	}
	assert.Equal(t, "발암성", rows[1][7])
	assert.Equal(t, "노출기준(TWA)", rows[1][10])
	assert.Equal(t, "위험물류별", rows[1][15])
	assert.Equal(t, "기존물질여부", rows[1][26])
}

func TestRow_ColumnOrderAndCount(t *testing.T) {
	row := sampleRow()
	cells := Row(&row)
	require.Len(t, cells, ColumnCount)

	assert.Equal(t, "도장공정", cells[0])
	assert.Equal(t, "1공장", cells[1])
	assert.Equal(t, "톨루엔", cells[3])
	assert.Equal(t, "톨루올", cells[4])
	assert.Equal(t, "108-88-3", cells[5])
	assert.Equal(t, "1군(확인)", cells[7])
	assert.Equal(t, "50ppm", cells[10])
	assert.Equal(t, "O", cells[11])
	assert.Equal(t, "제4류 제1석유류", cells[15])
	assert.Equal(t, "200L", cells[16])
	assert.Equal(t, "II", cells[17])
}

func TestRow_UnknownRendering(t *testing.T) {
	row := chem.InventoryRow{Compliance: chem.NewComplianceRecord()}
	cells := Row(&row)

	// Labor-law flags and the two environmental flags render X when unknown;
	// everything else keeps the dash.
	assert.Equal(t, "X", cells[11])
	assert.Equal(t, "X", cells[12])
	assert.Equal(t, "X", cells[13])
	assert.Equal(t, "X", cells[14])
	assert.Equal(t, "X", cells[19])
	assert.Equal(t, "X", cells[20])
	assert.Equal(t, "-", cells[7])
	assert.Equal(t, "-", cells[15])
	assert.Equal(t, "-", cells[21])
}

func TestRow_RestrictionSummary(t *testing.T) {
	rec := chem.NewComplianceRecord()
	rec.RestrictedSubstance = "A"
	rec.ProhibitedSubstance = "B"
	rec.PermittedSubstance = "C"
	row := chem.InventoryRow{Compliance: rec}

	assert.Equal(t, "제한(A), 금지(B), 허가(C)", Row(&row)[21])
}

func TestRow_ExistingChemicalColumns(t *testing.T) {
	rec := chem.NewComplianceRecord()
	rec.ExistingChemical = "O(1%이상)"
	row := chem.InventoryRow{Compliance: rec}

	cells := Row(&row)
	assert.Equal(t, "O", cells[18])         // 기존 flag
	assert.Equal(t, "O(1%이상)", cells[26]) // 기존물질여부 keeps the annotation
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	row := sampleRow()
	require.NoError(t, WriteCSV(&buf, []chem.InventoryRow{row}))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Len(t, rec, ColumnCount)
	}
	assert.Equal(t, "108-88-3", records[2][5])
}

func TestWriteCSV_EmptyInventoryStillHasHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
