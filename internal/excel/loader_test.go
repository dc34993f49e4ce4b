package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, invoices [][]any, concepts [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	_, err := f.NewSheet(SheetInvoices)
	require.NoError(t, err)
	for i, row := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SheetInvoices, cell, &row))
	}

	_, err = f.NewSheet(SheetConcepts)
	require.NoError(t, err)
	for i, row := range concepts {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SheetConcepts, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestLoadReaderParsesBothSheets(t *testing.T) {
	buf := buildWorkbook(t,
		[][]any{
			{"NumFactura", "empresa_emisora", "cliente_nombre", "total"},
			{"25042", "Acme SL", "Cliente Uno", "1200.50"},
			{"25043", "Acme SL", "Cliente Dos", "80"},
		},
		[][]any{
			{"NumFactura", "descripcion", "cantidad", "precio_unitario"},
			{"25042", "Consultoria", "2", "600.25"},
		},
	)

	batch, err := LoadReader(buf)
	require.NoError(t, err)
	require.Equal(t, []string{"NumFactura", "empresa_emisora", "cliente_nombre", "total"}, batch.Invoices.Columns)
	require.Equal(t, 2, batch.Invoices.Len())
	require.Equal(t, 1, batch.Concepts.Len())
	require.Equal(t, "Acme SL", batch.Invoices.Field(0, "empresa_emisora"))
	require.Equal(t, "600.25", batch.Concepts.Field(0, "precio_unitario"))
}

func TestLoadReaderSkipsBlankRows(t *testing.T) {
	buf := buildWorkbook(t,
		[][]any{
			{"NumFactura", "empresa_emisora", "cliente_nombre"},
			{"25042", "Acme SL", "Cliente Uno"},
			{"", "", ""},
			{"25043", "Acme SL", "Cliente Dos"},
		},
		[][]any{
			{"NumFactura", "descripcion"},
		},
	)

	batch, err := LoadReader(buf)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Invoices.Len())
	require.Equal(t, 0, batch.Concepts.Len())
}

func TestLoadReaderMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := LoadReader(&buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), SheetInvoices)
}

func TestDatasetFieldTrimsAndBoundsChecks(t *testing.T) {
	ds := Dataset{
		Columns: []string{"NumFactura"},
		Rows:    []Row{{"NumFactura": "  25042  "}},
	}
	require.Equal(t, "25042", ds.Field(0, "NumFactura"))
	require.Equal(t, "", ds.Field(5, "NumFactura"))
	require.True(t, ds.HasColumn("NumFactura"))
	require.False(t, ds.HasColumn("total"))
}
