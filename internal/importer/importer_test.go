package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func TestFacturesParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/factures.csv")
	require.NoError(t, err)

	p := &FacturesParser{}
	invoices, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Len(t, invoices, 5)

	first := invoices[0]
	assert.Equal(t, model.InvoiceCustomer, first.Kind)
	assert.Equal(t, "FAC-2025-001", first.Number)
	assert.Equal(t, "client-kin", first.PartnerID)
	assert.Equal(t, "590000", first.TotalTTC.String())
	assert.Equal(t, 2025, first.Date.Year())
	require.NotNil(t, first.DueDate)
	assert.Equal(t, 14, first.DueDate.Day())

	// Third row has no due date.
	assert.Nil(t, invoices[2].DueDate)

	// Supplier invoice, fully paid.
	fourth := invoices[3]
	assert.Equal(t, model.InvoiceSupplier, fourth.Kind)
	assert.True(t, fourth.Outstanding().IsZero())
}

func TestFacturesParser_EmptyFile(t *testing.T) {
	p := &FacturesParser{}
	invoices, err := p.Parse(strings.NewReader("kind,number,partner_id,date,due_date,total_ttc,amount_paid\n"))
	require.NoError(t, err)
	assert.Nil(t, invoices)
}

func TestFacturesParser_BadKind(t *testing.T) {
	csv := "kind,number,partner_id,date,due_date,total_ttc,amount_paid\nbanana,F1,p1,2025-01-15,,100,0\n"
	p := &FacturesParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown invoice kind")
}

func TestFacturesParser_BadDate(t *testing.T) {
	csv := "kind,number,partner_id,date,due_date,total_ttc,amount_paid\ncustomer,F1,p1,NOTADATE,,100,0\n"
	p := &FacturesParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestFacturesParser_BadTotal(t *testing.T) {
	csv := "kind,number,partner_id,date,due_date,total_ttc,amount_paid\ncustomer,F1,p1,2025-01-15,,NOTANUMBER,0\n"
	p := &FacturesParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing total")
}

func TestFacturesParser_NegativeTotal(t *testing.T) {
	csv := "kind,number,partner_id,date,due_date,total_ttc,amount_paid\ncustomer,F1,p1,2025-01-15,,-100,0\n"
	p := &FacturesParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestFacturesParser_Format(t *testing.T) {
	p := &FacturesParser{}
	assert.Equal(t, "factures", p.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&FacturesParser{})
	p := r.Get("factures")
	require.NotNil(t, p)
	assert.Equal(t, "factures", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&FacturesParser{})
	assert.NotNil(t, r.Get("Factures"))
	assert.NotNil(t, r.Get("FACTURES"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("factures"))
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "factures.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "factures.csv", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "factures.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "factures.csv")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(importDir, "factures.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "factures.csv"))
	assert.NoError(t, err)
}
