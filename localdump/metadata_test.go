package localdump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/opendata-dump/opendata"
)

func TestMetadataRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "meta", "meta.json")

	result := opendata.NewIngestionResult()
	result.Set("[9795]", opendata.Record{Data: []string{
		"http://data.montpellier3m.fr/sites/default/files/ressources/MMM_MMM_PduHierarchieVoies.zip",
		"http://data.montpellier3m.fr/sites/default/files/ressources/MMM_MMM_PduHierarchieVoies.ods",
		"http://data.montpellier3m.fr/sites/default/files/ressources/MMM_MMM_PduNotice.pdf",
	}})
	result.Set("[3413]", opendata.Record{Data: []string{}})
	result.Set("[9860, 9860]", opendata.Record{Data: []string{
		"http://data.montpellier3m.fr/sites/default/files/ressources/MMM_MMM_PopFine.zip",
	}})

	require.NoError(t, WriteMetadata(path, result))

	back, err := ReadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, result.Keys(), back.Keys())
	assert.Equal(t, result.URLs(), back.URLs())
	record, ok := back.Get("[3413]")
	require.True(t, ok)
	assert.NotNil(t, record.Data)
	assert.Empty(t, record.Data)
}

func TestWriteMetadataNullsMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")

	result := opendata.NewIngestionResult()
	result.Set("[1]", opendata.Record{Data: []string{"https://example.org/x.csv"}})
	require.NoError(t, WriteMetadata(path, result))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"[1]": {"metadata": null, "data": ["https://example.org/x.csv"]}}`, string(b))
}

func TestReadMetadataErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadMetadata(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1, 2, 3]`), 0644))
	_, err = ReadMetadata(bad)
	assert.Error(t, err)
}
