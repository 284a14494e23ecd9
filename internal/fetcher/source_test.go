package fetcher

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://data.sfgov.org/x.csv"))
	assert.True(t, IsRemote("HTTP://example.com"))
	assert.True(t, IsRemote("ftp://ftp.example.com/crime_level.csv"))
	assert.False(t, IsRemote("/data/fixed_data.csv"))
	assert.False(t, IsRemote("crime_level.csv"))
}

func TestExt(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"fixed_data.csv", ".csv"},
		{"/data/Districts.SHP", ".shp"},
		{"levels.xlsx", ".xlsx"},
		{"https://example.com/sf.geojson?download=1", ".geojson"},
		{"https://example.com/archive.zip", ".zip"},
		{"ftp://ftp.example.com/pub/levels.xlsx", ".xlsx"},
		{"noext", ""},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.source))
		})
	}
}

func TestLocalize_LocalExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crime_level.csv")
	require.NoError(t, writeTestFile(path, "DISTRICT,CrimeLevel\n"))

	got, err := Localize(context.Background(), nil, path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestLocalize_LocalMissing(t *testing.T) {
	_, err := Localize(context.Background(), nil, filepath.Join(t.TempDir(), "missing.csv"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: stat")
}

func TestLocalize_RemoteWithoutFetcher(t *testing.T) {
	_, err := Localize(context.Background(), nil, "https://example.com/a.csv", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no downloader")
}
