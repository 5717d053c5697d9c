package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Profiles = []ProfileConfig{
		{Key: "mybank", DateColumn: 0, DescriptionColumn: 1, ReferenceColumn: -1,
			DebitColumn: 2, CreditColumn: 3, AmountColumn: -1, BalanceColumn: 4,
			DateFormat: "02/01/2006"},
	}

	path := filepath.Join(t.TempDir(), "clearline.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business.Name, got.Business.Name)
	assert.Equal(t, cfg.Business.TenantID, got.Business.TenantID)
	assert.Equal(t, cfg.Database.Path, got.Database.Path)
	assert.Equal(t, cfg.Reconciliation.AutoMatchScore, got.Reconciliation.AutoMatchScore)
	assert.Equal(t, cfg.Reconciliation.StrictCompletion, got.Reconciliation.StrictCompletion)
	require.Len(t, got.Profiles, 1)
	assert.Equal(t, "mybank", got.Profiles[0].Key)
	assert.Equal(t, 3, got.Profiles[0].CreditColumn)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, int64(1), cfg.Business.TenantID)
	assert.Equal(t, "clearline.db", cfg.Database.Path)
	assert.Equal(t, 90, cfg.Reconciliation.AutoMatchScore)
	assert.False(t, cfg.Reconciliation.StrictCompletion)
	assert.Empty(t, cfg.Profiles)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz")
	path := filepath.Join(t.TempDir(), "clearline.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "auto_match_score: 90")
	assert.Contains(t, contents, "path: clearline.db")
}
