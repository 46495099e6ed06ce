package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ReadFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "funds.csv"), []byte("0123456789"), 0o644))
	m := NewManager(base)

	tests := []struct {
		name    string
		limit   int64
		wantErr bool
	}{
		{"no limit", 0, false},
		{"limit equals size", 10, false},
		{"limit below size", 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := m.ReadFile("funds.csv", tt.limit)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "exceeds size limit")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0123456789", string(data))
		})
	}

	_, err := m.ReadFile("missing.csv", 0)
	assert.Error(t, err)
}

func TestManager_Create(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base)

	f, err := m.Create(filepath.Join("reports", "2025", "out.json"))
	require.NoError(t, err)
	_, err = f.WriteString("{}")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(base, "reports", "2025", "out.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
