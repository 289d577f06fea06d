package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "plain list",
			text:     "alice@example.com\nbob@example.org\n",
			expected: []string{"alice@example.com", "bob@example.org"},
		},
		{
			name:     "embedded in prose",
			text:     "contact Alice <ALICE@Example.COM> or bob@example.org today",
			expected: []string{"alice@example.com", "bob@example.org"},
		},
		{
			name:     "duplicates collapse case insensitively",
			text:     "a@b.co A@B.CO a@b.co",
			expected: []string{"a@b.co"},
		},
		{
			name:     "csv row",
			text:     "1,carol@example.net,active\n2,dave@example.net,stale",
			expected: []string{"carol@example.net", "dave@example.net"},
		},
		{
			name:     "no addresses",
			text:     "nothing to see here",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractFromText(tt.text))
		})
	}
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", domainOf("alice@example.com"))
	assert.Equal(t, "example.com", domainOf("alice@EXAMPLE.COM"))
	assert.Equal(t, "b.com", domainOf(`"a@b"@b.com`))
	assert.Equal(t, "", domainOf("not-an-email"))
}

func TestExtractFromPath(t *testing.T) {
	v := newTestVerifier(t, &fakeCache{}, nil, nil)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alice@example.com\nbob@example.org"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("bob@example.org,carol@example.net"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte("hidden@example.com"), 0o644))

	t.Run("directory input", func(t *testing.T) {
		emails, err := v.ExtractFromPath(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice@example.com", "bob@example.org", "carol@example.net"}, emails)
	})

	t.Run("single file input", func(t *testing.T) {
		emails, err := v.ExtractFromPath(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, []string{"alice@example.com", "bob@example.org"}, emails)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := v.ExtractFromPath(filepath.Join(dir, "nope.txt"))
		assert.Error(t, err)
	})
}
