package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"news.txt", "news_words_seq.txt"},
		{"data/news.2024.txt", "data/news.2024_words_seq.txt"},
		{"data/news", "data/news_words_seq.txt"},
		{"dir.v2/news", "dir.v2/news_words_seq.txt"},
		{".hidden", ".hidden_words_seq.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in, "_words_seq.txt"), tt.in)
	}
}

func TestReverse(t *testing.T) {
	assert.Equal(t, "词新", Reverse("新词"))
	assert.Equal(t, "", Reverse(""))
	assert.Equal(t, "cba", Reverse("abc"))
}

func TestIsOnlyNumerals(t *testing.T) {
	assert.True(t, IsOnlyNumerals("123"))
	assert.True(t, IsOnlyNumerals("二十三"))
	assert.True(t, IsOnlyNumerals("3十"))
	assert.False(t, IsOnlyNumerals(""))
	assert.False(t, IsOnlyNumerals("12a"))
	assert.False(t, IsOnlyNumerals("百"))
}

func TestFormatWithCommas(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatWithCommas(1234567))
	assert.Equal(t, "12", FormatWithCommas(12))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := WriteFileAtomic(path, func(f *os.File) error {
		_, err := f.WriteString("hello")
		return err
	})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestExtractFloat(t *testing.T) {
	data := map[string]any{"a": int64(8), "b": 1.5, "c": "x"}
	v, ok := ExtractFloat(data, "a")
	assert.True(t, ok)
	assert.Equal(t, 8.0, v)
	v, ok = ExtractFloat(data, "b")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	_, ok = ExtractFloat(data, "c")
	assert.False(t, ok)
}
