package searchui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDocs = []string{
	"The quick brown fox",
	"A lazy dog sleeps",
	"The dog chased the fox",
	"Brown bread and butter",
}

func TestMemorySearcherModes(t *testing.T) {
	s := NewMemorySearcher(testDocs)
	tests := []struct {
		query string
		qt    QueryType
		want  []string
	}{
		{"fox dog", QueryUnion, []string{testDocs[0], testDocs[1], testDocs[2]}},
		{"fox dog", QueryIntersection, []string{testDocs[2]}},
		{"BROWN", QueryIntersection, []string{testDocs[0], testDocs[3]}},
		{"the fox", QueryPhrase, []string{testDocs[2]}},
		{"quick brown", QueryPhrase, []string{testDocs[0]}},
		{"brown quick", QueryPhrase, nil},
		{"cat", QueryUnion, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.qt)+" "+tt.query, func(t *testing.T) {
			res, err := s.Search(context.Background(), tt.query, tt.qt, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Hits)
			assert.Equal(t, len(tt.want), res.Total)
		})
	}
}

func TestMemorySearcherLimit(t *testing.T) {
	s := NewMemorySearcher(testDocs)
	res, err := s.Search(context.Background(), "the", QueryUnion, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total, "Total counts past the limit")
	assert.Len(t, res.Hits, 1)
}

func TestMemorySearcherEmptyQuery(t *testing.T) {
	s := NewMemorySearcher(testDocs)
	res, err := s.Search(context.Background(), "  ,. ", QueryUnion, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Hits)
}

func TestMemorySearcherCancelled(t *testing.T) {
	s := NewMemorySearcher(testDocs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Search(ctx, "fox", QueryUnion, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTotalLabel(t *testing.T) {
	assert.Equal(t, "12", Results{Total: 12}.TotalLabel())
	assert.Equal(t, "10000+", Results{Total: HitCap}.TotalLabel())
}

func TestLoadCorpus(t *testing.T) {
	s, err := LoadCorpus(strings.NewReader("transcripts:\n  - first one\n  - second one\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	empty, err := LoadCorpus(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	_, err = LoadCorpus(strings.NewReader("transcripts: {"))
	assert.Error(t, err)
}

func TestLoadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transcripts: [a b, c d]\n"), 0o644))
	s, err := LoadCorpusFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = LoadCorpusFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
