// Package searchui is the transcript search front end: a query field,
// query type toggles, a scrolling page of result buttons and a detail
// overlay, built from stage nodes.
package searchui

import (
	"context"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// QueryType selects how the words of a query combine.
type QueryType string

const (
	QueryUnion        QueryType = "union"        // any word matches
	QueryIntersection QueryType = "intersection" // every word matches
	QueryPhrase       QueryType = "phrase"       // the words appear in order
)

// HitCap is the total at which result counts are reported as a lower bound.
const HitCap = 10000

// Results is the answer to one query.
type Results struct {
	Total int
	Hits  []string
}

// TotalLabel formats Total, marking capped counts with a trailing "+".
func (r Results) TotalLabel() string {
	if r.Total >= HitCap {
		return strconv.Itoa(HitCap) + "+"
	}
	return strconv.Itoa(r.Total)
}

// Searcher runs transcript queries.
type Searcher interface {
	Search(ctx context.Context, text string, qt QueryType, limit int) (Results, error)
}

// MemorySearcher searches an in-memory list of transcripts.
type MemorySearcher struct {
	docs   []string
	tokens [][]string
}

// Corpus is the on-disk form of a transcript list.
type Corpus struct {
	Transcripts []string `yaml:"transcripts"`
}

// NewMemorySearcher indexes docs.
func NewMemorySearcher(docs []string) *MemorySearcher {
	s := &MemorySearcher{docs: docs, tokens: make([][]string, len(docs))}
	for i, d := range docs {
		s.tokens[i] = tokenize(d)
	}
	return s
}

// LoadCorpus reads a YAML corpus.
func LoadCorpus(r io.Reader) (*MemorySearcher, error) {
	var c Corpus
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode corpus")
	}
	return NewMemorySearcher(c.Transcripts), nil
}

// LoadCorpusFile reads a YAML corpus from path.
func LoadCorpusFile(path string) (*MemorySearcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open corpus")
	}
	defer f.Close()
	return LoadCorpus(f)
}

// Len returns the number of indexed transcripts.
func (s *MemorySearcher) Len() int { return len(s.docs) }

// Search returns up to limit matching transcripts in corpus order. Total
// counts every match. An empty query matches nothing.
func (s *MemorySearcher) Search(ctx context.Context, text string, qt QueryType, limit int) (Results, error) {
	terms := tokenize(text)
	var res Results
	if len(terms) == 0 {
		return res, nil
	}
	for i, toks := range s.tokens {
		if err := ctx.Err(); err != nil {
			return Results{}, errors.Wrap(err, "search")
		}
		if !matches(toks, terms, qt) {
			continue
		}
		res.Total++
		if limit <= 0 || len(res.Hits) < limit {
			res.Hits = append(res.Hits, s.docs[i])
		}
	}
	return res, nil
}

func matches(doc, terms []string, qt QueryType) bool {
	switch qt {
	case QueryUnion:
		for _, t := range terms {
			if slices.Contains(doc, t) {
				return true
			}
		}
		return false
	case QueryPhrase:
		for i := 0; i+len(terms) <= len(doc); i++ {
			if slices.Equal(doc[i:i+len(terms)], terms) {
				return true
			}
		}
		return false
	default:
		for _, t := range terms {
			if !slices.Contains(doc, t) {
				return false
			}
		}
		return true
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
