// Package resolve maps free-text organization names to canonical URLs using a
// reference list of known organizations.
//
// Matching is greedy: the first reference entry, in list order, whose
// canonical name contains any word of the input name as a whole word wins.
// Common words such as "inc" or "the" can therefore match unrelated entries.
package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/model"
)

type entry struct {
	ref     model.ReferenceEntry
	lowered string
}

// Resolver resolves names against a fixed reference list. It is read-only
// after construction and safe for concurrent use.
type Resolver struct {
	entries []entry
}

// New creates a Resolver over entries. The order of entries decides which one
// wins when several share a word.
func New(entries []model.ReferenceEntry) *Resolver {
	lower := cases.Lower(language.Und)
	r := &Resolver{entries: make([]entry, len(entries))}
	for i, e := range entries {
		r.entries[i] = entry{ref: e, lowered: lower.String(e.Name)}
	}
	return r
}

// Load reads a JSON or YAML array of {name, url} objects from path.
func Load(fs afero.Fs, path string) (*Resolver, error) {
	var entries []model.ReferenceEntry
	if err := artifact.ReadDocument(fs, path, &entries); err != nil {
		return nil, eris.Wrap(err, "resolve: load reference dataset")
	}
	zap.L().Debug("resolve: reference dataset loaded",
		zap.String("path", path),
		zap.Int("entries", len(entries)),
	)
	return New(entries), nil
}

// Len returns the number of reference entries.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// Match returns the first reference entry sharing a whole word with name.
func (r *Resolver) Match(name string) (model.ReferenceEntry, bool) {
	tokens := Tokens(name)
	if len(tokens) == 0 {
		return model.ReferenceEntry{}, false
	}
	for _, e := range r.entries {
		for _, tok := range tokens {
			if containsWord(e.lowered, tok) {
				return e.ref, true
			}
		}
	}
	return model.ReferenceEntry{}, false
}

// Resolve returns the URL of the first matching reference entry. The second
// result is false when nothing matches or the matching entry has no URL; a
// URL-less match still ends the search.
func (r *Resolver) Resolve(name string) (string, bool) {
	ref, ok := r.Match(name)
	if !ok || ref.URL == nil {
		return "", false
	}
	return *ref.URL, true
}

// ResolveAll resolves every name. The result has one key per distinct name;
// unresolved names map to nil.
func (r *Resolver) ResolveAll(names []string) model.ResolvedURLs {
	out := make(model.ResolvedURLs, len(names))
	for _, name := range names {
		url, ok := r.Resolve(name)
		if !ok {
			out[name] = nil
			zap.L().Debug("resolve: no url", zap.String("name", name))
			continue
		}
		out[name] = &url
		zap.L().Debug("resolve: matched", zap.String("name", name), zap.String("url", url))
	}
	zap.L().Info("resolve: names resolved",
		zap.Int("names", len(names)),
		zap.Int("resolved", out.Count()),
	)
	return out
}

// Tokens lowercases name and splits it into runs of letters, digits and
// underscores. Punctuation and whitespace separate tokens.
func Tokens(name string) []string {
	return strings.FieldsFunc(cases.Lower(language.Und).String(name), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// containsWord reports whether word occurs in s bounded on both sides by the
// string edge or a non-word rune. word must consist of word runes only.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset < len(s); {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}

		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}
