// Package similarity finds memos related to a target memo by lexical
// overlap between transcripts. Short function words are excluded by a
// length cutoff rather than a stopword list, and scores are Jaccard
// similarity over distinct-token sets. Results are recomputed on every
// call; this is an interactive, low-frequency operation, not a hot path.
package similarity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/memoflow-dev/memoflow/internal/memo"
)

// minTokenLen is the minimum rune length for a token to count.
const minTokenLen = 4

// Related is one candidate memo with its similarity to the target and its
// fully loaded context.
type Related struct {
	MemoID string
	Score  float64
	Memo   *memo.Memo
}

// Skipped records a memo that could not be read or parsed during a scan.
// Skips are diagnostic only; they never abort the overall scan.
type Skipped struct {
	MemoID string
	Err    error
}

// Finder scans the store for memos related to a target.
type Finder struct {
	store    *memo.Store
	limit    int
	minScore float64
}

// NewFinder creates a Finder returning at most limit results, each with
// similarity strictly greater than minScore.
func NewFinder(store *memo.Store, limit int, minScore float64) *Finder {
	return &Finder{store: store, limit: limit, minScore: minScore}
}

// Related returns the top related memos for targetID, ordered by descending
// similarity with ties broken by ascending memo id. The target itself is
// never a candidate. Unreadable candidate transcripts are reported in
// skipped and the scan continues. A missing target transcript is fatal.
func (f *Finder) Related(targetID string) ([]Related, []Skipped, error) {
	target, err := f.store.LoadTranscript(targetID)
	if err != nil {
		return nil, nil, err
	}

	targetTokens := Tokenize(target)
	if len(targetTokens) == 0 {
		return nil, nil, nil
	}

	ids, err := f.store.ListMemoIDs()
	if err != nil {
		return nil, nil, err
	}

	var candidates []Related
	var skipped []Skipped

	for _, id := range ids {
		if id == targetID {
			continue
		}

		transcript, loadErr := f.store.LoadTranscript(id)
		if loadErr != nil {
			skipped = append(skipped, Skipped{MemoID: id, Err: loadErr})
			continue
		}

		tokens := Tokenize(transcript)
		if len(tokens) == 0 {
			continue
		}

		score := Jaccard(targetTokens, tokens)
		if score <= f.minScore {
			continue
		}
		candidates = append(candidates, Related{MemoID: id, Score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].MemoID < candidates[j].MemoID
	})

	if f.limit >= 0 && len(candidates) > f.limit {
		candidates = candidates[:f.limit]
	}

	// Load full context only for the winners. A winner whose memo became
	// unreadable between the scan and the load is dropped, not returned
	// with a nil Memo.
	loaded := candidates[:0]
	for _, cand := range candidates {
		m, warns, loadErr := f.store.LoadMemo(cand.MemoID)
		if loadErr != nil {
			skipped = append(skipped, Skipped{MemoID: cand.MemoID, Err: loadErr})
			continue
		}
		for _, w := range warns {
			skipped = append(skipped, Skipped{MemoID: cand.MemoID, Err: w})
		}
		cand.Memo = m
		loaded = append(loaded, cand)
	}

	return loaded, skipped, nil
}

// Tokenize returns the set of distinct lowercase tokens of length >= 4
// from text. Tokens are maximal runs of letters and digits.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(word)) >= minTokenLen {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

// Jaccard returns |a ∩ b| / |a ∪ b| for two token sets.
// Returns 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
