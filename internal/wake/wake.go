package wake

import (
	"strings"
	"unicode"
)

// Detector spots the wake word inside a transcribed utterance. Speech-to-text
// mangles short trigger phrases often enough that exact matching alone loses
// wakes, so known misheard variants and a small edit distance are accepted.
type Detector struct {
	word     string
	variants []string
}

// Common speech-to-text slips for the default wake word. Custom wake words
// only get the edit-distance tolerance.
var knownVariants = map[string][]string{
	"jarvis": {"jarves", "jervis", "jarvus", "jarvas"},
}

func NewDetector(word string) *Detector {
	word = normalize(word)
	return &Detector{word: word, variants: knownVariants[word]}
}

// Detect reports whether the utterance contains the wake word and returns the
// remaining command text with the wake word stripped.
func (d *Detector) Detect(text string) (bool, string) {
	norm := normalize(text)
	if norm == "" {
		return false, ""
	}

	words := strings.Fields(norm)
	for i, w := range words {
		if d.matches(w) {
			rest := append(append([]string(nil), words[:i]...), words[i+1:]...)
			return true, strings.Join(rest, " ")
		}
	}
	return false, ""
}

func (d *Detector) matches(w string) bool {
	if w == d.word {
		return true
	}
	for _, v := range d.variants {
		if w == v {
			return true
		}
	}
	// Tolerate one slip for short wake words, two for longer ones.
	maxDist := 1
	if len(d.word) >= 6 {
		maxDist = 2
	}
	return levenshtein(w, d.word) <= maxDist
}

func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[lb]
}
