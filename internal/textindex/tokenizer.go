package textindex

import (
	_ "embed"
	"regexp"
	"strings"
)

//go:embed stopwords.txt
var stopwordsFile string

var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(stopwordsFile, "\n") {
		word := strings.TrimSpace(line)
		if word != "" {
			set[word] = struct{}{}
		}
	}
	return set
}()

// Word tokens are runs of at least two word characters; single characters
// carry no signal for this corpus.
var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9_]{2,}`)

// Terms tokenizes text into lower-cased word tokens with stop words
// removed, then appends adjacent word pairs. Pair terms are built from the
// stop-word-filtered sequence, matching how the index was fit.
func Terms(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)

	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if _, isStop := stopwords[w]; isStop {
			continue
		}
		words = append(words, w)
	}

	terms := make([]string, len(words), 2*len(words))
	copy(terms, words)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}
