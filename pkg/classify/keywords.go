package classify

import (
	"sort"
	"strings"
)

type tokenStat struct {
	token string
	count int
	first int // index of first occurrence, used as tie-break
}

// Keywords runs the cleaning pass, tokenizes, and returns the top n tokens
// ranked by frequency. Ties rank by first occurrence so results are stable.
func (c *Classifier) Keywords(text string, n int) []string {
	if n <= 0 {
		n = c.cfg.TopKeywords
	}
	cleaned := Clean(text)
	if cleaned == "" {
		return nil
	}

	var tokens []string
	if c.isChinese(cleaned) {
		tokens = tokenizeHan(cleaned)
	} else {
		tokens = tokenizeLatin(cleaned)
	}

	stats := make(map[string]*tokenStat, len(tokens))
	for i, tok := range tokens {
		if s, ok := stats[tok]; ok {
			s.count++
		} else {
			stats[tok] = &tokenStat{token: tok, count: 1, first: i}
		}
	}

	ranked := make([]*tokenStat, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	keywords := make([]string, len(ranked))
	for i, s := range ranked {
		keywords[i] = s.token
	}
	return keywords
}

// tokenizeLatin lowercases, splits on whitespace, and drops stopwords and
// single characters.
func tokenizeLatin(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwordsEn[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// tokenizeHan slides a bigram window over each run of Han characters.
// Two-character windows approximate Chinese word boundaries well enough for
// frequency ranking without a full segmenter.
func tokenizeHan(text string) []string {
	var tokens []string
	var run []rune
	flush := func() {
		for i := 0; i+1 < len(run); i++ {
			tok := string(run[i : i+2])
			if _, stop := stopwordsZh[tok]; stop {
				continue
			}
			tokens = append(tokens, tok)
		}
		run = run[:0]
	}
	for _, r := range text {
		if isHan(r) {
			run = append(run, r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
