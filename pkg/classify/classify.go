// Package classify implements the content-quality gate and the lexicon-based
// sentiment scorer. All functions are pure over immutable lexicon state.
package classify

import (
	"strings"
	"unicode"

	"github.com/pemistahl/lingua-go"

	"github.com/139QQ/news-look-sub005/models"
)

// Classifier applies the quality filter and sentiment/keyword scoring with
// configured thresholds. Safe for concurrent use.
type Classifier struct {
	cfg      models.ClassifierConfig
	detector lingua.LanguageDetector
}

// New builds a Classifier. The language detector is constructed once here;
// building it per call is far too expensive.
func New(cfg models.ClassifierConfig) *Classifier {
	cfg.Normalize()
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Chinese, lingua.English).
		Build()
	return &Classifier{cfg: cfg, detector: detector}
}

// IsQuality runs the four independent rejection checks against a title and
// the extracted body. Any single trigger fails the article. The length check
// runs on cleaned text; emoji are counted before cleaning strips them.
func (c *Classifier) IsQuality(title, content string) bool {
	if len([]rune(Clean(content))) < c.cfg.MinContentLen {
		return false
	}
	for _, kw := range c.cfg.AdKeywords {
		if strings.Contains(title, kw) || strings.Contains(content, kw) {
			return false
		}
	}
	if len([]rune(title)) < c.cfg.MinTitleLen || allDigits(title) {
		return false
	}
	if CountEmoji(content) > c.cfg.MaxEmoji {
		return false
	}
	return true
}

// Sentiment scores cleaned text in [-1, 1] as (pos-neg)/(pos+neg) over
// lexicon matches. Text without any sentiment-bearing token scores 0.
func (c *Classifier) Sentiment(text string) float64 {
	cleaned := Clean(text)
	if cleaned == "" {
		return 0
	}

	var pos, neg int
	if c.isChinese(cleaned) {
		for _, w := range positiveZh {
			pos += strings.Count(cleaned, w)
		}
		for _, w := range negativeZh {
			neg += strings.Count(cleaned, w)
		}
	} else {
		for _, tok := range strings.Fields(strings.ToLower(cleaned)) {
			if _, ok := positiveEn[tok]; ok {
				pos++
			}
			if _, ok := negativeEn[tok]; ok {
				neg++
			}
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// isChinese routes tokenization. Lingua is consulted first; a Han-rune scan
// backstops it for short or mixed snippets.
func (c *Classifier) isChinese(text string) bool {
	if lang, ok := c.detector.DetectLanguageOf(text); ok {
		return lang == lingua.Chinese
	}
	for _, r := range text {
		if isHan(r) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
