package consolidate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// corruptionMarker appears in filenames where a transcoding step replaced
// undecodable bytes.
const corruptionMarker = '�'

// DefaultMojibake maps known corrupted store basenames to canonical source
// names. These are the UTF-8 source names as mangled by a Latin-1 decode,
// observed in production data directories. The table is explicit, auditable
// configuration; unmapped corrupted names are flagged for manual review, not
// guessed.
func DefaultMojibake() map[string]string {
	return map[string]string{
		"æ–°æµªè´¢ç»�": "新浪财经",
		"ä¸œæ–¹è´¢å¯Œ":  "东方财富",
		"ç½‘æ˜“è´¢ç»�": "网易财经",
		"å‡¤å‡°è´¢ç»�": "凤凰财经",
		"è…¾è®¯è´¢ç»�": "腾讯财经",
	}
}

// IsCorruptedName reports whether a store basename shows mojibake: invalid
// UTF-8, the corruption marker, or the Latin-1 rune soup a double-decode
// leaves behind.
func IsCorruptedName(name string) bool {
	if !utf8.ValidString(name) {
		return true
	}
	if strings.ContainsRune(name, corruptionMarker) {
		return true
	}
	return looksMojibake(name)
}

// looksMojibake flags names that carry no CJK at all yet are full of
// non-ASCII runes, the signature of UTF-8 bytes decoded as a single-byte
// charset. Genuine source names are either plain ASCII or contain Han.
func looksMojibake(name string) bool {
	nonASCII := 0
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			return false
		}
		if r >= 0x80 {
			nonASCII++
		}
	}
	return nonASCII >= 2
}
