package classify

// Static sentiment lexicons. Loaded once into immutable package state; the
// scorer never mutates them.

// positiveZh/negativeZh are matched as phrases against CJK text.
var positiveZh = []string{
	"上涨", "大涨", "涨停", "利好", "增长", "盈利", "增持", "突破",
	"创新高", "反弹", "回暖", "走强", "攀升", "飙升", "看好", "强劲",
	"复苏", "超预期", "扩张", "获利", "提振", "回升",
}

var negativeZh = []string{
	"下跌", "大跌", "跌停", "利空", "亏损", "减持", "下滑", "暴跌",
	"跳水", "走弱", "缩水", "低迷", "违约", "退市", "崩盘", "疲软",
	"承压", "不及预期", "萎缩", "爆雷", "套牢", "回落",
}

// positiveEn/negativeEn are matched as whole lowercase tokens.
var positiveEn = map[string]struct{}{
	"gain": {}, "gains": {}, "rally": {}, "surge": {}, "surged": {},
	"profit": {}, "profits": {}, "growth": {}, "bullish": {}, "strong": {},
	"record": {}, "recovery": {}, "rebound": {}, "beat": {}, "upgrade": {},
	"rise": {}, "rises": {}, "rose": {}, "soar": {}, "soared": {},
}

var negativeEn = map[string]struct{}{
	"loss": {}, "losses": {}, "drop": {}, "dropped": {}, "decline": {},
	"declined": {}, "bearish": {}, "weak": {}, "crash": {}, "default": {},
	"slump": {}, "fall": {}, "falls": {}, "fell": {}, "plunge": {},
	"plunged": {}, "downgrade": {}, "miss": {}, "missed": {}, "recession": {},
}

// stopwordsEn filters connective noise out of keyword extraction for
// space-delimited text.
var stopwordsEn = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {},
	"that": {}, "the": {}, "this": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {},
}

// stopwordsZh removes grammatical particles that dominate raw bigram counts.
var stopwordsZh = map[string]struct{}{
	"我们": {}, "他们": {}, "这个": {}, "那个": {}, "以及": {}, "但是": {},
	"因为": {}, "所以": {}, "可以": {}, "没有": {}, "一个": {}, "进行": {},
	"表示": {}, "记者": {}, "报道": {}, "责任": {}, "编辑": {},
}
