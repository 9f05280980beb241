package ideology

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/talgya/statecraft/internal/world"
)

// Theme is a thematic axis detected in a law's text.
type Theme uint8

const (
	ProTradition Theme = iota
	AntiChange
	ProChange
	ProMilitary
	AntiMilitary
	ProEquality
	ProFreedom
	ProWelfare
	ProMarket
	ProRegulation
	AntiRegulation
	ProEnvironment
	ProTech
	ProLocal
	AntiGlobal
	ProPublicOpinion
	ProAgriculture
	ProUrban
	ProRepublic
	AntiMonarchy
	AntiEstablishment
	NumThemes
)

var themeNames = [NumThemes]string{
	"pro_tradition", "anti_change", "pro_change", "pro_military", "anti_military",
	"pro_equality", "pro_freedom", "pro_welfare", "pro_market", "pro_regulation",
	"anti_regulation", "pro_environment", "pro_tech", "pro_local", "anti_global",
	"pro_public_opinion", "pro_agriculture", "pro_urban", "pro_republic",
	"anti_monarchy", "anti_establishment",
}

func (t Theme) String() string {
	if t < NumThemes {
		return themeNames[t]
	}
	return "theme"
}

// Keyword lists cover English and Japanese phrasing. English terms match
// whole words; a trailing \w* marks a stem.
var themePatterns = [NumThemes]*regexp.Regexp{
	ProTradition: keywords("tradition\\w*", "famil(?:y|ies)", "cultur\\w*", "histor\\w*",
		"restor\\w* (?:the )?monarchy", "monarchy restoration", "reinstat\\w* (?:the )?monarch\\w*",
		"伝統", "家族", "文化", "歴史", "王政復古", "君主制の?復活"),
	AntiChange:        keywords("maintain\\w*", "status quo", "維持", "現状"),
	ProChange:         keywords("reform\\w*", "innovat\\w*", "new era", "transform\\w*", "改革", "革新", "新時代", "変革"),
	ProMilitary:       keywords("military", "defen[cs]es?", "armaments?", "軍", "防衛", "軍備"),
	AntiMilitary:      keywords("peace\\w*", "disarmament", "demilitari[sz]\\w*", "平和", "軍縮", "非武装"),
	ProEquality:       keywords("equality", "inequality correction", "fairness", "平等", "格差是正", "公平"),
	ProFreedom:        keywords("freedoms?", "deregulation", "self-responsibility", "自由", "規制緩和", "自己責任"),
	ProWelfare:        keywords("welfare", "social security", "safety nets?", "福祉", "社会保障", "セーフティネット"),
	ProMarket:         keywords("market principles?", "privati[sz]ation", "competition", "市場原理", "民営化", "競争"),
	ProRegulation:     keywords("stricter regulations?", "surveillance", "規制強化", "監視"),
	AntiRegulation:    keywords("deregulation", "liberali[sz]ation", "規制緩和", "自由化"),
	ProEnvironment:    keywords("environment\\w*", "ecolog\\w*", "eco-friendly", "nature", "renewables?", "環境", "エコ", "自然", "再生可能"),
	ProTech:           keywords("technolog\\w*", "scien\\w*", "digital", "research\\w*", "技術", "科学", "デジタル", "研究"),
	ProLocal:          keywords("decentrali[sz]ation", "regional", "地方分権", "地域"),
	AntiGlobal:        keywords("immigration control", "anti-globalism", "protectionism", "移民規制", "反グローバル", "保護主義"),
	ProPublicOpinion:  keywords("nations?", "citizen\\w*", "public opinion", "国民", "市民", "世論"),
	ProAgriculture:    keywords("agricultur\\w*", "food self-sufficiency", "農業", "食料自給"),
	ProUrban:          keywords("urban development", "infrastructure", "都市開発", "インフラ"),
	ProRepublic:       keywords("republic\\w*", "共和"),
	AntiMonarchy: keywords("abolish\\w* (?:the )?monarchy", "abolition of (?:the )?monarchy", "end (?:to )?(?:the )?monarchy",
		"anti-monarch\\w*", "君主制の?廃止", "王政廃止"),
	AntiEstablishment: keywords("vested interests", "corruption", "既得権益", "腐敗"),
}

// keywords joins terms into one case-insensitive pattern. Terms starting
// with an ASCII letter are anchored at word boundaries; \b does not apply
// to Japanese script.
func keywords(terms ...string) *regexp.Regexp {
	alts := make([]string, len(terms))
	for i, t := range terms {
		if t[0] < utf8.RuneSelf {
			t = `\b(?:` + t + `)\b`
		}
		alts[i] = t
	}
	return regexp.MustCompile("(?i)" + strings.Join(alts, "|"))
}

// ThemeSet records which themes a text mentions.
type ThemeSet [NumThemes]bool

// Has reports whether t was detected.
func (s ThemeSet) Has(t Theme) bool { return t < NumThemes && s[t] }

// Matched lists the detected themes in declaration order.
func (s ThemeSet) Matched() []Theme {
	var out []Theme
	for i, ok := range s {
		if ok {
			out = append(out, Theme(i))
		}
	}
	return out
}

// ExtractThemes scans the description together with the effect's buff and
// debuff text.
func ExtractThemes(eff world.LawEffect, description string) ThemeSet {
	parts := make([]string, 0, 1+len(eff.Effects.Buff)+len(eff.Effects.Debuff))
	parts = append(parts, description)
	parts = append(parts, eff.Effects.Buff...)
	parts = append(parts, eff.Effects.Debuff...)
	text := strings.Join(parts, " ")

	var set ThemeSet
	for i, re := range themePatterns {
		set[i] = re.MatchString(text)
	}
	return set
}
