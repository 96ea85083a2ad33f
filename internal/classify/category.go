// Package classify derives catalog metadata from free-text captions and
// filenames. Every function is pure and absorbs malformed input into a
// documented fallback instead of failing.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

// num captures ASCII or Bengali decimal digits.
const num = `([0-9\x{09E6}-\x{09EF}]+)`

// adultKeywords are matched as lower-case substrings and win over any series marker.
var adultKeywords = []string{
	"18+", "adult", "xxx", "porn", "sex", "nsfw", "🔞", "onlyfans", "explicit",
}

type rule struct {
	name     string
	pattern  *regexp.Regexp
	category model.Category
}

// seriesRules are evaluated in order, first match wins.
var seriesRules = []rule{
	{"compact", regexp.MustCompile(`[Ss]` + num + `[Ee]` + num), model.CategorySeries},
	{"season", regexp.MustCompile(`[Ss]eason\s*` + num), model.CategorySeries},
	{"episode", regexp.MustCompile(`[Ee]pisode\s*` + num), model.CategorySeries},
	{"ep", regexp.MustCompile(`[Ee]p\s*` + num), model.CategorySeries},
	{"bn-episode", regexp.MustCompile(`পর্ব\s*` + num), model.CategorySeries},
	{"bn-season", regexp.MustCompile(`সিজন\s*` + num), model.CategorySeries},
}

// DetectCategory guesses the category of a caption. Adult keywords are checked
// before series markers; anything else is a movie.
func DetectCategory(text string) model.Category {
	if strings.TrimSpace(text) == "" {
		return model.CategoryMovie
	}

	lower := strings.ToLower(text)
	for _, kw := range adultKeywords {
		if strings.Contains(lower, kw) {
			return model.CategoryAdult
		}
	}

	for _, r := range seriesRules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return model.CategoryMovie
}

var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Ss]` + num + `[Ee]` + num),
	regexp.MustCompile(`(?i)season\s*` + num + `.*?episode\s*` + num),
	regexp.MustCompile(`সিজন\s*` + num + `.*?পর্ব\s*` + num),
}

// ExtractEpisodeInfo returns the season and episode numbers of the first
// matching pattern. ok is false when nothing matches.
func ExtractEpisodeInfo(text string) (season, episode int, ok bool) {
	if text == "" {
		return 0, 0, false
	}
	for _, re := range episodePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		s, errS := parseNumber(m[1])
		e, errE := parseNumber(m[2])
		if errS != nil || errE != nil {
			continue
		}
		return s, e, true
	}
	return 0, 0, false
}

// parseNumber converts a run of ASCII or Bengali digits to an int.
func parseNumber(s string) (int, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '০' && r <= '৯' {
			r = '0' + (r - '০')
		}
		b.WriteRune(r)
	}
	return strconv.Atoi(b.String())
}
