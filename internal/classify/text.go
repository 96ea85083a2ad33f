package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/pkg/hash"
)

// markdownEscaper escapes the 18 MarkdownV2 special characters. Applying it
// twice double-escapes; raw text must be escaped exactly once.
var markdownEscaper = strings.NewReplacer(
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// EscapeMarkdown escapes text for MarkdownV2 message formatting.
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	return markdownEscaper.Replace(text)
}

const videoIDPrefix = "vid_"

// GenerateVideoID derives a short catalog id from the source message and the
// backing store. Identical inputs within the same second collide; the store's
// unique index is the real guarantee.
func GenerateVideoID(sourceRef, store string) string {
	return generateVideoID(sourceRef, store, time.Now())
}

func generateVideoID(sourceRef, store string, now time.Time) (id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("video id hashing failed")
			id = videoIDPrefix + sourceRef
		}
	}()

	raw := store + "_" + sourceRef + "_" + strconv.FormatInt(now.Unix(), 10)
	short := hash.ShortHex(raw, 8)
	if len(short) != 8 {
		return videoIDPrefix + sourceRef
	}
	return videoIDPrefix + short
}

var (
	captionNoiseRe   = regexp.MustCompile(`[#@]`)
	fileExtRe        = regexp.MustCompile(`\.[^.]+$`)
	unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// ExtractVideoTitle picks a title from the first caption line, falling back
// to the filename without extension.
func ExtractVideoTitle(caption, filename string) string {
	if caption != "" {
		title := captionNoiseRe.ReplaceAllString(caption, "")
		title = strings.TrimSpace(strings.SplitN(title, "\n", 2)[0])
		if utf8.RuneCountInString(title) > 3 {
			return truncateRunes(title, 200)
		}
	}
	if filename != "" {
		title := fileExtRe.ReplaceAllString(filename, "")
		title = strings.NewReplacer("_", " ", "-", " ").Replace(title)
		return truncateRunes(title, 200)
	}
	return "Untitled"
}

// CleanFilename strips characters that are unsafe in file names.
func CleanFilename(name string) string {
	if name == "" {
		return "untitled"
	}
	name = unsafeFilenameRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "_")
	return truncateRunes(name, 100)
}

// ValidChannelID reports whether id looks like a Telegram channel id.
func ValidChannelID(id int64) bool {
	return id < 0
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
