package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

// SheetCodeError is returned when a sheet code cannot be built. Callers must
// treat it as "classification unavailable", not as a real code.
const SheetCodeError = "Full:vid_error"

var titleEpisodeRe = regexp.MustCompile(`[Ee]p?\.?\s*` + num)

// GenerateSheetCode labels a video for the sheet export: SxxEyy when both
// season and episode are known, "Ep N" recovered from the title, or "Full".
func GenerateSheetCode(v model.Video) (code string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("video_id", v.VideoID).Msg("sheet code generation failed")
			code = SheetCodeError
		}
	}()

	id := v.VideoID
	if id == "" {
		id = "unknown"
	}

	var label string
	switch {
	case v.Season != nil && v.Episode != nil && *v.Season != 0 && *v.Episode != 0:
		label = fmt.Sprintf("S%02dE%02d", *v.Season, *v.Episode)
	default:
		if m := titleEpisodeRe.FindStringSubmatch(v.Title); m != nil {
			label = "Ep " + m[1]
		} else {
			label = "Full"
		}
	}
	return label + ":" + id
}

// GenerateBatchSheetCodes orders videos by (season, episode), missing values
// counting as zero, and joins their sheet codes with commas.
func GenerateBatchSheetCodes(videos []model.Video) string {
	if len(videos) == 0 {
		return ""
	}
	sorted := make([]model.Video, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := intOrZero(sorted[i].Season), intOrZero(sorted[j].Season)
		if si != sj {
			return si < sj
		}
		return intOrZero(sorted[i].Episode) < intOrZero(sorted[j].Episode)
	})

	codes := make([]string, 0, len(sorted))
	for _, v := range sorted {
		codes = append(codes, GenerateSheetCode(v))
	}
	return strings.Join(codes, ",")
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
