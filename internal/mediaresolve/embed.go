package mediaresolve

import (
	"regexp"
	"strings"

	"streamvault/models"
)

const (
	youtubeEmbedBase   = "https://www.youtube.com/embed/"
	youtubePlayerQuery = "?autoplay=0&controls=1&rel=0&modestbranding=1&showinfo=0&iv_load_policy=3"
	vimeoPlayerBase    = "https://player.vimeo.com/video/"
	vimeoPlayerQuery   = "?autoplay=0&title=0&byline=0&portrait=0&pip=0"
)

var (
	// First quoted src attribute anywhere in the snippet. Unquoted values are
	// not matched and entities are left as written.
	iframeSrcPattern = regexp.MustCompile(`src=["']([^"']+)["']`)

	// Order matters: the player tries each <source> in turn.
	nativeVideoTypes = []string{"video/mp4", "video/webm", "video/ogg"}
	videoExtensions  = []string{".mp4", ".webm", ".ogg"}
)

// embedStrategy inspects a raw embed value and reports whether it produced a result.
type embedStrategy struct {
	name    string
	resolve func(raw string) (models.EmbedResult, bool)
}

// embedStrategies is evaluated in order; the first match wins.
var embedStrategies = []embedStrategy{
	{name: "empty", resolve: resolveEmpty},
	{name: "iframe", resolve: resolveIframeSnippet},
	{name: "youtube", resolve: httpOnly(resolveYouTube)},
	{name: "vimeo", resolve: httpOnly(resolveVimeo)},
	{name: "video-file", resolve: httpOnly(resolveVideoFile)},
	{name: "generic", resolve: httpOnly(resolveGenericURL)},
}

// ResolveEmbed normalizes a stored embed value (iframe snippet, provider page
// URL or direct file URL) into something the player can render. Values that
// are neither iframe markup nor http(s) URLs resolve to an empty result.
func ResolveEmbed(raw string) models.EmbedResult {
	for _, strategy := range embedStrategies {
		if result, ok := strategy.resolve(raw); ok {
			return result
		}
	}
	return unresolved()
}

// strategyFor reports which strategy resolves raw, or "" when none does.
func strategyFor(raw string) string {
	for _, strategy := range embedStrategies {
		if _, ok := strategy.resolve(raw); ok {
			return strategy.name
		}
	}
	return ""
}

func unresolved() models.EmbedResult {
	return models.EmbedResult{Kind: models.EmbedKindUnresolved}
}

func iframe(url string) models.EmbedResult {
	return models.EmbedResult{EmbedURL: url, IsEmbedCode: true, Kind: models.EmbedKindIframe}
}

func httpOnly(next func(string) (models.EmbedResult, bool)) func(string) (models.EmbedResult, bool) {
	return func(raw string) (models.EmbedResult, bool) {
		if !strings.HasPrefix(raw, "http") {
			return models.EmbedResult{}, false
		}
		return next(raw)
	}
}

func resolveEmpty(raw string) (models.EmbedResult, bool) {
	if raw != "" {
		return models.EmbedResult{}, false
	}
	return unresolved(), true
}

func resolveIframeSnippet(raw string) (models.EmbedResult, bool) {
	if !strings.Contains(raw, "<iframe") || !strings.Contains(raw, "src=") {
		return models.EmbedResult{}, false
	}
	m := iframeSrcPattern.FindStringSubmatch(raw)
	if len(m) < 2 {
		return models.EmbedResult{}, false
	}
	return iframe(m[1]), true
}

func resolveYouTube(raw string) (models.EmbedResult, bool) {
	if !strings.Contains(raw, "youtube.com") && !strings.Contains(raw, "youtu.be") {
		return models.EmbedResult{}, false
	}

	var videoID string
	switch {
	case strings.Contains(raw, "youtu.be/"):
		_, rest, _ := strings.Cut(raw, "youtu.be/")
		videoID, _, _ = strings.Cut(rest, "?")
	case strings.Contains(raw, "youtube.com/watch?v="):
		_, rest, _ := strings.Cut(raw, "v=")
		videoID, _, _ = strings.Cut(rest, "&")
	case strings.Contains(raw, "youtube.com/embed/"):
		return iframe(raw), true
	}

	if videoID == "" {
		return models.EmbedResult{}, false
	}
	return iframe(youtubeEmbedBase + videoID + youtubePlayerQuery), true
}

func resolveVimeo(raw string) (models.EmbedResult, bool) {
	if !strings.Contains(raw, "vimeo.com") {
		return models.EmbedResult{}, false
	}
	last := raw[strings.LastIndex(raw, "/")+1:]
	videoID, _, _ := strings.Cut(last, "?")
	if videoID == "" {
		return models.EmbedResult{}, false
	}
	return iframe(vimeoPlayerBase + videoID + vimeoPlayerQuery), true
}

func resolveVideoFile(raw string) (models.EmbedResult, bool) {
	if !IsDirectVideo(raw) {
		return models.EmbedResult{}, false
	}
	sources := make([]models.VideoSource, 0, len(nativeVideoTypes))
	for _, mimeType := range nativeVideoTypes {
		sources = append(sources, models.VideoSource{Src: raw, Type: mimeType})
	}
	return models.EmbedResult{
		EmbedURL: raw,
		Kind:     models.EmbedKindVideo,
		Sources:  sources,
	}, true
}

func resolveGenericURL(raw string) (models.EmbedResult, bool) {
	return iframe(raw), true
}

// IsDirectVideo reports whether the URL names a file the browser can play natively.
func IsDirectVideo(raw string) bool {
	for _, ext := range videoExtensions {
		if strings.Contains(raw, ext) {
			return true
		}
	}
	return false
}
