package media

import (
	"net/url"
	"path"
	"strings"
)

var videoExts = []string{".mp4", ".webm"}

// IsVideo сообщает, что ссылка ведёт на видео, которое нельзя показать как картинку
// (random.dog иногда отдаёт mp4/webm).
func IsVideo(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(path.Ext(p))
	for _, v := range videoExts {
		if ext == v {
			return true
		}
	}
	return false
}
