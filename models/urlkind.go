package models

// URLKind is the result of classifying a discovered link before fetching it.
type URLKind int

const (
	URLUnknown URLKind = iota
	URLArticle          // a news article worth fetching
	URLAdPage           // advertisement or promotion landing page
	URLDownload         // app-download or store page
)

func (k URLKind) String() string {
	switch k {
	case URLArticle:
		return "article"
	case URLAdPage:
		return "ad"
	case URLDownload:
		return "download"
	default:
		return "unknown"
	}
}
