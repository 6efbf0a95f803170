package domain

// Article is a search result before any page content has been fetched.
// Empty fields mean the provider did not supply them.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// EnrichedArticle is an Article with the extracted page text.
// FullText is empty when extraction failed or the article had no URL.
type EnrichedArticle struct {
	Article
	FullText string `json:"full_text,omitempty"`
}

type Verdict int

const (
	VerdictIndeterminate Verdict = iota
	VerdictValid
	VerdictInvalid
)

func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalid:
		return "invalid"
	default:
		return "indeterminate"
	}
}

type Digest struct {
	Summary  string            `json:"summary"`
	Articles []EnrichedArticle `json:"articles"`
}
