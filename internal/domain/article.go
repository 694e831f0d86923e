package domain

// Article is a raw feed entry as produced by the source.
// Published keeps the textual form from the feed until the recency
// filter normalizes it; Content is already stripped of HTML and
// length-capped.
type Article struct {
	Title     string
	Link      string
	Published string
	Content   string
}

// ProcessedArticle is the unit handed to the knowledge store and the
// notifier, and returned to the caller as the batch result. Never
// mutated after creation.
type ProcessedArticle struct {
	TitleJA   string `json:"title_ja"`
	URL       string `json:"url"`
	SummaryJA string `json:"summary_ja"`
	Published string `json:"published"`
}
