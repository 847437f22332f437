package parser

import "github.com/Igorofyeshu4/keepgoing/internal/model"

// StatusClassifier tags normalized status text with every taxonomy category
// whose keywords appear in it. Classification is deliberately non-exclusive:
// "APROVADO E QUITADO" satisfies both APPROVED and SETTLED, and downstream
// metrics count keyword hits, not mutually exclusive buckets.
type StatusClassifier struct {
	patterns []StatusPatterns
	inbound  []string
	active   []string
}

// NewStatusClassifier builds a classifier from the keyword tables. Keywords
// are normalized once at construction.
func NewStatusClassifier(patterns []StatusPatterns, channels ChannelPatterns) *StatusClassifier {
	normalized := make([]StatusPatterns, 0, len(patterns))
	for _, p := range patterns {
		kws := make([]string, 0, len(p.Keywords))
		for _, kw := range p.Keywords {
			kws = append(kws, NormalizeText(kw))
		}
		normalized = append(normalized, StatusPatterns{Category: p.Category, Keywords: kws})
	}
	return &StatusClassifier{
		patterns: normalized,
		inbound:  normalizeAll(channels.Inbound),
		active:   normalizeAll(channels.Active),
	}
}

// Classify returns the set of all categories matching the status text. The
// set may be empty (unknown vocabulary, or the "not informed" sentinel).
func (c *StatusClassifier) Classify(status string) model.StatusSet {
	text := NormalizeText(status)
	set := make(model.StatusSet)
	if text == "" || text == NotInformed {
		return set
	}
	for _, p := range c.patterns {
		if ContainsAny(text, p.Keywords) {
			set.Add(p.Category)
		}
	}
	return set
}

// ClassifyChannel maps the active/inbound cell to a channel. Inbound keywords
// are tested first; text matching neither table is ChannelUnknown.
func (c *StatusClassifier) ClassifyChannel(text string) model.Channel {
	t := NormalizeText(text)
	if t == "" || t == NotInformed {
		return model.ChannelUnknown
	}
	if ContainsAny(t, c.inbound) {
		return model.ChannelInbound
	}
	if ContainsAny(t, c.active) {
		return model.ChannelActive
	}
	return model.ChannelUnknown
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, NormalizeText(kw))
	}
	return out
}
