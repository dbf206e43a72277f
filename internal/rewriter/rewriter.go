// Package rewriter turns a scraped post into a short reply by sending it
// through a generative API, then sanitizing the result into something safe to
// type into a compose box.
package rewriter

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Fallback is returned whenever generation fails or produces nothing usable.
// It reads as a harmless filler reply rather than an error.
const Fallback = "Hmm"

const (
	cacheSize  = 512
	defaultTTL = 300 * time.Second
)

// Provider defines the interface for generative APIs.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Rewriter handles prompt construction, generation and result cleanup.
// Identical inputs within the TTL are served from an in-memory memo so a
// session re-seeing the same post does not burn another API call.
type Rewriter struct {
	provider Provider
	cache    *expirable.LRU[string, string]
}

// Option configures a Rewriter.
type Option func(*options)

type options struct {
	ttl time.Duration
}

// WithTTL overrides the memo lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// New creates a Rewriter backed by the given provider.
func New(provider Provider, opts ...Option) *Rewriter {
	o := options{ttl: defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Rewriter{
		provider: provider,
		cache:    expirable.NewLRU[string, string](cacheSize, nil, o.ttl),
	}
}

// Rewrite produces a reply for the post text. It never returns an empty
// string and never returns an error; every failure collapses to Fallback so
// the caller can decide whether a filler reply is worth posting.
func (r *Rewriter) Rewrite(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback
	}

	if cached, ok := r.cache.Get(text); ok {
		return cached
	}

	lang := detectLanguage(text)
	prompt := BuildPrompt(text, lang)

	raw, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("rewriter: generation failed: %v", err)
		return Fallback
	}

	reply := trimQuotes(strings.TrimSpace(raw))
	reply = Clean(reply)
	if reply == "" {
		return Fallback
	}

	// A leading space keeps the compose box from autocompleting the first
	// word into a mention or cashtag. Prefixed before truncation so the
	// space counts against the length budget too.
	reply = Truncate(" " + reply)

	r.cache.Add(text, reply)
	return reply
}

// detectLanguage returns the ISO 639-3 code of the text, defaulting to
// English when detection is unreliable.
func detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "eng"
	}
	code := whatlanggo.LangToString(info.Lang)
	if code == "" {
		return "eng"
	}
	return code
}

// trimQuotes strips one layer of wrapping quotes that models like to add.
func trimQuotes(s string) string {
	for _, pair := range [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}, {"「", "」"}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			return strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}
