// Package scanner navigates an attached browser to the configured page and
// snapshots the posts on it.
package scanner

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ducpham-dev/xpilot/internal/types"
)

const (
	baseURL = "https://x.com"

	// maxScrolls bounds a single scan pass so a session cannot get stuck
	// scrolling an infinite timeline.
	maxScrolls = 10

	// pageLoadTimeout caps a navigation plus its render wait. A page that
	// never shows a timeline (logged out, rate limited, network down) fails
	// the pass instead of parking the session on a WaitVisible forever.
	pageLoadTimeout = 45 * time.Second

	// evalTimeout caps a single script round trip.
	evalTimeout = 15 * time.Second
)

// Scanner extracts posts from an attached browser context.
type Scanner struct {
	ctx context.Context
}

// New creates a Scanner bound to a chromedp context.
func New(ctx context.Context) *Scanner {
	return &Scanner{ctx: ctx}
}

// run executes the actions with a deadline layered on the browser context.
func (s *Scanner) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// PageURL returns the page a session scans in the given mode. The account's
// own profile page is used for comments mode; trending mode searches for the
// first configured keyword.
func PageURL(mode types.Mode, ownUsername, keywords string) string {
	switch mode {
	case types.ModeUser:
		target := firstKeyword(keywords)
		if target == "" {
			return baseURL + "/home"
		}
		return baseURL + "/" + url.PathEscape(types.NormalizeHandle(target))
	case types.ModeComments:
		return baseURL + "/" + url.PathEscape(types.NormalizeHandle(ownUsername))
	case types.ModeTrending:
		kw := firstKeyword(keywords)
		if kw == "" {
			return baseURL + "/home"
		}
		return fmt.Sprintf("%s/search?q=%%23%s&src=trend_click&vertical=trends", baseURL, url.QueryEscape(strings.TrimPrefix(kw, "#")))
	default:
		return baseURL + "/home"
	}
}

func firstKeyword(keywords string) string {
	for _, kw := range strings.Split(keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			return kw
		}
	}
	return ""
}

// Navigate loads the scan page and waits for the timeline to render.
func (s *Scanner) Navigate(mode types.Mode, ownUsername, keywords string) error {
	u := PageURL(mode, ownUsername, keywords)
	if err := s.run(pageLoadTimeout,
		chromedp.Navigate(u),
		chromedp.WaitVisible(WaitForFeed, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to load %s: %w", u, err)
	}
	return nil
}

// rawPost represents the raw data extracted from the DOM via JavaScript
type rawPost struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	AuthorHandle string   `json:"authorHandle"`
	AuthorName   string   `json:"authorName"`
	Content      string   `json:"content"`
	MediaURLs    []string `json:"mediaUrls"`
	Timestamp    string   `json:"timestamp"`
	Likes        string   `json:"likes"`
	Retweets     string   `json:"retweets"`
	Replies      string   `json:"replies"`
	Views        string   `json:"views"`
	Verified     bool     `json:"verified"`
	IsRetweet    bool     `json:"isRetweet"`
	IsReply      bool     `json:"isReply"`
}

// extractJS snapshots every visible tweet in one DOM pass. The ID comes from
// the article's status link, falling back to the anchor wrapping the time
// element; articles without either are dropped.
const extractJS = `
	(function() {
		const tweets = document.querySelectorAll('article[data-testid="tweet"]');
		const results = [];

		tweets.forEach(el => {
			try {
				const statusLink = el.querySelector('a[href*="/status/"]');
				let href = statusLink?.href || '';
				let id = href.match(/status\/(\d+)/)?.[1];
				if (!id) {
					const timeAnchor = el.querySelector('time')?.closest('a');
					href = timeAnchor?.href || '';
					id = href.match(/status\/(\d+)/)?.[1];
				}
				if (!id) return;

				const userNameEl = el.querySelector('[data-testid="User-Name"]');
				let authorHandle = '';
				let authorName = '';
				let verified = false;
				if (userNameEl) {
					const handleLink = userNameEl.querySelector('a[href^="/"]');
					if (handleLink) {
						authorHandle = handleLink.getAttribute('href')?.replace('/', '') || '';
					}
					const nameSpan = userNameEl.querySelector('span');
					authorName = nameSpan?.textContent || '';
					verified = userNameEl.querySelector('[data-testid="icon-verified"]') !== null;
				}

				const tweetTextEl = el.querySelector('[data-testid="tweetText"]');
				const content = tweetTextEl?.textContent || '';

				const mediaUrls = [];
				const mediaEls = el.querySelectorAll('[data-testid="tweetPhoto"] img, [data-testid="videoPlayer"] video');
				mediaEls.forEach(m => {
					const src = m.src || m.poster;
					if (src) mediaUrls.push(src);
				});

				const timeEl = el.querySelector('time');
				const timestamp = timeEl?.getAttribute('datetime') || '';

				const getMetric = (testId) => {
					const metricEl = el.querySelector('[data-testid="' + testId + '"]');
					if (!metricEl) return '0';
					const ariaLabel = metricEl.getAttribute('aria-label');
					if (ariaLabel) {
						const match = ariaLabel.match(/^([\d,.]+[KkMm]?)/);
						return match ? match[1] : '0';
					}
					return metricEl.textContent?.trim() || '0';
				};

				// View counts only appear on the analytics link's aria-label.
				let views = '0';
				const analyticsEl = el.querySelector('a[href*="/analytics"]');
				const viewsLabel = analyticsEl?.getAttribute('aria-label') || '';
				const viewsMatch = viewsLabel.match(/^([\d,.]+[KkMm]?)/);
				if (viewsMatch) views = viewsMatch[1];

				const socialContext = el.querySelector('[data-testid="socialContext"]');
				const isRetweet = socialContext?.textContent?.toLowerCase().includes('repost') ||
				                  socialContext?.textContent?.toLowerCase().includes('retweeted') || false;

				const isReply = el.textContent?.includes('Replying to') || false;

				results.push({
					id,
					url: href,
					authorHandle,
					authorName,
					content,
					mediaUrls,
					timestamp,
					likes: getMetric('like'),
					retweets: getMetric('retweet'),
					replies: getMetric('reply'),
					views,
					verified,
					isRetweet,
					isReply
				});
			} catch (e) {
				console.error('Error extracting tweet:', e);
			}
		});

		return results;
	})()
`

// Scan scrolls the page up to maxScrolls times and returns the unique posts
// seen, in first-seen order. Duplicate IDs within the pass are dropped.
func (s *Scanner) Scan(count int) ([]types.Post, error) {
	var posts []types.Post
	seenIDs := make(map[string]bool)

	for scroll := 0; scroll < maxScrolls && len(posts) < count; scroll++ {
		visible, err := s.extractVisible()
		if err != nil {
			return nil, err
		}
		posts = appendUnique(posts, seenIDs, visible)

		if err := s.scroll(); err != nil {
			return nil, err
		}
		time.Sleep(time.Duration(500+scroll*100) * time.Millisecond)
	}

	if len(posts) > count {
		posts = posts[:count]
	}
	return posts, nil
}

// appendUnique keeps the first sighting of each post ID. The timeline renders
// the same tweet more than once across scroll positions, so later duplicates
// are dropped.
func appendUnique(posts []types.Post, seen map[string]bool, visible []types.Post) []types.Post {
	for _, p := range visible {
		if !seen[p.ID] {
			seen[p.ID] = true
			posts = append(posts, p)
		}
	}
	return posts
}

// extractVisible parses currently visible tweets.
func (s *Scanner) extractVisible() ([]types.Post, error) {
	var rawPosts []rawPost
	if err := s.run(evalTimeout, chromedp.Evaluate(extractJS, &rawPosts)); err != nil {
		return nil, fmt.Errorf("failed to extract posts from DOM: %w", err)
	}
	return convertRawPosts(rawPosts), nil
}

func convertRawPosts(rawPosts []rawPost) []types.Post {
	posts := make([]types.Post, 0, len(rawPosts))
	now := time.Now()

	for _, rp := range rawPosts {
		if rp.ID == "" {
			continue
		}

		var timestamp time.Time
		if rp.Timestamp != "" {
			if parsed, err := time.Parse(time.RFC3339, rp.Timestamp); err == nil {
				timestamp = parsed
			}
		}

		posts = append(posts, types.Post{
			ID:           rp.ID,
			URL:          rp.URL,
			AuthorHandle: types.NormalizeHandle(rp.AuthorHandle),
			AuthorName:   rp.AuthorName,
			Text:         rp.Content,
			MediaURLs:    rp.MediaURLs,
			Timestamp:    timestamp,
			Likes:        parseMetric(rp.Likes),
			Retweets:     parseMetric(rp.Retweets),
			Replies:      parseMetric(rp.Replies),
			Views:        parseMetric(rp.Views),
			Verified:     rp.Verified,
			IsRetweet:    rp.IsRetweet,
			IsReply:      rp.IsReply,
			ScrapedAt:    now,
		})
	}
	return posts
}

// scroll scrolls the page down
func (s *Scanner) scroll() error {
	return s.run(evalTimeout,
		chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil),
	)
}

// LoggedIn reports whether the timeline shows the signed-in chrome.
func (s *Scanner) LoggedIn() bool {
	var found bool
	err := s.run(evalTimeout, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelector(%q) !== null`, HomeIndicator), &found))
	return err == nil && found
}

// parseMetric converts abbreviated metric strings like "1.2K", "5.7M", or "423" to integers
func parseMetric(s string) int {
	if s == "" {
		return 0
	}

	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	if strings.HasSuffix(strings.ToUpper(s), "K") {
		multiplier = 1000
		s = s[:len(s)-1]
	} else if strings.HasSuffix(strings.ToUpper(s), "M") {
		multiplier = 1000000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return int(value * multiplier)
}
