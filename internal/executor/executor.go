// Package executor performs the per-post actions inside an attached browser:
// opening the reply box, typing the generated reply, liking and following.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ducpham-dev/xpilot/internal/events"
	"github.com/ducpham-dev/xpilot/internal/retry"
	"github.com/ducpham-dev/xpilot/internal/rewriter"
	"github.com/ducpham-dev/xpilot/internal/scanner"
	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

// ErrSkipped is returned when a post was deliberately left alone rather than
// failing.
type ErrSkipped struct {
	Reason string
}

func (e ErrSkipped) Error() string { return "skipped: " + e.Reason }

const (
	// interactTimeout caps one click or script round trip against the page.
	interactTimeout = 15 * time.Second
	// navigateTimeout caps a profile navigation plus its render wait.
	navigateTimeout = 45 * time.Second
)

// Executor acts on one account's posts inside its attached browser.
type Executor struct {
	ctx      context.Context // chromedp context of the attached browser
	st       *store.Store
	rw       *rewriter.Rewriter
	reporter *events.Reporter
	account  types.Account

	mediaDir      string
	downloadMedia bool

	// markReplied updates the session's in-memory replied set after a
	// successful reply.
	markReplied func(id string)

	elementRetry retry.Policy
}

// New creates an Executor bound to the browser context.
func New(ctx context.Context, st *store.Store, rw *rewriter.Rewriter, reporter *events.Reporter, account types.Account, mediaDir string, downloadMedia bool, markReplied func(string)) *Executor {
	return &Executor{
		ctx:           ctx,
		st:            st,
		rw:            rw,
		reporter:      reporter,
		account:       account,
		mediaDir:      mediaDir,
		downloadMedia: downloadMedia,
		markReplied:   markReplied,
		elementRetry:  retry.DefaultElement,
	}
}

// Process rewrites the post and replies to it, then performs the configured
// side actions. The returned Outcome is also published to the reporter.
// An ErrSkipped means the post was intentionally not acted on.
func (e *Executor) Process(post types.Post, fs types.FilterSettings) (types.Outcome, error) {
	start := time.Now()

	if e.downloadMedia && post.HasMedia() {
		if err := e.downloadPostMedia(post); err != nil {
			e.reporter.Warn("executor", e.account.ProfileID, "media download for %s: %v", post.ID, err)
		}
	}

	reply := e.rw.Rewrite(e.ctx, post.Text)
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return types.Outcome{}, ErrSkipped{Reason: "empty reply"}
	}
	if trimmed == strings.TrimSpace(post.Text) {
		return types.Outcome{}, ErrSkipped{Reason: "reply identical to post"}
	}
	if dup, err := e.st.PostedContentExists(e.account.ProfileID, reply); err == nil && dup {
		return types.Outcome{}, ErrSkipped{Reason: "duplicate reply content"}
	}

	if err := e.openReplyBox(post.ID); err != nil {
		return types.Outcome{}, fmt.Errorf("failed to open reply box: %w", err)
	}
	if err := e.composeAndSubmit(reply); err != nil {
		return types.Outcome{}, fmt.Errorf("failed to submit reply: %w", err)
	}

	if err := e.st.AddReplied(e.account.ProfileID, post.ID, post.AuthorHandle, reply); err != nil {
		e.reporter.Error("executor", e.account.ProfileID, "failed to record reply to %s: %v", post.ID, err)
	}
	if err := e.st.AddPosted(e.account.ProfileID, post.ID, post.Text, reply); err != nil {
		e.reporter.Error("executor", e.account.ProfileID, "failed to record posted content for %s: %v", post.ID, err)
	}
	if e.markReplied != nil {
		e.markReplied(post.ID)
	}

	liked := false
	if fs.AutoLike {
		liked = e.likePost(post.ID)
	}
	followed, err := e.CheckVerifiedAndFollow(post)
	if err != nil {
		e.reporter.Warn("executor", e.account.ProfileID, "follow check for %s: %v", post.AuthorHandle, err)
	}

	o := types.Outcome{
		ProfileID:     e.account.ProfileID,
		Username:      post.AuthorHandle,
		OriginalText:  post.Text,
		ReplyText:     reply,
		Timestamp:     time.Now(),
		ReplySuccess:  true,
		LikeSuccess:   liked,
		FollowSuccess: followed,
		LatencyMS:     int(time.Since(start).Milliseconds()),
		CharCount:     len([]rune(reply)),
		Verified:      post.Verified,
		HasMedia:      post.HasMedia(),
		PageURL:       post.URL,
	}
	if extra, err := json.Marshal(map[string]any{"views": post.Views, "likes": post.Likes}); err == nil {
		o.ExtraJSON = string(extra)
	}
	e.reporter.Outcome(o)
	return o, nil
}

// clickInPostJS locates the article containing the post's status link and
// clicks the given control inside it. Scrolling to center first makes the
// click land even when the article is partly off screen.
const clickInPostJS = `
	(function() {
		const link = document.querySelector('a[href*="/status/%s"]');
		const article = link?.closest('article[data-testid="tweet"]');
		const btn = article?.querySelector(%q);
		if (!btn) return false;
		btn.scrollIntoView({block: 'center'});
		btn.click();
		return true;
	})()
`

// run executes the actions with a deadline layered on the browser context, so
// a wait that never resolves fails the step instead of hanging the session.
func (e *Executor) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(e.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (e *Executor) clickInPost(postID, selector string) error {
	js := fmt.Sprintf(clickInPostJS, postID, selector)
	return e.elementRetry.Do(e.ctx, func() error {
		var clicked bool
		if err := e.run(interactTimeout, chromedp.Evaluate(js, &clicked)); err != nil {
			return err
		}
		if !clicked {
			return fmt.Errorf("element %s not found in post %s", selector, postID)
		}
		return nil
	})
}

func (e *Executor) openReplyBox(postID string) error {
	if err := e.clickInPost(postID, scanner.ReplyButton); err != nil {
		return err
	}
	return e.elementRetry.Do(e.ctx, func() error {
		return e.run(interactTimeout, chromedp.WaitVisible(scanner.ComposeTextarea, chromedp.ByQuery))
	})
}

func (e *Executor) composeAndSubmit(reply string) error {
	if err := e.run(interactTimeout,
		chromedp.Click(scanner.ComposeTextarea, chromedp.ByQuery),
		chromedp.SendKeys(scanner.ComposeTextarea, reply, chromedp.ByQuery),
	); err != nil {
		return err
	}
	return e.elementRetry.Do(e.ctx, func() error {
		return e.run(interactTimeout,
			chromedp.Click(scanner.ComposeSubmit, chromedp.ByQuery),
			chromedp.WaitNotPresent(scanner.ComposeTextarea, chromedp.ByQuery),
		)
	})
}

// likePost clicks the like control and confirms the unlike control replaced
// it. Best effort; a failed like never fails the post.
func (e *Executor) likePost(postID string) bool {
	if err := e.clickInPost(postID, scanner.LikeButton); err != nil {
		e.reporter.Warn("executor", e.account.ProfileID, "like failed for %s: %v", postID, err)
		return false
	}

	js := fmt.Sprintf(`
		(function() {
			const link = document.querySelector('a[href*="/status/%s"]');
			const article = link?.closest('article[data-testid="tweet"]');
			return article?.querySelector(%q) !== null;
		})()
	`, postID, scanner.UnlikeButton)

	var liked bool
	err := e.elementRetry.Do(e.ctx, func() error {
		if err := e.run(interactTimeout, chromedp.Evaluate(js, &liked)); err != nil {
			return err
		}
		if !liked {
			return fmt.Errorf("like state not confirmed for %s", postID)
		}
		return nil
	})
	return err == nil && liked
}

// CheckVerifiedAndFollow follows the post's author when they carry a verified
// badge and the account opted in. With the setting off it returns immediately
// without touching the browser. When it does navigate to the author's profile
// it restores the page it left from, so the rest of the pass still finds its
// posts in the timeline DOM.
func (e *Executor) CheckVerifiedAndFollow(post types.Post) (bool, error) {
	fs, err := e.st.GetSettings(e.account.ProfileID)
	if err != nil {
		return false, err
	}
	if !fs.AutoFollowVerified {
		return false, nil
	}
	if !post.Verified || post.AuthorHandle == "" {
		return false, nil
	}

	var returnURL string
	_ = e.run(interactTimeout, chromedp.Location(&returnURL))
	defer e.restoreScanPage(returnURL)

	profileURL := "https://x.com/" + url.PathEscape(post.AuthorHandle)
	if err := e.run(navigateTimeout,
		chromedp.Navigate(profileURL),
		chromedp.WaitVisible(scanner.TweetAuthor, chromedp.ByQuery),
	); err != nil {
		return false, fmt.Errorf("failed to open profile %s: %w", post.AuthorHandle, err)
	}

	// Already following shows the unfollow control instead.
	var following bool
	_ = e.run(interactTimeout, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelector(%q) !== null`, scanner.FollowingButton), &following))
	if following {
		return false, nil
	}

	err = e.elementRetry.Do(e.ctx, func() error {
		return e.run(interactTimeout, chromedp.Click(scanner.FollowButton, chromedp.ByQuery))
	})
	if err != nil {
		return false, fmt.Errorf("failed to follow %s: %w", post.AuthorHandle, err)
	}

	e.reporter.Info("executor", e.account.ProfileID, "followed verified user %s", post.AuthorHandle)
	return true, nil
}

// restoreScanPage brings the browser back to the page the pass was working
// through. Best effort: the next pass re-navigates regardless.
func (e *Executor) restoreScanPage(u string) {
	if u == "" {
		return
	}
	if err := e.run(navigateTimeout,
		chromedp.Navigate(u),
		chromedp.WaitVisible(scanner.WaitForFeed, chromedp.ByQuery),
	); err != nil {
		e.reporter.Warn("executor", e.account.ProfileID, "failed to return to %s: %v", u, err)
	}
}
