package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	cdbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// ControlClient talks to the local profile manager that launches browser
// profiles and exposes their DevTools ports.
type ControlClient struct {
	baseURL string
	http    *http.Client
}

// NewControlClient returns a client for the manager at baseURL, e.g.
// "http://127.0.0.1:19995".
func NewControlClient(baseURL string) *ControlClient {
	return &ControlClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type startResponse struct {
	Success   bool   `json:"success"`
	DebugPort int    `json:"debug_port"`
	Message   string `json:"message"`
}

// StartProfile asks the manager to launch the profile's browser and returns
// the remote debugging port. Any non-200 status or missing port is an error;
// no browser handle exists in that case.
func (c *ControlClient) StartProfile(ctx context.Context, profileID string) (int, error) {
	u := fmt.Sprintf("%s/api/v3/profiles/start/%s", c.baseURL, url.PathEscape(profileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("profile manager unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("profile manager returned status %d for profile %s", resp.StatusCode, profileID)
	}

	var sr startResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("failed to decode start response: %w", err)
	}
	if sr.DebugPort <= 0 {
		return 0, fmt.Errorf("profile manager returned no debug port for profile %s: %s", profileID, sr.Message)
	}
	return sr.DebugPort, nil
}

// Browser is an attached profile browser. Close releases the chromedp
// contexts but leaves the browser process to the profile manager.
type Browser struct {
	Ctx    context.Context
	cancel []context.CancelFunc
}

// Close tears down the chromedp session.
func (b *Browser) Close() {
	for i := len(b.cancel) - 1; i >= 0; i-- {
		b.cancel[i]()
	}
}

// Minimize collapses the browser window so a running session stays out of
// the operator's way.
func (b *Browser) Minimize() error {
	return chromedp.Run(b.Ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		windowID, _, err := cdbrowser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return err
		}
		bounds := &cdbrowser.Bounds{WindowState: cdbrowser.WindowStateMinimized}
		return cdbrowser.SetWindowBounds(windowID, bounds).Do(ctx)
	}))
}

// Attach connects chromedp to an already-running browser on the given
// DevTools port and validates the connection with a trivial script.
func Attach(ctx context.Context, port int) (*Browser, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, fmt.Sprintf("http://127.0.0.1:%d", port))
	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))

	var ready bool
	checkCtx, cancelCheck := context.WithTimeout(taskCtx, 15*time.Second)
	defer cancelCheck()
	if err := chromedp.Run(checkCtx, chromedp.Evaluate(`true`, &ready)); err != nil {
		cancelTask()
		cancelAlloc()
		return nil, fmt.Errorf("failed to attach to browser on port %d: %w", port, err)
	}

	return &Browser{
		Ctx:    taskCtx,
		cancel: []context.CancelFunc{cancelAlloc, cancelTask},
	}, nil
}
