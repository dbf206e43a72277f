package executor

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// downloadLimit caps concurrent media fetches per post.
const downloadLimit = 3

var mediaClient = &http.Client{Timeout: 30 * time.Second}

// downloadPostMedia saves the post's photos and video posters under the media
// directory, one subdirectory per post. A failed URL fails the whole batch
// but never the reply itself; the caller only logs it.
func (e *Executor) downloadPostMedia(post types.Post) error {
	dir := filepath.Join(e.mediaDir, e.account.ProfileID, post.ID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(e.ctx)
	g.SetLimit(downloadLimit)

	for i, mediaURL := range post.MediaURLs {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
			if err != nil {
				return err
			}
			resp, err := mediaClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", mediaURL, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("media fetch %s returned status %d", mediaURL, resp.StatusCode)
			}

			dest := filepath.Join(dir, mediaFileName(mediaURL, i))
			f, err := os.Create(dest)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(f, resp.Body)
			return err
		})
	}
	return g.Wait()
}

// mediaFileName derives a stable local name from the URL path, falling back
// to the batch index when the path gives nothing usable.
func mediaFileName(rawURL string, idx int) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return fmt.Sprintf("media_%d", idx)
}
