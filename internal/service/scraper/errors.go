package scraper

import "errors"

// ErrAccessRestricted reports that the site gated the current page. It
// aborts the whole traversal; the caller reinitializes the browser session
// before resuming.
var ErrAccessRestricted = errors.New("access has been restricted by site")
