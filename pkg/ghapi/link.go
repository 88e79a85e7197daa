package ghapi

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

var lastLinkPattern = regexp.MustCompile(`<(https?://[^>]+)>;\s*rel="last"`)

// lastPage extracts the page count from a Link header. An empty header
// means the list fits on a single page.
func lastPage(header string) (int, error) {
	if header == "" {
		return 1, nil
	}

	matches := lastLinkPattern.FindStringSubmatch(header)
	if matches == nil {
		return 0, fmt.Errorf("%w: no rel=\"last\" link in %q", ErrInvalidLinkHeader, header)
	}

	link, err := url.Parse(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidLinkHeader, err)
	}

	page, err := strconv.Atoi(link.Query().Get("page"))
	if err != nil || page < 0 {
		return 0, fmt.Errorf("%w: no page number in %q", ErrInvalidLinkHeader, matches[1])
	}

	return page, nil
}
