package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPageOutOfRange reports a page outside the scanned songbook.
var ErrPageOutOfRange = errors.New("page outside the songbook")

const (
	// FirstVolumeLastPage is the last page scanned into the first volume.
	FirstVolumeLastPage = 500
	// LastPage is the last page of the songbook.
	LastPage = 837
)

// LinkMapper turns page numbers into viewer URLs.
type LinkMapper struct {
	ViewerA string
	ViewerB string
}

// PageToLink maps page to a viewer URL. Pages 1-500 open viewer A at the same
// page; pages 501-837 open viewer B at page-500.
func (m LinkMapper) PageToLink(page int) (string, error) {
	switch {
	case page <= 0 || page > LastPage:
		return "", pageError(page)
	case page <= FirstVolumeLastPage:
		return withPageFragment(m.ViewerA, page), nil
	default:
		return withPageFragment(m.ViewerB, page-FirstVolumeLastPage), nil
	}
}

func withPageFragment(base string, page int) string {
	return strings.TrimRight(base, "#") + "#page=" + strconv.Itoa(page)
}

func pageError(page int) error {
	return fmt.Errorf("%w: %d (valid pages are 1-%d)", ErrPageOutOfRange, page, LastPage)
}
