// Package rowindex locates the sheet rows that belong to a candidate.
package rowindex

import (
	"net/url"
	"strings"

	"github.com/okian/sourceqa/internal/domain/model"
)

const reviewedYes = "yes"

// FindMatchingRows returns the slice positions of the rows for id, in scan
// order.
//
// The first pass claims the first row with the exact name, no owner and a
// reviewed marker other than "yes". When nothing is claimable, the second
// pass returns every row with the exact name whose normalized identity URL
// equals the caller's; several hits are duplicates of one person.
func FindMatchingRows(rows []model.Row, id model.Identity) []int {
	for i := range rows {
		r := &rows[i]
		if r.Name == id.Name && r.Owner == "" && !strings.EqualFold(r.Reviewed, reviewedYes) {
			return []int{i}
		}
	}

	want := NormalizeProfileURL(id.URL)
	if want == "" {
		return nil
	}
	var out []int
	for i := range rows {
		r := &rows[i]
		if r.Name != id.Name || r.IdentityURL == "" {
			continue
		}
		if NormalizeProfileURL(r.IdentityURL) == want {
			out = append(out, i)
		}
	}
	return out
}

// NormalizeProfileURL reads s as a query string and returns its first
// decoded key. Profile URLs are stored percent-encoded, sometimes with
// tracking pairs appended after '&'.
func NormalizeProfileURL(s string) string {
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			return decoded
		}
		return key
	}
	return ""
}
