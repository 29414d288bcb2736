package normalize

import "strings"

const (
	missingArchivePrefix = "Unpacking failed - There is no archive at"
	glacierPrefix        = "Verification (Amazon Glacier) failed -"
)

// MissingArchiveReason is the bucket for every "no archive at <path>" failure.
const MissingArchiveReason = missingArchivePrefix + " <src>"

// FailureReason collapses failure descriptions that differ only in their
// variable detail (paths, checksums) into a stable grouping key. Descriptions
// that match no rule are returned unchanged.
func FailureReason(desc string) string {
	switch {
	case strings.HasPrefix(desc, missingArchivePrefix):
		return MissingArchiveReason
	case strings.HasPrefix(desc, glacierPrefix):
		head, _, _ := strings.Cut(desc, "-")
		return strings.TrimSpace(head)
	default:
		return desc
	}
}
