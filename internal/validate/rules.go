package validate

import "github.com/sortdhq/sortd/internal/types"

// Rule tables for bucket/type legality and triage transitions. New item
// types or buckets are additions here, not edits scattered across call
// sites.

// bucketsByType lists the buckets each item type may occupy.
var bucketsByType = map[types.ItemType][]types.Bucket{
	types.TypeAction: {
		types.BucketInbox, types.BucketNext, types.BucketWaiting,
		types.BucketScheduled, types.BucketSomeday, types.BucketDone,
	},
	types.TypeProject: {
		types.BucketInbox, types.BucketNext, types.BucketSomeday, types.BucketDone,
	},
	types.TypeNote: {
		types.BucketInbox, types.BucketSomeday,
	},
}

// transitionsFrom lists the buckets reachable from each source bucket.
// done -> inbox is the reopen path.
var transitionsFrom = map[types.Bucket][]types.Bucket{
	types.BucketInbox: {
		types.BucketNext, types.BucketWaiting, types.BucketScheduled,
		types.BucketSomeday, types.BucketDone,
	},
	types.BucketNext: {
		types.BucketWaiting, types.BucketScheduled, types.BucketSomeday, types.BucketDone,
	},
	types.BucketWaiting: {
		types.BucketNext, types.BucketScheduled, types.BucketSomeday, types.BucketDone,
	},
	types.BucketScheduled: {
		types.BucketNext, types.BucketWaiting, types.BucketSomeday, types.BucketDone,
	},
	types.BucketSomeday: {
		types.BucketInbox, types.BucketNext, types.BucketScheduled, types.BucketDone,
	},
	types.BucketDone: {
		types.BucketInbox,
	},
}

// BucketAllowed reports whether bucket is legal for the given item type.
func BucketAllowed(t types.ItemType, b types.Bucket) bool {
	for _, allowed := range bucketsByType[t] {
		if allowed == b {
			return true
		}
	}
	return false
}

// TransitionAllowed reports whether an item may move from one bucket to
// another.
func TransitionAllowed(from, to types.Bucket) bool {
	for _, allowed := range transitionsFrom[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
