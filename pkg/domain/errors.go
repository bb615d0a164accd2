package domain

import "errors"

// ErrEmptyDocument is returned when the input contains no reviewable content.
var ErrEmptyDocument = errors.New("document has no reviewable content")

// ErrSessionInProgress is returned by a store when a session is created
// while another is still pending. The coordinator never surfaces this to
// callers: admission queues on the session gate instead.
var ErrSessionInProgress = errors.New("another review session is in progress")

// ErrUnknownSession is returned when a session ID cannot be found in the store.
var ErrUnknownSession = errors.New("session not found")

// ErrStaleSession is returned when an operation targets a session that has
// already reached a terminal state.
var ErrStaleSession = errors.New("session already resolved")

// ErrItemMismatch is returned when a submission does not enumerate exactly
// the item IDs of the original session.
var ErrItemMismatch = errors.New("submitted items do not match session items")

// ErrReviewTimeout is returned by the coordinator when the deadline elapses
// before a submission arrives.
var ErrReviewTimeout = errors.New("review timed out")

// ErrReviewCancelled is returned by the coordinator when the review is
// aborted, either by the caller or from the review page.
var ErrReviewCancelled = errors.New("review cancelled")
