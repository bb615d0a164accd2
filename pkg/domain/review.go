package domain

import "time"

// ItemKind classifies the structural origin of a review item.
type ItemKind string

const (
	KindHeading   ItemKind = "heading"
	KindListItem  ItemKind = "list-item"
	KindParagraph ItemKind = "paragraph"
	KindCode      ItemKind = "code"
)

// Item is one independently reviewable unit of a document.
// IDs are zero-based ordinals assigned in document order and are contiguous
// within a session; insertion order is semantically meaningful.
type Item struct {
	// ID is the stable ordinal identifier, unique within a session.
	ID int `json:"id"`

	// Kind describes which structural element produced the item.
	Kind ItemKind `json:"kind"`

	// Level is the heading depth (1-6). Zero for non-headings.
	Level int `json:"level,omitempty"`

	// Text is the rendered display content of the unit.
	Text string `json:"text"`

	// Raw preserves the original markdown for the unit, when it differs from Text.
	Raw string `json:"raw,omitempty"`

	// Section is the text of the enclosing heading, when any. Display-only:
	// sections are not independently checkable unless the heading stands
	// alone with no content.
	Section string `json:"section,omitempty"`

	// Checked defaults to true: unreviewed items are treated as approved.
	Checked bool `json:"checked"`

	// Comment is optional reviewer feedback. Empty when absent.
	Comment string `json:"comment"`
}

// SessionStatus defines the lifecycle state of a review session.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusSubmitted SessionStatus = "submitted"
	StatusCancelled SessionStatus = "cancelled"
	StatusTimedOut  SessionStatus = "timedout"
)

// Terminal reports whether the status is final. Terminal sessions are
// immutable and are released once the coordinator returns.
func (s SessionStatus) Terminal() bool {
	return s == StatusSubmitted || s == StatusCancelled || s == StatusTimedOut
}

// Session is one in-progress review cycle from document submission to human
// decision. Items are written exactly once, by the accepted submission.
type Session struct {
	// ID is a unique token generated per review.
	ID string

	// Title is the descriptive label supplied by the caller.
	Title string

	// Items holds the ordered reviewable units.
	Items []Item

	// Status tracks the lifecycle state.
	Status SessionStatus

	// CreatedAt records session creation time.
	CreatedAt time.Time

	// Deadline is the optional review cutoff. Zero means no deadline.
	Deadline time.Time
}

// Summary holds derived decision counts. It is computed from items at read
// time and never stored.
type Summary struct {
	Total     int `json:"total"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Commented int `json:"commentedCount"`
}

// Summarize derives the decision counts for a set of items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		if it.Checked {
			s.Approved++
		} else {
			s.Rejected++
		}
		if it.Comment != "" {
			s.Commented++
		}
	}
	return s
}

// ReviewResult is the structured outcome returned to the calling workflow.
type ReviewResult struct {
	Status  SessionStatus `json:"status"`
	Items   []Item        `json:"items"`
	Summary Summary       `json:"summary"`
}

// NewResult builds a ReviewResult for the given terminal status and items.
func NewResult(status SessionStatus, items []Item) *ReviewResult {
	return &ReviewResult{
		Status:  status,
		Items:   items,
		Summary: Summarize(items),
	}
}

// CopyItems returns a deep copy of the item slice so callers cannot mutate
// shared state through the original backing array.
func CopyItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
