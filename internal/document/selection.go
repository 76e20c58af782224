package document

import "fmt"

// Selection addresses a range of content by block key and rune offset.
//
// Anchor is where the selection started and Focus is where it ends; when
// Backward is set the focus precedes the anchor in document order.
type Selection struct {
	AnchorKey    string
	AnchorOffset int
	FocusKey     string
	FocusOffset  int
	Backward     bool
}

// Collapsed returns a caret selection at key/offset.
func Collapsed(key string, offset int) Selection {
	return Selection{AnchorKey: key, AnchorOffset: offset, FocusKey: key, FocusOffset: offset}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool {
	return s.AnchorKey == s.FocusKey && s.AnchorOffset == s.FocusOffset
}

// IsZero reports whether the selection addresses nothing.
func (s Selection) IsZero() bool {
	return s.AnchorKey == "" && s.FocusKey == ""
}

// StartKey returns the key of the block where the selection starts.
func (s Selection) StartKey() string {
	if s.Backward {
		return s.FocusKey
	}
	return s.AnchorKey
}

// StartOffset returns the offset where the selection starts.
func (s Selection) StartOffset() int {
	if s.Backward {
		return s.FocusOffset
	}
	return s.AnchorOffset
}

// EndKey returns the key of the block where the selection ends.
func (s Selection) EndKey() string {
	if s.Backward {
		return s.AnchorKey
	}
	return s.FocusKey
}

// EndOffset returns the offset where the selection ends.
func (s Selection) EndOffset() int {
	if s.Backward {
		return s.AnchorOffset
	}
	return s.FocusOffset
}

// CollapseToStart returns a caret at the selection start.
func (s Selection) CollapseToStart() Selection {
	return Collapsed(s.StartKey(), s.StartOffset())
}

// CollapseToEnd returns a caret at the selection end.
func (s Selection) CollapseToEnd() Selection {
	return Collapsed(s.EndKey(), s.EndOffset())
}

// HasEdgeWithin reports whether the start or end lies in block key
// within [start,end].
func (s Selection) HasEdgeWithin(key string, start, end int) bool {
	if s.StartKey() == key && s.StartOffset() >= start && s.StartOffset() <= end {
		return true
	}
	return s.EndKey() == key && s.EndOffset() >= start && s.EndOffset() <= end
}

// String returns a compact debug representation.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("%s:%d", s.AnchorKey, s.AnchorOffset)
	}
	return fmt.Sprintf("%s:%d-%s:%d", s.StartKey(), s.StartOffset(), s.EndKey(), s.EndOffset())
}
