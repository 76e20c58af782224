package document

// stack is a persistent singly-linked stack of content snapshots.
// Pushing and popping never modify an existing node, so States sharing a
// stack prefix stay valid.
type stack struct {
	content *Content
	next    *stack
	size    int
}

func (s *stack) push(c *Content) *stack {
	return &stack{content: c, next: s, size: s.len() + 1}
}

func (s *stack) peek() *Content {
	if s == nil {
		return nil
	}
	return s.content
}

func (s *stack) pop() *stack {
	if s == nil {
		return nil
	}
	return s.next
}

func (s *stack) len() int {
	if s == nil {
		return 0
	}
	return s.size
}

// truncate keeps at most n of the most recent entries.
func (s *stack) truncate(n int) *stack {
	if s.len() <= n {
		return s
	}
	items := make([]*Content, 0, n)
	for cur := s; cur != nil && len(items) < n; cur = cur.next {
		items = append(items, cur.content)
	}
	var out *stack
	for i := len(items) - 1; i >= 0; i-- {
		out = out.push(items[i])
	}
	return out
}
