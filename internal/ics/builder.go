package ics

import "strings"

// builder accumulates content lines in order and joins them once.
// Output uses bare "\n" separators with no folding and no property
// value escaping, matching documents produced by earlier versions of
// this application.
type builder struct {
	lines []string
}

// prop appends a single NAME:value content line.
func (b *builder) prop(name, value string) {
	b.lines = append(b.lines, name+":"+value)
}

func (b *builder) String() string {
	return strings.Join(b.lines, "\n")
}
