package model

import "strings"

// TransactionBlock is a contiguous span of statement text believed to
// describe exactly one transaction. Blocks are produced by the segmenter and
// discarded after amount/date extraction and merchant resolution.
type TransactionBlock struct {
	HeaderLine string   // the date-anchored line that opened the block
	BodyLines  []string // remaining lines, in source order
}

// Lines returns the header followed by the body lines.
func (b *TransactionBlock) Lines() []string {
	lines := make([]string, 0, len(b.BodyLines)+1)
	lines = append(lines, b.HeaderLine)
	lines = append(lines, b.BodyLines...)
	return lines
}

// Text joins the block back into a single string.
func (b *TransactionBlock) Text() string {
	return strings.Join(b.Lines(), "\n")
}

// NonEmptyLines counts lines with visible content.
func (b *TransactionBlock) NonEmptyLines() int {
	n := 0
	for _, line := range b.Lines() {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
