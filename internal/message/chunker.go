package message

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength fits one SMS segment once gateway and carrier overhead
// is added.
const DefaultMaxLength = 95

// maxNumberedPerChunk caps how many "N." appointment lines share one part.
const maxNumberedPerChunk = 2

var numberedLine = regexp.MustCompile(`^\d+\.`)

// Chunker splits a message into ordered, trimmed parts that are each safe
// to send as one gateway email. It holds no mutable state.
type Chunker struct {
	maxLength int
}

func NewChunker(maxLength int) *Chunker {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Chunker{maxLength: maxLength}
}

// MaxLength returns the configured part length limit in characters.
func (c *Chunker) MaxLength() int { return c.maxLength }

// Split walks the message line by line. A third numbered line arriving at a
// non-empty chunk starts a new chunk (with a blank spacer line that trimming
// removes). Once at least one chunk exists, a chunk that grows past the max
// length is flushed immediately. Messages without numbered lines are split
// purely by length.
func (c *Chunker) Split(msg string) []string {
	lines := strings.Split(msg, "\n")
	if !hasNumberedLine(lines) {
		return c.splitByLength(lines)
	}

	var (
		chunks   []string
		current  string
		numbered int
	)
	flush := func() {
		if s := strings.TrimSpace(current); s != "" {
			chunks = append(chunks, s)
		}
		current = ""
		numbered = 0
	}

	for _, line := range lines {
		if numberedLine.MatchString(line) {
			if numbered == maxNumberedPerChunk && strings.TrimSpace(current) != "" {
				flush()
				current = "\n" + line
				numbered = 1
				continue
			}
			numbered++
		}

		if current != "" {
			current += "\n"
		}
		current += line

		if utf8.RuneCountInString(current) > c.maxLength && len(chunks) > 0 {
			flush()
		}
	}
	flush()

	return chunks
}

// splitByLength packs whole lines into chunks of at most maxLength
// characters, wrapping over-long lines on word boundaries.
func (c *Chunker) splitByLength(lines []string) []string {
	whole := strings.TrimSpace(strings.Join(lines, "\n"))
	if whole == "" {
		return nil
	}
	if utf8.RuneCountInString(whole) <= c.maxLength {
		return []string{whole}
	}

	var (
		chunks  []string
		current string
	)
	for _, line := range lines {
		for _, piece := range c.wrap(line) {
			candidate := piece
			if current != "" {
				candidate = current + "\n" + piece
			}
			if utf8.RuneCountInString(strings.TrimSpace(candidate)) > c.maxLength && strings.TrimSpace(current) != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = piece
				continue
			}
			current = candidate
		}
	}
	if s := strings.TrimSpace(current); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// wrap breaks one line into pieces no longer than maxLength.
func (c *Chunker) wrap(line string) []string {
	if utf8.RuneCountInString(line) <= c.maxLength {
		return []string{line}
	}

	var (
		pieces []string
		cur    string
	)
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > c.maxLength {
			if cur != "" {
				pieces = append(pieces, cur)
				cur = ""
			}
			r := []rune(word)
			pieces = append(pieces, string(r[:c.maxLength]))
			word = string(r[c.maxLength:])
		}
		switch {
		case word == "":
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= c.maxLength:
			cur += " " + word
		default:
			pieces = append(pieces, cur)
			cur = word
		}
	}
	if cur != "" {
		pieces = append(pieces, cur)
	}
	return pieces
}

// IsNumberedLine reports whether line starts an enumerated appointment entry.
func IsNumberedLine(line string) bool {
	return numberedLine.MatchString(line)
}

func hasNumberedLine(lines []string) bool {
	for _, l := range lines {
		if numberedLine.MatchString(l) {
			return true
		}
	}
	return false
}
