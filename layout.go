package stage

import "strings"

// Measurer reports rendered text extents for one font and size.
type Measurer interface {
	MeasureString(s string) int
	LineHeight() int
}

// Layout is the result of wrapping text into a box.
type Layout struct {
	Lines  []string
	Height int // total rendered height of Lines

	// Inserted counts runes in Lines that are not in the source text: the
	// hyphens and spaces that mark a word cut across lines.
	Inserted int
}

// Text returns the laid-out lines joined back together.
func (l Layout) Text() string {
	return strings.Join(l.Lines, "")
}

// Wrap lays text out inside a content box of width x height pixels. With
// wrap disabled it produces exactly one line, trimmed character by character
// until it fits. With wrap enabled lines are filled greedily, preferring to
// break between words; a word cut across lines gets a trailing hyphen.
// Lines that would overflow the height are discarded.
func Wrap(text string, m Measurer, width, height int, wrap bool) Layout {
	lh := max(m.LineHeight(), 1)
	src := []rune(text)
	first := fitLine(src, m, width, !wrap)
	lines := [][]rune{first}
	if !wrap {
		return newLayout(lines, lh, 0)
	}

	// inserted counts runes present in lines but not in src (hyphens and
	// doubled break spaces), so that consumed positions can be recovered.
	inserted := 0
	for {
		occupied := lh * len(lines)
		final := occupied+2*lh >= height
		if occupied > height {
			var merged bool
			lines, merged = dropOverflow(lines)
			if merged && inserted > 0 {
				inserted--
			}
			break
		}

		consumed := 0
		for _, l := range lines {
			consumed += len(l)
		}
		consumed -= inserted
		if consumed >= len(src) {
			break
		}
		next := fitLine(src[consumed:], m, width, final)
		if len(next) == 0 {
			break
		}

		prev := lines[len(lines)-1]
		if len(prev) == 0 {
			lines = append(lines, next)
			continue
		}
		carried := prev[len(prev)-1]
		if carried != ' ' && carried != '-' && next[0] != ' ' {
			// The break falls inside a word: move the last rune of the
			// previous line forward and mark the cut.
			mark := '-'
			if len(prev) >= 2 && prev[len(prev)-2] == ' ' {
				mark = ' '
			}
			cut := make([]rune, len(prev))
			copy(cut, prev)
			cut[len(cut)-1] = mark
			lines[len(lines)-1] = cut
			inserted++
			rest := append([]rune{carried}, next...)
			lines = append(lines, fitLine(rest, m, width, final))
			continue
		}
		lines = append(lines, next)
	}
	return newLayout(lines, lh, inserted)
}

// dropOverflow discards the last line. If the previous line ends in a
// hyphen marking a cut into the discarded line, the cut rune is restored
// and the second result is true.
func dropOverflow(lines [][]rune) ([][]rune, bool) {
	n := len(lines)
	if n >= 2 {
		prev, last := lines[n-2], lines[n-1]
		if len(prev) > 0 && prev[len(prev)-1] == '-' && len(last) > 0 && last[0] != ' ' {
			restored := make([]rune, len(prev))
			copy(restored, prev)
			restored[len(restored)-1] = last[0]
			lines[n-2] = restored
			return lines[:n-1], true
		}
	}
	return lines[:n-1], false
}

// fitLine trims line until it fits width. Whole trailing words are dropped
// first; single runes are dropped when only one word remains or when
// runeWise is set. A dropped trailing hyphen is put back, and a line that
// ends on a word boundary keeps its trailing space.
func fitLine(line []rune, m Measurer, width int, runeWise bool) []rune {
	text := line
	var pruned rune
	spaced := false
	for len(text) > 0 && m.MeasureString(string(text)) > width {
		cut := lastSpace(text)
		if cut < 0 || runeWise {
			pruned = text[len(text)-1]
			text = text[:len(text)-1]
			spaced = false
			continue
		}
		text = text[:cut]
		spaced = true
	}
	out := make([]rune, len(text), len(text)+1)
	copy(out, text)
	switch {
	case spaced:
		out = append(out, ' ')
	case pruned == '-':
		out = append(out, '-')
	}
	return out
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}

func newLayout(lines [][]rune, lh, inserted int) Layout {
	out := Layout{Lines: make([]string, len(lines)), Height: lh * len(lines), Inserted: inserted}
	for i, l := range lines {
		out.Lines[i] = string(l)
	}
	return out
}
