package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	width   int
	isSpace bool
}

// wrapCaption breaks text into lines no wider than width, preferring to
// break at spaces. Words longer than width are split.
func wrapCaption(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1
	for _, r := range text {
		item := cell{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '}
		if item.isSpace && lineWidth+item.width > width {
			// A space at the edge ends the line.
			lines = append(lines, renderCells(line))
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			continue
		}
		for lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				lines = append(lines, renderCells(line[:lastSpaceIdx]))
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
			} else {
				lines = append(lines, renderCells(line))
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
	}
	lines = append(lines, renderCells(line))
	return lines
}

func renderCells(line []cell) string {
	var b strings.Builder
	for _, item := range line {
		b.WriteRune(item.r)
	}
	return strings.TrimRight(b.String(), " ")
}

func lineWidthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
