package diag

import (
	"bytes"
	"fmt"
	"strings"
)

// ContextLines renders up to two lines before errorLine plus errorLine
// itself, with a caret under errorCol. It returns "" when errorLine is not
// in src.
func ContextLines(src string, errorLine, errorCol int) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	if errorLine < 1 || errorLine > len(lines) {
		return ""
	}

	var result bytes.Buffer

	startLine := errorLine - 2
	if startLine < 1 {
		startLine = 1
	}

	for i := startLine; i <= errorLine; i++ {
		lineContent := lines[i-1]
		if i != errorLine {
			fmt.Fprintf(&result, "     %3d | %s\n", i, lineContent)
			continue
		}

		margin := fmt.Sprintf("  >  %3d | ", i)
		fmt.Fprintf(&result, "%s%s\n", margin, lineContent)

		runes := []rune(lineContent)
		col := errorCol - 1
		if col < 0 {
			col = 0
		}
		if col > len(runes) {
			col = len(runes)
		}
		result.WriteString(replaceVisibleWithSpaces(margin + string(runes[:col])))
		result.WriteString("^ here")
	}

	return result.String()
}

// replaceVisibleWithSpaces replaces all non-whitespace characters with spaces
// while preserving tabs for correct alignment.
func replaceVisibleWithSpaces(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
