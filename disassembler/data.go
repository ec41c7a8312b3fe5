package disassembler

import (
	"fmt"
	"strings"
)

// isPrintableASCII checks if a byte is a standard printable ASCII character.
func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E && b != '\''
}

// analyzeAndFormatData renders bytes that are not reachable code as db lines.
// NUL-terminated printable runs of four or more characters become labelled strings.
func analyzeAndFormatData(data []byte, stringCounter *int) string {
	var sb strings.Builder
	n := len(data)
	if n == 0 {
		return ""
	}

	i := 0
	minStrLen := 4

	for i < n {
		// Skip non-printables first
		start := i
		for start < n && !isPrintableASCII(data[start]) {
			start++
		}
		if start > i {
			sb.WriteString(formatHexBytes(data[i:start]))
		}

		// Find printable run
		end := start
		for end < n && isPrintableASCII(data[end]) {
			end++
		}
		if end <= start {
			i = start
			continue
		}

		run := data[start:end]
		isNullTerminated := end < n && data[end] == 0x00

		if isNullTerminated && len(run) >= minStrLen {
			label := fmt.Sprintf("string%d:", *stringCounter)
			(*stringCounter)++
			fmt.Fprintf(&sb, "%s\n    db '%s', 00h\n", label, run)
			i = end + 1
			continue
		}

		sb.WriteString(formatHexBytes(run))
		i = end
	}

	return sb.String()
}

// formatHexBytes formats a slice of bytes into db directives, 8 bytes per line.
func formatHexBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	const bytesPerLine = 8

	for i := 0; i < len(data); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(data) {
			end = len(data)
		}

		sb.WriteString("    db ")
		for j, b := range data[i:end] {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s", hexByte(b))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// hexByte writes a byte the way the assembler reads it back, with a leading
// zero before a letter digit.
func hexByte(b byte) string {
	s := fmt.Sprintf("%02Xh", b)
	if s[0] >= 'A' {
		s = "0" + s
	}
	return s
}
