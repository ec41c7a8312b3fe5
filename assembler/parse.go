package assembler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Urethramancer/c166/isa"
)

// Statement is one parsed source line.
type Statement struct {
	Label    string
	Mnemonic string
	Operands []Operand
	// Args holds the raw arguments of a directive.
	Args []string
}

// Empty reports whether the line held nothing but a label or a comment.
func (s Statement) Empty() bool {
	return s.Mnemonic == ""
}

var reLabelDef = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// ParseLine parses the first line of text, which ends at a newline, a NUL
// byte or the end of input. It returns the statement and how many bytes of
// text were consumed, terminator included.
func ParseLine(text string) (Statement, int, error) {
	end := strings.IndexAny(text, "\n\x00")
	consumed := len(text)
	if end >= 0 {
		consumed = end + 1
	} else {
		end = len(text)
	}

	st, err := parseStatement(text[:end])
	return st, consumed, err
}

func parseStatement(line string) (Statement, error) {
	var st Statement
	line = strings.TrimSpace(stripComment(strings.TrimSuffix(line, "\r")))

	if m := reLabelDef.FindStringSubmatch(line); m != nil {
		// Operands like "each" always read as numbers, so such a label could
		// never be referenced.
		if reHex.MatchString(m[1]) {
			return st, fmt.Errorf("%w: label %s reads as a hex number", ErrSyntax, m[1])
		}
		st.Label = strings.ToLower(m[1])
		line = strings.TrimSpace(line[len(m[0]):])
	}
	if line == "" {
		return st, nil
	}

	mnemonic, operandStr := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		mnemonic, operandStr = line[:i], strings.TrimSpace(line[i:])
	}
	st.Mnemonic = strings.ToLower(mnemonic)

	if isDirective(st.Mnemonic) {
		if operandStr != "" {
			st.Args = splitOperands(operandStr)
		}
		return st, nil
	}

	if len(isa.ByMnemonic(st.Mnemonic)) == 0 {
		return st, fmt.Errorf("%w: %s", ErrUnknownMnemonic, mnemonic)
	}
	if operandStr == "" {
		return st, nil
	}
	for _, s := range splitOperands(operandStr) {
		op, err := ParseOperand(s)
		if err != nil {
			return st, err
		}
		st.Operands = append(st.Operands, op)
	}
	return st, nil
}

// stripComment drops everything after a ';' outside quotes.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'', '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

// splitOperands splits an operand string by commas, but ignores commas inside
// brackets and quotes.
func splitOperands(s string) []string {
	var result []string
	bracketLevel := 0
	inQuote := false
	last := 0
	for i, r := range s {
		switch r {
		case '\'', '"':
			inQuote = !inQuote
		case '[':
			bracketLevel++
		case ']':
			bracketLevel--
		case ',':
			if bracketLevel == 0 && !inQuote {
				result = append(result, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	result = append(result, strings.TrimSpace(s[last:]))
	return result
}
