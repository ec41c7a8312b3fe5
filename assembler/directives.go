package assembler

import (
	"fmt"
	"strings"
)

var directives = map[string]bool{
	"db":   true,
	"dw":   true,
	"even": true,
}

func isDirective(mn string) bool {
	return directives[strings.ToLower(mn)]
}

// getDirectiveSize calculates the byte size of a directive for the sizing pass.
//
// Note: pc is passed so even can be sized correctly.
func (asm *Assembler) getDirectiveSize(n *Node, pc uint32) (uint32, error) {
	args := n.Statement.Args
	switch n.Statement.Mnemonic {
	case "even":
		if len(args) != 0 {
			return 0, fmt.Errorf("%w: even takes no arguments", ErrSyntax)
		}
		return pc % 2, nil
	case "db":
		var size uint32
		for _, arg := range args {
			if s, ok := quoted(arg); ok {
				size += uint32(len(s))
			} else {
				size++
			}
		}
		return size, nil
	case "dw":
		return 2 * uint32(len(args)), nil
	}
	return 0, fmt.Errorf("%w: unknown directive %s", ErrSyntax, n.Statement.Mnemonic)
}

// generateDirectiveCode generates the binary data for assembler directives.
func (asm *Assembler) generateDirectiveCode(n *Node, pc uint32) ([]byte, error) {
	args := n.Statement.Args
	switch n.Statement.Mnemonic {
	case "even":
		return make([]byte, pc%2), nil

	case "db", "dw":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s requires at least one value", ErrSyntax, n.Statement.Mnemonic)
		}
		return asm.assembleData(n.Statement.Mnemonic, args)

	default:
		return nil, fmt.Errorf("%w: unknown directive %s", ErrSyntax, n.Statement.Mnemonic)
	}
}

// assembleData generates bytes for db and dw. Words are stored little-endian.
// Quoted strings are allowed in db only.
func (asm *Assembler) assembleData(directive string, args []string) ([]byte, error) {
	var buf []byte
	for _, arg := range args {
		if s, ok := quoted(arg); ok {
			if directive != "db" {
				return nil, fmt.Errorf("%w: strings are only allowed in db", ErrSyntax)
			}
			buf = append(buf, s...)
			continue
		}

		val, err := asm.parseConstant(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid constant '%s': %w", arg, err)
		}
		switch directive {
		case "db":
			if val < -0x80 || val > 0xFF {
				return nil, fmt.Errorf("%w: %s does not fit a byte", ErrSyntax, arg)
			}
			buf = append(buf, byte(val))
		case "dw":
			if val < -0x8000 || val > 0xFFFF {
				return nil, fmt.Errorf("%w: %s does not fit a word", ErrSyntax, arg)
			}
			buf = append(buf, byte(val), byte(val>>8))
		}
	}
	return buf, nil
}

// parseConstant reads a number or, for dw, a label address.
func (asm *Assembler) parseConstant(s string) (int64, error) {
	if reLabel.MatchString(s) && !reHex.MatchString(s) {
		if addr, ok := asm.labels[strings.ToLower(s)]; ok {
			return int64(addr & 0xFFFF), nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUndefinedLabel, s)
	}
	val, _, err := ParseNumber(s)
	return val, err
}

func quoted(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}
