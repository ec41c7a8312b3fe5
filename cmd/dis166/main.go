package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Urethramancer/c166/disassembler"
	"github.com/Urethramancer/c166/isa"
	"github.com/davecgh/go-spew/spew"
	"github.com/grimdork/climate/arg"
)

func main() {
	opt := arg.New("dis166")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "b", "base", "Load address of the first byte (hex).", "0", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "l", "linear", "Decode every word without flow analysis.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "e", "extended", "Resolve short addresses in the ESFR window.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "d", "dump", "Dump every decoded instruction instead of a listing.", false, false, arg.VarBool, nil)
	opt.SetPositional("INPUT", "Binary file to disassemble.", "", true, arg.VarString)
	opt.SetPositional("OUTPUT", "Listing file. Standard output if omitted.", "", false, arg.VarString)

	err := opt.Parse(os.Args[1:])
	if err != nil {
		if err == arg.ErrNoArgs {
			opt.PrintHelp()
			return
		}
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	base, err := parseBase(opt.GetString("base"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid base address: %v\n", err)
		os.Exit(1)
	}

	code, err := os.ReadFile(opt.GetPosString("INPUT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	opts := disassembler.Options{
		Extended: opt.GetBool("extended"),
		Linear:   opt.GetBool("linear"),
	}

	var text string
	if opt.GetBool("dump") {
		text = dump(code, base, opts)
	} else {
		text, err = disassembler.Disassemble(code, base, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Disassembly error: %v\n", err)
			os.Exit(1)
		}
	}

	outputFile := opt.GetPosString("OUTPUT")
	if outputFile == "" {
		fmt.Print(text)
		return
	}

	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Disassembly written to %s\n", outputFile)
}

// dump decodes linearly and prints the full metadata of every instruction.
func dump(code []byte, base uint32, opts disassembler.Options) string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	var sb strings.Builder
	for pc := 0; pc < len(code); {
		inst, err := disassembler.Decode(code[pc:], base+uint32(pc), opts)
		if err != nil {
			fmt.Fprintf(&sb, "%06X: %v\n", base+uint32(pc), err)
			if errors.Is(err, isa.ErrTruncated) {
				break
			}
			pc++
			continue
		}
		fmt.Fprintf(&sb, "%06X: %s\n%s", inst.Address, inst.Text, cfg.Sdump(inst))
		pc += len(inst.Bytes)
	}
	return sb.String()
}

func parseBase(s string) (uint32, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(s), "0x"), "h")
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}
