package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Urethramancer/c166/assembler"
	"github.com/grimdork/climate/arg"
	"golang.org/x/term"
)

func main() {
	opt := arg.New("as166")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "b", "base", "Load address of the first byte (hex).", "0", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "o", "output", "Binary output file.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "x", "hex", "Print the code as hex words.", false, false, arg.VarBool, nil)
	opt.SetPositional("INPUT", "Source file. Without one, assemble lines typed at the terminal.", "", false, arg.VarString)

	err := opt.Parse(os.Args[1:])
	if err != nil && err != arg.ErrNoArgs {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	base, err := parseBase(opt.GetString("base"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid base address: %v\n", err)
		os.Exit(1)
	}

	inputFile := opt.GetPosString("INPUT")
	if inputFile == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			opt.PrintHelp()
			return
		}
		if err := interactive(base); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	asm := assembler.New()
	code, err := asm.Assemble(string(data), base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inputFile, err)
		os.Exit(1)
	}

	if out := opt.GetString("output"); out != "" {
		if err := os.WriteFile(out, code, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		if !opt.GetBool("hex") {
			return
		}
	}
	fmt.Println(hexWords(code))
}

// interactive assembles one line at a time, each at the address following
// the previous one.
func interactive(base uint32) error {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, state)

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, "")

	pc := base
	for {
		t.SetPrompt(fmt.Sprintf("%06X> ", pc))
		line, err := t.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		code, err := assembler.New().Assemble(line, pc)
		if err != nil {
			fmt.Fprintf(t, "%v\r\n", err)
			continue
		}
		fmt.Fprintf(t, "%06X: %s\r\n", pc, hexWords(code))
		pc += uint32(len(code))
	}
}

// hexWords prints code as space-separated 16-bit words in memory order.
func hexWords(code []byte) string {
	var words []string
	for i := 0; i < len(code); i += 2 {
		end := i + 2
		if end > len(code) {
			end = len(code)
		}
		words = append(words, strings.ToUpper(hex.EncodeToString(code[i:end])))
	}
	return strings.Join(words, " ")
}

func parseBase(s string) (uint32, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(s), "0x"), "h")
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}
