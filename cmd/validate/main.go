package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vnovel/novella/pkg/script"
)

var dump = flag.Bool("dump", false, "print the normalized form of valid scripts")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-dump] <script.nes> [...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	failed := 0
	for _, filename := range flag.Args() {
		if err := validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d file(s) failed validation\n", failed, flag.NArg())
		os.Exit(1)
	}
}

var validScriptName = regexp.MustCompile(`^[a-z0-9_]+$`)

func validateFile(filename string) error {
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".nes") {
		return fmt.Errorf("script file must have .nes extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".nes")
	if !validScriptName.MatchString(nameWithoutExt) {
		return fmt.Errorf("script filename %q must be lowercase snake_case", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	prog, err := script.Parse(nameWithoutExt, string(data))
	if err != nil {
		var syntaxErr *script.SyntaxError
		var blockErr *script.UnterminatedBlockError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &blockErr):
			return err
		default:
			return fmt.Errorf("parse failed: %w", err)
		}
	}

	fmt.Printf("%s: ok (%d instructions)\n", filename, len(prog.Instructions))
	if *dump {
		fmt.Print(prog.Serialize())
	}
	return nil
}
