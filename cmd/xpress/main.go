package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/michaelblawrence/xpress-calc/internal/config"
	"github.com/michaelblawrence/xpress-calc/internal/vm"
	xpress "github.com/michaelblawrence/xpress-calc/pkg/embed"
)

func loadConfig() *config.Config {
	dir, err := os.Getwd()
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Discover(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		return config.Default()
	}
	return cfg
}

func newSession(cfg *config.Config) *xpress.Session {
	var session *xpress.Session
	if cfg.Seed != nil {
		session = xpress.NewSessionWithSeed(*cfg.Seed)
	} else {
		session = xpress.NewSession()
	}
	session.VM().SetDiagnosticHandler(func(message string) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", message)
	})
	return session
}

func evalAndPrint(session *xpress.Session, source string) bool {
	result, ok, err := session.Eval(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return false
	}
	if ok {
		fmt.Println(formatNumber(result))
	}
	return true
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "-help" && os.Args[1] != "--help" && os.Args[1] != "help" {
		return false
	}

	fmt.Printf("Usage: %s [options] [file]\n", filepath.Base(os.Args[0]))
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -e <expr>        Evaluate an expression and print the result")
	fmt.Println("  -d <expr>        Compile an expression and print its bytecode")
	fmt.Println("  fmt [file]       Reformat source from a file or stdin")
	fmt.Println("  help             Show this message")
	fmt.Println()
	fmt.Println("With no arguments, reads from stdin. On an interactive terminal")
	fmt.Println("this starts a session where bindings persist between lines.")
	return true
}

func handleEval(cfg *config.Config) bool {
	if len(os.Args) < 3 {
		return false
	}
	if os.Args[1] != "-e" && os.Args[1] != "--eval" {
		return false
	}

	session := newSession(cfg)
	if !evalAndPrint(session, strings.Join(os.Args[2:], " ")) {
		os.Exit(1)
	}
	return true
}

func handleDisasm(cfg *config.Config) bool {
	if len(os.Args) < 3 {
		return false
	}
	if os.Args[1] != "-d" && os.Args[1] != "--disasm" {
		return false
	}

	program, err := xpress.Compile(strings.Join(os.Args[2:], " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(vm.Disassemble(program))
	return true
}

func handleFmt(cfg *config.Config) bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "fmt" {
		return false
	}

	var source string
	if len(os.Args) >= 3 {
		data, err := os.ReadFile(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
			os.Exit(1)
		}
		source = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			os.Exit(1)
		}
		source = string(data)
	}

	formatted, err := xpress.Format(source, cfg.FormatMode())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(formatted)
	return true
}

func runFile(cfg *config.Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	session := newSession(cfg)
	if !evalAndPrint(session, string(data)) {
		os.Exit(1)
	}
}

func runInteractive(cfg *config.Config) {
	session := newSession(cfg)
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(cfg.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if interactive && (line == "exit" || line == "quit") {
			break
		}
		evalAndPrint(session, line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	cfg := loadConfig()

	if handleHelp() {
		return
	}
	if handleEval(cfg) {
		return
	}
	if handleDisasm(cfg) {
		return
	}
	if handleFmt(cfg) {
		return
	}

	if len(os.Args) >= 2 && !strings.HasPrefix(os.Args[1], "-") {
		runFile(cfg, os.Args[1])
		return
	}

	runInteractive(cfg)
}
