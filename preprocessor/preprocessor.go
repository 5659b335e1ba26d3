package preprocessor

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// LogLevel is the severity of a build log entry
type LogLevel string

const (
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogEntry is a diagnostic emitted during preprocessing
type LogEntry struct {
	Level   LogLevel `yaml:"level" json:"level"`
	Message string   `yaml:"message" json:"message"`
}

// Result is the flattened compilation unit together with its diagnostics
type Result struct {
	Text    string
	Logs    []LogEntry
	Success bool
}

// Messages returns the messages of all log entries with the given level
func (r Result) Messages(level LogLevel) []string {
	var messages []string
	for _, entry := range r.Logs {
		if entry.Level == level {
			messages = append(messages, entry.Message)
		}
	}

	return messages
}

// Preprocessor flattens a multi-file script by expanding import directives.
// A Preprocessor holds no per-build state and can be shared between goroutines
// as long as its FileSource can.
type Preprocessor struct {
	Source  FileSource
	Verbose bool
}

// NewPreprocessor creates a Preprocessor reading from the local file system
func NewPreprocessor(verbose bool) *Preprocessor {
	return &Preprocessor{
		Source:  OSFileSource{},
		Verbose: verbose,
	}
}

// Preprocess expands import directives starting at entryFile
func Preprocess(entryFile string, verbose bool) Result {
	return NewPreprocessor(verbose).Process(entryFile)
}

// Process expands import directives starting at entryFile.
// Failures never abort the walk: each one is logged, replaced by an inline
// comment, and clears Result.Success.
func (p *Preprocessor) Process(entryFile string) Result {
	source := p.Source
	if source == nil {
		source = OSFileSource{}
	}

	b := &build{
		source:  source,
		verbose: p.Verbose,
		visited: make(map[string]bool),
		success: true,
	}

	text := b.processFile(entryFile, nil)

	return Result{
		Text:    text,
		Logs:    b.logs,
		Success: b.success,
	}
}

// reference is the directive location that pulled a file in
type reference struct {
	file string
	line int
}

func (r *reference) suffix() string {
	if r == nil {
		return ""
	}

	return fmt.Sprintf(" (referenced from %s:%d)", r.file, r.line)
}

// build is the state of one Process call
type build struct {
	source  FileSource
	verbose bool
	visited map[string]bool
	stack   []string
	logs    []LogEntry
	success bool
}

func (b *build) log(level LogLevel, format string, args ...any) {
	b.logs = append(b.logs, LogEntry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (b *build) fail(format string, args ...any) {
	b.log(LevelError, format, args...)
	b.success = false
}

func (b *build) processFile(path string, ref *reference) string {
	absPath, err := b.source.Canonical(path)
	if err != nil {
		display := path
		if abs, absErr := filepath.Abs(path); absErr == nil {
			display = abs
		}
		b.fail("File not found: %s%s", display, ref.suffix())

		return fmt.Sprintf("// Error: Missing file %s\n", path)
	}

	if b.visited[absPath] || slices.Contains(b.stack, absPath) {
		if b.verbose {
			b.log(LevelInfo, "Skipping (already included): %s", path)
		}

		return ""
	}

	if b.verbose {
		b.log(LevelInfo, "%sProcessing: %s", strings.Repeat("  ", len(b.stack)), path)
	}

	b.visited[absPath] = true
	b.stack = append(b.stack, absPath)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	content, err := b.source.ReadFile(absPath)
	if err != nil {
		b.fail("Could not read %s: %v%s", absPath, err, ref.suffix())
		return fmt.Sprintf("// Error: Could not read %s\n", path)
	}

	var out strings.Builder
	out.Grow(len(content) * 2)

	lineNo := 0
	for line := range strings.Lines(string(content)) {
		lineNo++
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		// Commented lines are never inspected for directives
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
			out.WriteString(line)
			out.WriteByte('\n')

			continue
		}

		directive, ok := ParseDirective(line)
		if !ok {
			if looksLikeImport(line) {
				b.log(LevelWarn, "Ignoring malformed import directive at %s:%d: %s", absPath, lineNo, strings.TrimSpace(line))
			}
			out.WriteString(line)
			out.WriteByte('\n')

			continue
		}

		target := resolvePath(absPath, directive.Path)
		out.WriteString(b.processFile(target, &reference{file: absPath, line: lineNo}))
	}

	return out.String()
}
