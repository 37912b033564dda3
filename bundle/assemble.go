// Package bundle combines a rendered tree index and fetched file contents
// into one formatted output string.
package bundle

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hayeah/repobundle/content"
	"github.com/hayeah/repobundle/internal/metrics"
)

// ErrNoRecords is returned when assembly is attempted with no content
// records; generation fails fast rather than emitting an empty bundle.
var ErrNoRecords = errors.New("no content records to assemble")

// boundary visually separates file sections.
const boundary = "================================================"

// Assembler produces bundles, optionally recording per-section output
// metrics.
type Assembler struct {
	Metrics *metrics.OutputMetrics
}

// Assemble combines the repository label, the rendered structure, and the
// content records into the final bundle text. It performs no I/O and is a
// deterministic string transform: identical inputs produce byte-identical
// output. Binary records render a MIME placeholder instead of their
// payload.
func (a *Assembler) Assemble(repoLabel, structureText string, records []content.Record) (string, error) {
	var buf strings.Builder
	if err := a.AssembleTo(&buf, repoLabel, structureText, records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AssembleTo writes the bundle to w.
func (a *Assembler) AssembleTo(w io.Writer, repoLabel, structureText string, records []content.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	fmt.Fprintf(w, "Repository: %s\n\n", repoLabel)

	fmt.Fprintln(w, "Directory structure:")
	fmt.Fprintln(w)
	io.WriteString(w, structureText)
	if structureText != "" && !strings.HasSuffix(structureText, "\n") {
		fmt.Fprintln(w)
	}

	for _, record := range records {
		fmt.Fprintln(w)
		fmt.Fprintln(w, boundary)
		fmt.Fprintf(w, "FILE: %s\n", record.Path)
		fmt.Fprintln(w, boundary)

		if record.Binary {
			fmt.Fprintf(w, "[binary file omitted: %s]\n", record.MimeType)
			a.measure(record.Path, "")
			continue
		}

		language := languageForPath(record.Path)
		fmt.Fprintf(w, "```%s\n", language)
		io.WriteString(w, record.Text)
		if record.Text != "" && !strings.HasSuffix(record.Text, "\n") {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "```")

		a.measure(record.Path, record.Text)
	}

	return nil
}

func (a *Assembler) measure(path, text string) {
	if a.Metrics != nil {
		a.Metrics.Add("file", path, []byte(text))
	}
}

// Assemble is the package-level convenience without metrics.
func Assemble(repoLabel, structureText string, records []content.Record) (string, error) {
	var a Assembler
	return a.Assemble(repoLabel, structureText, records)
}

// languageForPath picks a fenced code block language tag from the file
// extension; empty when unknown.
func languageForPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".go":
		return "go"
	case ".js", ".jsx":
		return "javascript"
	case ".py":
		return "python"
	case ".rb":
		return "ruby"
	case ".java":
		return "java"
	case ".c", ".cpp", ".h", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case ".ts", ".tsx":
		return "typescript"
	case ".html":
		return "html"
	case ".css":
		return "css"
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".sh", ".bash":
		return "bash"
	case ".sql":
		return "sql"
	default:
		return ""
	}
}
