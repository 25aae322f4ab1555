// Package output implements the output writer: deterministic
// page-name-to-path derivation, the success artifact (plain wiki content,
// never an HTML-comment banner), and debug artifacts for failed runs.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wikiforge/wikiforge/internal/document"
)

// Writer materializes PublishingDocument artifacts to disk under Directory,
// using Extension for generated filenames.
type Writer struct {
	Directory string
	Extension string
}

// New builds a Writer, creating Directory if it does not already exist.
func New(directory, extension string) (*Writer, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("output: creating directory %q: %w", directory, err)
	}
	return &Writer{Directory: directory, Extension: extension}, nil
}

// PagePath returns the deterministic path for pageName: CamelCase(pageName
// or "UnnamedPage") + the configured extension, joined under Directory.
// Deterministic by construction: identical pageName always yields the same
// path.
func (w *Writer) PagePath(pageName string) string {
	name := pageName
	if name == "" {
		name = "UnnamedPage"
	}
	return filepath.Join(w.Directory, document.CamelCase(name)+w.Extension)
}

// WriteArticle formats content with a trailing newline and writes it to
// PagePath(pageName). It never injects an HTML-comment banner into the
// success artifact.
func (w *Writer) WriteArticle(pageName, content string) (string, error) {
	path := w.PagePath(pageName)
	formatted := strings.TrimRight(content, "\n") + "\n"
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		return "", fmt.Errorf("output: writing %q: %w", path, err)
	}
	return path, nil
}

// DiscoverExistingPages returns the set of page-name stems (filenames
// without extension) already present in dir. Used by the Editor and the gap
// detector to know what already exists.
func DiscoverExistingPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("output: reading directory %q: %w", dir, err)
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		pages = append(pages, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return pages, nil
}

// DebugArtifact captures everything the failure path must embed:
// the failure state, timestamp, error, fact-check issues (if the failure
// occurred at or after FACT_CHECKING), the last available draft, and a
// research brief summary.
type DebugArtifact struct {
	PageName string
	FailedState document.DocumentState
	Timestamp time.Time
	ErrorMessage string
	ResearchSummary string
	Draft string
	FactCheckIssues []string
	ConsistencyIssues []string
}

// WriteDebugArtifact writes a banner-commented debug file named
// "<PageName>_FAILED_<STATE>_<YYYYMMDD_HHMMSS>.<ext>" and returns its path.
func (w *Writer) WriteDebugArtifact(a DebugArtifact) (string, error) {
	pageName := a.PageName
	if pageName == "" {
		pageName = "UnnamedPage"
	}
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	filename := fmt.Sprintf("%s_FAILED_%s_%s%s",
		document.CamelCase(pageName), a.FailedState, ts.Format("20060102_150405"), w.Extension)
	path := filepath.Join(w.Directory, filename)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# DEBUG ARTIFACT\n")
	fmt.Fprintf(&sb, "# failed at state: %s\n", a.FailedState)
	fmt.Fprintf(&sb, "# timestamp: %s\n", ts.Format(time.RFC3339))
	fmt.Fprintf(&sb, "# error: %s\n", a.ErrorMessage)
	if len(a.FactCheckIssues) > 0 {
		sb.WriteString("# fact-check issues:\n")
		for _, issue := range a.FactCheckIssues {
			fmt.Fprintf(&sb, "# - %s\n", issue)
		}
	}
	if len(a.ConsistencyIssues) > 0 {
		sb.WriteString("# consistency issues:\n")
		for _, issue := range a.ConsistencyIssues {
			fmt.Fprintf(&sb, "# - %s\n", issue)
		}
	}
	sb.WriteString("\n")
	if a.ResearchSummary != "" {
		sb.WriteString("## research brief summary\n")
		sb.WriteString(a.ResearchSummary)
		sb.WriteString("\n\n")
	}
	if a.Draft != "" {
		sb.WriteString("## last available draft\n")
		sb.WriteString(a.Draft)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("output: writing debug artifact %q: %w", path, err)
	}
	return path, nil
}
