package combine

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Format selects the output document type.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts text, md/markdown and html.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", &ConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q (want text, md or html)", s)}
}

// CommentStyle is the banner token used by text and Markdown output.
type CommentStyle string

const (
	CommentHash  CommentStyle = "#"
	CommentSlash CommentStyle = "//"
)

// ParseCommentStyle accepts hash/slash, the literal tokens, or 2/1.
func ParseCommentStyle(s string) (CommentStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hash", "#", "2":
		return CommentHash, nil
	case "slash", "//", "1":
		return CommentSlash, nil
	}
	return "", &ConfigError{Field: "comment-style", Reason: fmt.Sprintf("unknown comment style %q (want hash or slash)", s)}
}

// RenderOptions controls the shape of the output document.
type RenderOptions struct {
	Format        Format
	Comment       CommentStyle
	OmitTimestamp bool // Leave out the generation time for reproducible output
	Tree          bool // Include a directory tree of the included files
}

const (
	timeLayout = "2006-01-02 15:04:05"
	ruleWidth  = 80
)

// Render writes doc to w in the selected format. It performs no other I/O.
func Render(w io.Writer, doc Document, opts RenderOptions) error {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return err
	}
	if opts.Comment == "" {
		opts.Comment = CommentHash
	}

	bw := bufio.NewWriter(w)
	switch format {
	case FormatMarkdown:
		err = renderMarkdown(bw, doc, opts)
	case FormatHTML:
		err = renderHTML(bw, doc, opts)
	default:
		err = renderText(bw, doc, opts)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// docWriter remembers the first write error so render functions stay linear.
type docWriter struct {
	w   *bufio.Writer
	err error
}

func (d *docWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *docWriter) write(p []byte) {
	if d.err != nil {
		return
	}
	_, d.err = d.w.Write(p)
}

// content writes a record body and guarantees a trailing newline.
func (d *docWriter) content(rec FileRecord) {
	if rec.Binary {
		d.printf("%s\n", binaryPlaceholder(rec))
		return
	}
	d.write(rec.Content)
	if len(rec.Content) > 0 && rec.Content[len(rec.Content)-1] != '\n' {
		d.printf("\n")
	}
}

func renderText(w *bufio.Writer, doc Document, opts RenderOptions) error {
	d := &docWriter{w: w}
	tok := string(opts.Comment)
	rule := tok + " " + strings.Repeat("=", ruleWidth)

	d.printf("%s Combined Files from %s\n", tok, doc.Root)
	if !opts.OmitTimestamp {
		d.printf("%s Generated on: %s\n", tok, formatTime(doc.GeneratedAt))
	}
	d.printf("%s Files: %d\n", tok, len(doc.Records))
	d.printf("%s Total size: %s\n", tok, humanSize(doc.Summary.TotalBytes))
	d.printf("%s\n\n", rule)

	if opts.Tree && len(doc.Records) > 0 {
		for _, line := range strings.Split(strings.TrimSuffix(GenerateTree(doc.Root, doc.Records), "\n"), "\n") {
			d.printf("%s %s\n", tok, line)
		}
		d.printf("\n")
	}

	for _, rec := range doc.Records {
		d.printf("%s File: %s\n", tok, rec.Task.RelPath)
		d.printf("%s Size: %s\n", tok, humanSize(rec.Meta.Size))
		d.printf("%s Created: %s\n", tok, formatTime(rec.Meta.Created))
		d.printf("%s Modified: %s\n", tok, formatTime(rec.Meta.Modified))
		if rec.Language != "" {
			d.printf("%s Language: %s\n", tok, rec.Language)
		}
		d.printf("%s\n", rule)
		d.content(rec)
		d.printf("\n")
	}

	d.printf("%s\n", rule)
	d.printf("%s Summary Statistics\n", tok)
	d.printf("%s Files processed: %d\n", tok, doc.Summary.Included)
	d.printf("%s Files skipped: %d\n", tok, doc.Summary.Excluded)
	d.printf("%s Files with errors: %d\n", tok, doc.Summary.Errored)
	d.printf("%s Total size: %s\n", tok, humanSize(doc.Summary.TotalBytes))
	return d.err
}

func renderMarkdown(w *bufio.Writer, doc Document, opts RenderOptions) error {
	d := &docWriter{w: w}
	tok := string(opts.Comment)

	d.printf("# Combined Files from %s\n\n", doc.Root)
	if !opts.OmitTimestamp {
		d.printf("Generated on: %s\n\n", formatTime(doc.GeneratedAt))
	}
	d.printf("- Files: %d\n", len(doc.Records))
	d.printf("- Total size: %s\n\n", humanSize(doc.Summary.TotalBytes))
	d.printf("---\n\n")

	if opts.Tree && len(doc.Records) > 0 {
		d.printf("```\n%s```\n\n", GenerateTree(doc.Root, doc.Records))
	}

	for _, rec := range doc.Records {
		d.printf("## %s\n\n", rec.Task.RelPath)
		d.printf("- Size: %s\n", humanSize(rec.Meta.Size))
		d.printf("- Created: %s\n", formatTime(rec.Meta.Created))
		d.printf("- Modified: %s\n", formatTime(rec.Meta.Modified))
		if rec.Language != "" {
			d.printf("- Language: %s\n", rec.Language)
		}
		d.printf("\n")

		fence := codeFence(rec.Content)
		d.printf("%s%s\n", fence, rec.Task.Ext)
		d.printf("%s %s\n", tok, rec.Task.RelPath)
		d.content(rec)
		d.printf("%s\n\n", fence)
	}

	d.printf("## Summary Statistics\n\n")
	d.printf("- Files processed: %d\n", doc.Summary.Included)
	d.printf("- Files skipped: %d\n", doc.Summary.Excluded)
	d.printf("- Files with errors: %d\n", doc.Summary.Errored)
	d.printf("- Total size: %s\n", humanSize(doc.Summary.TotalBytes))
	return d.err
}

// codeFence returns a backtick fence longer than any backtick run in content.
func codeFence(content []byte) string {
	longest, run := 0, 0
	for _, b := range content {
		if b == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

var htmlTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"size": humanSize,
	"time": formatTime,
	"body": htmlBody,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Combined Files from {{.Doc.Root}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.file { margin-bottom: 30px; border: 1px solid #ddd; padding: 15px; border-radius: 5px; }
.metadata { color: #666; margin-bottom: 10px; }
h1 { color: #333; }
h2 { color: #0066cc; }
pre { background-color: #f5f5f5; padding: 10px; border-radius: 5px; overflow: auto; }
</style>
</head>
<body>
<h1>Combined Files from {{.Doc.Root}}</h1>
{{- if not .Opts.OmitTimestamp}}
<p>Generated on: {{time .Doc.GeneratedAt}}</p>
{{- end}}
<p>Files: {{len .Doc.Records}} &middot; Total size: {{size .Doc.Summary.TotalBytes}}</p>
{{- if .Tree}}
<pre class="tree">{{.Tree}}</pre>
{{- end}}
{{- range .Doc.Records}}
<div class="file">
<h2>{{.Task.RelPath}}</h2>
<div class="metadata">
<p>Size: {{size .Meta.Size}}</p>
<p>Created: {{time .Meta.Created}}</p>
<p>Modified: {{time .Meta.Modified}}</p>
{{- if .Language}}
<p>Language: {{.Language}}</p>
{{- end}}
</div>
<pre><code class="language-{{.Task.Ext}}">{{body .}}</code></pre>
</div>
{{- end}}
<div class="summary">
<h2>Summary Statistics</h2>
<p>Files processed: {{.Doc.Summary.Included}}</p>
<p>Files skipped: {{.Doc.Summary.Excluded}}</p>
<p>Files with errors: {{.Doc.Summary.Errored}}</p>
<p>Total size: {{size .Doc.Summary.TotalBytes}}</p>
</div>
</body>
</html>
`))

func renderHTML(w *bufio.Writer, doc Document, opts RenderOptions) error {
	data := struct {
		Doc  Document
		Opts RenderOptions
		Tree string
	}{Doc: doc, Opts: opts}
	if opts.Tree && len(doc.Records) > 0 {
		data.Tree = GenerateTree(doc.Root, doc.Records)
	}
	return htmlTemplate.Execute(w, data)
}

// htmlBody returns the text shown for a record; the template escapes it.
func htmlBody(rec FileRecord) string {
	if rec.Binary {
		return binaryPlaceholder(rec)
	}
	return string(rec.Content)
}

func binaryPlaceholder(rec FileRecord) string {
	return fmt.Sprintf("[binary content omitted: %s]", humanSize(rec.Meta.Size))
}

func humanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(timeLayout)
}
