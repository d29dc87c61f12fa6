package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	gosolve "github.com/njchilds90/gosolve"
)

// details are the parts of a solve result worth showing besides the
// answer itself.
type details struct {
	Strategy     string                 `json:"strategy"`
	Partial      bool                   `json:"partial"`
	Restrictions []string               `json:"restrictions"`
	Messages     []string               `json:"messages"`
	Steps        []gosolve.RecordedStep `json:"steps"`
}

func resultDetails(resp gosolve.ToolResponse) details {
	var d details
	data, err := json.Marshal(resp.Result)
	if err != nil {
		return d
	}
	_ = json.Unmarshal(data, &d)
	return d
}

func render(w io.Writer, tool string, resp gosolve.ToolResponse, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		renderText(w, resp)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "markdown", "md":
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		out, err := r.Render(markdown(tool, resp))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q (want text, json or markdown)", format)
}

func renderText(w io.Writer, resp gosolve.ToolResponse) {
	p := termenv.ColorProfile()
	if resp.Error != "" {
		fmt.Fprintln(w, termenv.String("error: "+resp.Error).Foreground(p.Color("#f87171")))
		return
	}
	d := resultDetails(resp)
	for i, step := range d.Steps {
		fmt.Fprintf(w, "%s %s\n", termenv.String(fmt.Sprintf("%2d.", i+1)).Faint(), step.Description)
		fmt.Fprintf(w, "    %s  ->  %s\n", step.Before, step.After)
	}
	if d.Strategy != "" {
		fmt.Fprintln(w, termenv.String("strategy: "+d.Strategy).Faint())
	}
	fmt.Fprintln(w, termenv.String(resp.String).Foreground(p.Color("#818cf8")).Bold())
	for _, m := range d.Messages {
		fmt.Fprintln(w, termenv.String("note: "+m).Foreground(p.Color("#fbbf24")))
	}
}

func markdown(tool string, resp gosolve.ToolResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tool)
	if resp.Error != "" {
		fmt.Fprintf(&b, "**Error:** %s\n", resp.Error)
		return b.String()
	}
	d := resultDetails(resp)
	fmt.Fprintf(&b, "**Result:** `%s`\n\n", resp.String)
	if d.Strategy != "" {
		fmt.Fprintf(&b, "Strategy: *%s*", d.Strategy)
		if d.Partial {
			b.WriteString(" (partial)")
		}
		b.WriteString("\n\n")
	}
	if len(d.Restrictions) > 0 {
		b.WriteString("## Restrictions\n\n")
		for _, r := range d.Restrictions {
			fmt.Fprintf(&b, "- `%s`\n", r)
		}
		b.WriteString("\n")
	}
	if len(d.Steps) > 0 {
		b.WriteString("## Steps\n\n")
		for i, s := range d.Steps {
			fmt.Fprintf(&b, "%d. %s: `%s` becomes `%s`\n", i+1, s.Description, s.Before, s.After)
		}
		b.WriteString("\n")
	}
	if resp.LaTeX != "" {
		fmt.Fprintf(&b, "## LaTeX\n\n```latex\n%s\n```\n", resp.LaTeX)
	}
	for _, m := range d.Messages {
		fmt.Fprintf(&b, "> %s\n", m)
	}
	return b.String()
}
