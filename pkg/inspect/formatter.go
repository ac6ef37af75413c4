package inspect

import (
	"fmt"
	"strings"

	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Formatter formats views for display.
type Formatter struct {
	// IndentWidth is the number of spaces per indent level
	IndentWidth int

	// MaxDepth limits how many container levels are expanded. 0 means no limit.
	MaxDepth int

	// MaxItems limits how many children of one container are listed.
	// 0 means no limit.
	MaxItems int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		IndentWidth: 2,
		MaxDepth:    3,
		MaxItems:    10,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatValue formats a scalar as JSON text and a container as a summary.
func (f *Formatter) FormatValue(n proxy.Node) string {
	switch n.Kind() {
	case tree.KindObject, tree.KindArray:
		return Summary(n)
	default:
		return n.String()
	}
}

// Summary describes a value in a few words, e.g. "object (3 keys)".
func Summary(n proxy.Node) string {
	switch n.Kind() {
	case tree.KindObject:
		return "object (" + plural(n.Len(), "key") + ")"
	case tree.KindArray:
		return "array (" + plural(n.Len(), "item") + ")"
	default:
		return n.Kind().String()
	}
}

// FormatTree renders n as an indented outline, one member or element per
// line, using original key names.
func (f *Formatter) FormatTree(n proxy.Node) string {
	if n.Kind() != tree.KindObject && n.Kind() != tree.KindArray {
		return n.String() + "\n"
	}
	var sb strings.Builder
	f.writeChildren(&sb, n, 0)
	return sb.String()
}

func (f *Formatter) writeChildren(sb *strings.Builder, n proxy.Node, depth int) {
	shown := 0
	write := func(label string, child proxy.Node) bool {
		if f.MaxItems > 0 && shown >= f.MaxItems {
			return false
		}
		shown++
		sb.WriteString(f.Indent(depth, label+": "+f.FormatValue(child)))
		sb.WriteByte('\n')
		if isContainer(child) && child.Len() > 0 && (f.MaxDepth == 0 || depth+1 < f.MaxDepth) {
			f.writeChildren(sb, child, depth+1)
		}
		return true
	}

	if n.Kind() == tree.KindArray {
		for i, e := range n.Elements() {
			if !write(fmt.Sprintf("[%d]", i), e) {
				break
			}
		}
	} else {
		for k, v := range n.Fields() {
			if !write(k, v) {
				break
			}
		}
	}

	if rest := n.Len() - shown; rest > 0 {
		sb.WriteString(f.Indent(depth, fmt.Sprintf("... %d more", rest)))
		sb.WriteByte('\n')
	}
}

// FormatDictionary lists the entries of d as "alias -> original" lines.
func FormatDictionary(d *terse.Dictionary) string {
	entries := d.Entries()
	if len(entries) == 0 {
		return "(empty dictionary)\n"
	}
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Alias))
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-*s -> %s\n", width, e.Alias, e.Original)
	}
	return sb.String()
}

// FormatBytes formats a byte count with a binary unit.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit && n > -unit {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	for _, suffix := range []string{"KiB", "MiB", "GiB"} {
		value /= unit
		if value < unit && value > -unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f TiB", value/unit)
}

// FormatSavings formats a size comparison, e.g.
// "1.9 KiB -> 1.1 KiB (42.1% smaller)".
func FormatSavings(original, compressed int) string {
	base := FormatBytes(original) + " -> " + FormatBytes(compressed)
	if original == 0 {
		return base
	}
	pct := 100 * float64(original-compressed) / float64(original)
	if pct >= 0 {
		return fmt.Sprintf("%s (%.1f%% smaller)", base, pct)
	}
	return fmt.Sprintf("%s (%.1f%% larger)", base, -pct)
}

func isContainer(n proxy.Node) bool {
	k := n.Kind()
	return k == tree.KindObject || k == tree.KindArray
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
