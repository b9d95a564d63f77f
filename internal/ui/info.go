// ABOUTME: Package info page rendered through glamour from a small markdown document
// ABOUTME: Shows author, description, dependencies, license, repository link, versions and loaders

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/registry"
)

// InfoMarkdown builds the markdown for d. link is the browsable
// repository URL.
func InfoMarkdown(d *registry.Descriptor, link string) string {
	deps := "*nothing here*"
	if len(d.Dependencies) > 0 {
		deps = strings.Join(titled(d.Dependencies), ", ")
	}

	versions := make([]string, len(d.Versions))
	for i, v := range d.Versions {
		versions[i] = config.VersionName(v)
	}
	loaders := make([]string, len(d.Loaders))
	for i, l := range d.Loaders {
		loaders[i] = TitleCase(string(l))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s by %s\n\n", TitleCase(d.Name), d.Author)
	if d.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Description)
	}
	fmt.Fprintf(&b, "**Dependencies**: %s  \n", deps)
	fmt.Fprintf(&b, "**License**: %s  \n", d.LicenseName())
	fmt.Fprintf(&b, "**GitHub**: %s\n\n", link)
	fmt.Fprintf(&b, "**Versions**: %s  \n", strings.Join(versions, ", "))
	fmt.Fprintf(&b, "**Modloaders**: %s\n", strings.Join(loaders, ", "))
	return b.String()
}

// RenderInfo renders the info page for d at the given wrap width. styled
// selects terminal colors; otherwise the plain notty style is used.
func RenderInfo(d *registry.Descriptor, link string, width int, styled bool) string {
	md := InfoMarkdown(d, link)

	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ") + "\n"
}

func titled(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = TitleCase(n)
	}
	return out
}

// TitleCase capitalizes each word of s. A fresh Caser is built per call
// since a Caser is not safe for concurrent use.
func TitleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return cases.Title(language.English).String(s)
}
