package formatter

import (
	"forge-relay/internal/model"
	"forge-relay/pkg/ircfmt"
)

// palette applies one subscription's color scheme.
type palette struct {
	c model.ColorScheme
}

func (p palette) url(s string) string    { return ircfmt.Color(s, p.c.URL) }
func (p palette) tag(s string) string    { return ircfmt.Color(s, p.c.Tag) }
func (p palette) repo(s string) string   { return ircfmt.Color(s, p.c.Repo) }
func (p palette) name(s string) string   { return ircfmt.Color(s, p.c.Name) }
func (p palette) hash(s string) string   { return ircfmt.Color(s, p.c.Hash) }
func (p palette) branch(s string) string { return ircfmt.Color(s, p.c.Branch) }

// prefix renders the "[repo] actor" lead shared by every first line.
func (p palette) prefix(repo, actor string) string {
	return "[" + p.repo(repo) + "] " + p.name(actor)
}

// link appends a colored URL to line when url is set.
func (p palette) link(line, url string) string {
	if url == "" {
		return line
	}
	return line + " " + p.url(url)
}
