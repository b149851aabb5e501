package formatter

import (
	"fmt"
	"strings"

	"forge-relay/internal/model"
)

func pingMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.PingFields)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s: %s (Your webhook is now enabled)",
		p.prefix(ev.Repository.Name, ev.Sender), f.Zen)
}

func wikiMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.GollumFields)
	if !ok || len(f.Pages) == 0 {
		return ""
	}
	prefix := p.prefix(ev.Repository.Name, ev.Sender)

	if len(f.Pages) == 1 {
		page := f.Pages[0]
		title := page.Title
		if title == "" {
			title = page.PageName
		}
		line := fmt.Sprintf("%s %s wiki page %s", prefix, page.Action, title)
		if page.Summary != nil && strings.TrimSpace(*page.Summary) != "" {
			line += ": " + emojize(strings.TrimSpace(*page.Summary))
		}
		url := page.HTMLURL
		if url == "" && ev.Repository.HTMLURL != "" {
			url = ev.Repository.HTMLURL + "/wiki"
		}
		return p.link(line, url)
	}

	actions := make([]string, 0, len(f.Pages))
	for _, page := range f.Pages {
		actions = append(actions, page.Action)
	}
	line := fmt.Sprintf("%s %s wiki pages", prefix, sentence(countActions(actions)))
	if ev.Repository.HTMLURL != "" {
		line = p.link(line, ev.Repository.HTMLURL+"/wiki")
	}
	return line
}

func starMessage(ev model.Event, p palette) string {
	return p.prefix(ev.Repository.Name, ev.Sender) + " starred the project!"
}

func statusMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.StatusFields)
	if !ok {
		return ""
	}
	scope := p.repo(ev.Repository.Name)
	for _, b := range f.Branches {
		if b.Commit.SHA == f.SHA {
			scope += "/" + p.branch(b.Name)
			break
		}
	}

	line := fmt.Sprintf("[%s] %s: %s", scope, p.name(ev.Sender), f.Description)
	if f.TargetURL != "" {
		line += " - " + p.url(f.TargetURL)
	}
	return line + fmt.Sprintf(" (%s)", f.State)
}

func releaseMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.ReleaseFields)
	if !ok {
		return ""
	}
	r := f.Release
	name := r.Name
	if strings.TrimSpace(name) == "" {
		name = r.TagName
	}
	author := r.Author.Login
	if author == "" {
		author = ev.Sender
	}
	line := fmt.Sprintf("%s released %s", p.prefix(ev.Repository.Name, author), p.tag(name))
	if r.Prerelease {
		line += " (prerelease)"
	}
	return p.link(line, r.HTMLURL)
}
