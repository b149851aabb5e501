package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"forge-relay/internal/model"
	"forge-relay/pkg/ircfmt"
)

func pushMessages(ev model.Event, p palette) []string {
	f, ok := ev.Fields.(*model.PushFields)
	if !ok {
		return nil
	}

	distinct := distinctCommits(f)
	lines := make([]string, 0, 1+len(distinct))
	lines = append(lines, p.link(pushSummary(ev, f, distinct, p), pushSummaryURL(ev, f, distinct)))
	for _, c := range distinct {
		lines = append(lines, commitLine(ev, f, c, p))
	}
	return lines
}

// distinctCommits prefers the payload's own distinct_commits list and
// otherwise keeps distinct commits with a non-blank message.
func distinctCommits(f *model.PushFields) []model.Commit {
	if f.DistinctCommits != nil {
		return *f.DistinctCommits
	}
	var out []model.Commit
	for _, c := range f.Commits {
		if c.Distinct && strings.TrimSpace(c.Message) != "" {
			out = append(out, c)
		}
	}
	return out
}

func pusherName(f *model.PushFields) string {
	if f.Pusher == nil || f.Pusher.Name == "" {
		return "somebody"
	}
	return f.Pusher.Name
}

func pushSummary(ev model.Event, f *model.PushFields, distinct []model.Commit, p palette) string {
	parts := []string{p.prefix(ev.Repository.Name, pusherName(f))}
	ref := refName(f.Ref)
	n := len(distinct)

	switch {
	case f.Created || isNullSHA(f.Before):
		if strings.HasPrefix(f.Ref, "refs/tags/") {
			parts = append(parts, "tagged "+p.tag(ref)+" at")
			if f.BaseRef != "" {
				parts = append(parts, p.branch(refName(f.BaseRef)))
			} else {
				parts = append(parts, p.hash(shortHash(f.After)))
			}
			break
		}

		parts = append(parts, "created "+p.branch(ref))
		if f.BaseRef != "" {
			parts = append(parts, "from "+p.branch(refName(f.BaseRef)))
		} else if n == 0 {
			parts = append(parts, "at "+p.hash(shortHash(f.After)))
		}
		parts = append(parts, fmt.Sprintf("(+%s new %s)", ircfmt.Bold(strconv.Itoa(n)), plural(n, "commit", "commits")))

	case f.Deleted || isNullSHA(f.After):
		parts = append(parts, fmt.Sprintf("%s %s at %s",
			ircfmt.Color("deleted", ircfmt.Red), p.branch(ref), p.hash(shortHash(f.Before))))

	case f.Forced:
		parts = append(parts, fmt.Sprintf("%s %s from %s to %s",
			ircfmt.Color("force-pushed", ircfmt.Red), p.branch(ref),
			p.hash(shortHash(f.Before)), p.hash(shortHash(f.After))))

	case len(f.Commits) > 0 && n == 0:
		if f.BaseRef != "" {
			parts = append(parts, fmt.Sprintf("merged %s into %s", p.branch(refName(f.BaseRef)), p.branch(ref)))
		} else {
			parts = append(parts, fmt.Sprintf("fast-forwarded %s from %s to %s",
				p.branch(ref), p.hash(shortHash(f.Before)), p.hash(shortHash(f.After))))
		}

	default:
		parts = append(parts, fmt.Sprintf("pushed %s new %s to %s",
			ircfmt.Bold(strconv.Itoa(n)), plural(n, "commit", "commits"), p.branch(ref)))
	}

	return strings.Join(parts, " ")
}

// pushSummaryURL picks the most specific link for the push.
func pushSummaryURL(ev model.Event, f *model.PushFields, distinct []model.Commit) string {
	repoURL := ev.Repository.HTMLURL
	commitsURL := repoURL + "/commits/" + refName(f.Ref)

	switch {
	case f.Created || isNullSHA(f.Before):
		if f.Compare != "" {
			return f.Compare
		}
		return commitsURL
	case f.Deleted || isNullSHA(f.After):
		return repoURL + "/commit/" + shortHash(f.Before)
	case f.Forced:
		return commitsURL
	case len(distinct) == 1 && distinct[0].URL != "":
		return distinct[0].URL
	}
	return f.Compare
}

func commitLine(ev model.Event, f *model.PushFields, c model.Commit, p palette) string {
	short, more := firstLine(c.Message)
	if more {
		short += "…"
	}
	return fmt.Sprintf("%s/%s %s %s: %s",
		p.repo(ev.Repository.Name), p.branch(refName(f.Ref)),
		p.hash(shortHash(c.ID)), p.name(c.Author.Name), short)
}
