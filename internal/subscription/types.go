package subscription

import (
	"strings"

	"forge-relay/internal/model"
)

// Key normalizes a repository full name for lookups. Forge names are case
// insensitive, so every adapter stores and queries the lowercased form.
func Key(repoFullName string) string {
	return strings.ToLower(strings.TrimSpace(repoFullName))
}

// Validate checks the fields every adapter requires.
func Validate(sub model.Subscription) error {
	if strings.TrimSpace(sub.Channel) == "" {
		return ErrEmptyChannel
	}
	if Key(sub.Repository) == "" {
		return ErrEmptyRepository
	}
	return nil
}

// WithDefaults fills unset color slots from the default scheme.
func WithDefaults(c model.ColorScheme) model.ColorScheme {
	d := model.DefaultColorScheme()
	if c.URL == "" {
		c.URL = d.URL
	}
	if c.Tag == "" {
		c.Tag = d.Tag
	}
	if c.Repo == "" {
		c.Repo = d.Repo
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Hash == "" {
		c.Hash = d.Hash
	}
	if c.Branch == "" {
		c.Branch = d.Branch
	}
	return c
}
