package model

// ColorScheme holds one display-color token per rendered element.
type ColorScheme struct {
	URL    string `json:"url"`
	Tag    string `json:"tag"`
	Repo   string `json:"repo"`
	Name   string `json:"name"`
	Hash   string `json:"hash"`
	Branch string `json:"branch"`
}

// DefaultColorScheme matches the column defaults of the subscription table.
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		URL:    "02",
		Tag:    "06",
		Repo:   "13",
		Name:   "15",
		Hash:   "14",
		Branch: "06",
	}
}

// Subscription links one chat channel to one repository.
type Subscription struct {
	Channel    string      `json:"channel"`
	Repository string      `json:"repository"`
	Enabled    bool        `json:"enabled"`
	Colors     ColorScheme `json:"colors"`
}
