// internal/aggregator/format.go
package aggregator

import (
	"strings"

	"portfolio-projects/internal/model"
)

const (
	// NoDescription is shown for repositories without a description.
	NoDescription = "No description provided."
	// UnavailableReason is the default description of a card that could not be resolved.
	UnavailableReason = "Repository unavailable (private, renamed, or rate limited)."

	githubWebURL = "https://github.com/"
)

// FormatCard maps a repository to its display card. Repositories owned by an
// account in orgs are titled "owner/name" so they stand apart from personal ones.
func FormatCard(rec model.RepoRecord, orgs map[string]struct{}) model.ProjectCard {
	title := rec.Name
	if _, ok := orgs[strings.ToLower(rec.Owner)]; ok && rec.Owner != "" {
		title = rec.Owner + "/" + rec.Name
	}
	if title == "" {
		title = rec.FullName
	}

	description := NoDescription
	if rec.Description != nil && strings.TrimSpace(*rec.Description) != "" {
		description = *rec.Description
	}

	languages := []string{}
	if rec.Language != nil && *rec.Language != "" {
		languages = append(languages, *rec.Language)
	}

	link := rec.URL
	if link == "" {
		link = githubWebURL + rec.FullName
	}

	return model.ProjectCard{
		Title:       title,
		Description: description,
		Stars:       rec.Stars,
		Forks:       rec.Forks,
		Languages:   languages,
		Link:        link,
	}
}

// Unavailable builds the placeholder card for a pinned repository that could
// not be fetched. The link is derived from fullName alone.
func Unavailable(fullName, reason string) model.ProjectCard {
	if reason == "" {
		reason = UnavailableReason
	}
	return model.ProjectCard{
		Title:       fullName,
		Description: reason,
		Languages:   []string{},
		Link:        githubWebURL + fullName,
		Unavailable: true,
	}
}
