// internal/model/models.go
package model

import (
	"strings"
	"time"
)

// RepoID is the normalized identity of a repository: lowercase "owner/name".
// The empty RepoID marks a record whose identity could not be determined.
type RepoID string

// NewRepoID normalizes an "owner/name" string into a RepoID.
func NewRepoID(fullName string) RepoID {
	return RepoID(strings.ToLower(strings.TrimSpace(fullName)))
}

// RepoRecord is a read-only snapshot of a GitHub repository.
type RepoRecord struct {
	FullName    string
	Name        string
	Owner       string
	Description *string
	Stars       int
	Forks       int
	Language    *string
	URL         string
}

// ID returns the record's identity. FullName wins; owner and name are used only
// when FullName is missing.
func (r RepoRecord) ID() RepoID {
	if r.FullName != "" {
		return NewRepoID(r.FullName)
	}
	if r.Owner != "" && r.Name != "" {
		return NewRepoID(r.Owner + "/" + r.Name)
	}
	return ""
}

// ProjectCard is the display model for one pinned project.
type ProjectCard struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Languages   []string `json:"languages"`
	Link        string   `json:"link"`
	Unavailable bool     `json:"unavailable,omitempty"`
}

// Totals are star and fork counts summed over distinct repositories.
type Totals struct {
	Stars int `json:"stars"`
	Forks int `json:"forks"`
}

// CacheSnapshot is the last computed result, persisted between runs.
type CacheSnapshot struct {
	SavedAt time.Time     `json:"saved_at"`
	Cards   []ProjectCard `json:"cards"`
	Totals  Totals        `json:"totals"`
}

// Citation holds the live citation count of a publication.
type Citation struct {
	DOI          string `json:"doi"`
	Count        int    `json:"count"`
	CitationsURL string `json:"citations_url,omitempty"`
}
