// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Repo is one repository returned by the GitHub listing endpoint.
type Repo struct {
	// Owner is the owner login.
	Owner string `json:"owner" yaml:"owner"`

	// Name is the repository name; it is also the local directory name.
	Name string `json:"name" yaml:"name"`

	// FullName is "owner/name".
	FullName string `json:"full_name" yaml:"full_name"`

	// CloneURL is the SSH clone URL (git@github.com:owner/name.git).
	CloneURL string `json:"clone_url" yaml:"clone_url"`

	Archived bool `json:"archived" yaml:"archived"`
	Fork     bool `json:"fork" yaml:"fork"`

	// Description is empty when the repository has none.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// MatchText is the text the name filters run against: name, full name, and
// description joined by newlines.
func (r Repo) MatchText() string {
	return r.Name + "\n" + r.FullName + "\n" + r.Description
}
