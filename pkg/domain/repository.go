package domain

// Unclassified is the bucket label of repositories not listed in any bucket
const Unclassified = "unclassified"

// Repository is an open-source repository shown on the site
type Repository struct {
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Stars       int          `json:"stars"`
	Description string       `json:"description"`
	Bucket      string       `json:"bucket"`
	Featured    Featured     `json:"featured"`
	Metadata    RepoMetadata `json:"metadata"`
}

// Featured flags of a repository
type Featured struct {
	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`
}

// RepoMetadata holds hand-maintained links, nil values are rendered as null
type RepoMetadata struct {
	Docs    *string `json:"docs"`
	Twitter *string `json:"twitter"`
	Contact *string `json:"contact"`
}

// Bucket is a named group of repositories sorted by stars
type Bucket struct {
	Name         string       `json:"name"`
	Repositories []Repository `json:"repositories"`
}

// Catalog is the result of an open-source refresh
type Catalog struct {
	Repos      []Repository `json:"repos"`
	Popularity []string     `json:"popularity"`
	Buckets    []Bucket     `json:"buckets"`
}
