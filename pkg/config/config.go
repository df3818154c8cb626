package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	HTTP       HTTPConfig       `yaml:"http" json:"http" jsonschema:"description=HTTP client settings for all sources"`
	Sources    SourcesConfig    `yaml:"sources" json:"sources" jsonschema:"description=External feed endpoints"`
	Authors    AuthorsConfig    `yaml:"authors" json:"authors" jsonschema:"description=Author link templates"`
	Cities     []City           `yaml:"cities" json:"cities" jsonschema:"description=Canonical city names with their spelling variants"`
	OpenSource OpenSourceConfig `yaml:"opensource" json:"opensource" jsonschema:"description=Open-source repositories presentation"`
	Output     OutputConfig     `yaml:"output" json:"output" jsonschema:"description=Static output locations"`
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Preview server configuration"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction for posts without excerpt"`
}

// HTTPConfig holds settings shared by feed and REST fetchers
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=TechSite/1.0,description=User agent for HTTP requests"`
	Retries    int           `yaml:"retries" json:"retries" jsonschema:"default=0,minimum=0,description=Additional attempts after a failed request"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=500ms,description=Initial delay between attempts"`
}

// SourcesConfig lists all external endpoints
type SourcesConfig struct {
	Blog    FeedSource   `yaml:"blog" json:"blog" jsonschema:"description=Blog RSS feed"`
	Podcast FeedSource   `yaml:"podcast" json:"podcast" jsonschema:"description=Podcast RSS feed"`
	Jobs    JobsSource   `yaml:"jobs" json:"jobs" jsonschema:"description=Job postings endpoint"`
	Events  EventsSource `yaml:"events" json:"events" jsonschema:"description=Meetup and Eventbrite endpoints"`
	GitHub  GitHubSource `yaml:"github" json:"github" jsonschema:"description=GitHub repositories endpoint"`
}

// FeedSource is an RSS/Atom feed shown on the landing page
type FeedSource struct {
	URL          string `yaml:"url" json:"url" jsonschema:"description=Feed URL"`
	Limit        int    `yaml:"limit" json:"limit" jsonschema:"minimum=1,description=Maximum items on the landing page"`
	ExcerptWords int    `yaml:"excerpt_words" json:"excerpt_words" jsonschema:"minimum=1,description=Excerpt length in words"`
}

// JobsSource is the job board postings endpoint
type JobsSource struct {
	URL        string `yaml:"url" json:"url" jsonschema:"description=Postings endpoint filtered by custom field"`
	LinkBase   string `yaml:"link_base" json:"link_base" jsonschema:"description=Base of public posting links"`
	TrackingID string `yaml:"tracking_id" json:"tracking_id" jsonschema:"description=trid query parameter added to posting links"`
	FlagValue  string `yaml:"flag_value" json:"flag_value" jsonschema:"default=Tak,description=Custom field value marking an additional city"`
}

// EventsSource holds meetup and registration endpoints
type EventsSource struct {
	URL           string `yaml:"url" json:"url" jsonschema:"description=Meetup events endpoint"`
	EventbriteURL string `yaml:"eventbrite_url" json:"eventbrite_url" jsonschema:"description=Eventbrite organization events endpoint"`
}

// GitHubSource is the organization repositories endpoint
type GitHubSource struct {
	URL      string `yaml:"url" json:"url" jsonschema:"description=Repositories list endpoint"`
	MinStars int    `yaml:"min_stars" json:"min_stars" jsonschema:"default=10,minimum=0,description=Repositories must have more stars than this (0 lists every starred repository)"`
}

// AuthorsConfig holds link templates, {slug} is replaced by the author slug
type AuthorsConfig struct {
	ProfileURL string `yaml:"profile_url" json:"profile_url" jsonschema:"description=Profile URL template with {slug} placeholder"`
	PhotoURL   string `yaml:"photo_url" json:"photo_url" jsonschema:"description=Photo URL template with {slug} placeholder"`
}

// City maps spelling variants to a canonical name
type City struct {
	Name     string   `yaml:"name" json:"name" jsonschema:"required,description=Canonical city name"`
	Variants []string `yaml:"variants" json:"variants" jsonschema:"description=Spellings collapsed into the canonical name"`
}

// Bucket is a named static group of repositories
type Bucket struct {
	Name  string   `yaml:"name" json:"name" jsonschema:"required,description=Bucket name"`
	Repos []string `yaml:"repos" json:"repos" jsonschema:"description=Repository names in the bucket"`
}

// RepoMetadata holds hand-maintained links of a repository
type RepoMetadata struct {
	Docs    string `yaml:"docs" json:"docs,omitempty"`
	Twitter string `yaml:"twitter" json:"twitter,omitempty"`
	Contact string `yaml:"contact" json:"contact,omitempty"`
}

// Featured lists repositories emphasized on the site
type Featured struct {
	Primary   []string `yaml:"primary" json:"primary"`
	Secondary []string `yaml:"secondary" json:"secondary"`
}

// OpenSourceConfig holds the static repository schema
type OpenSourceConfig struct {
	Buckets  []Bucket                `yaml:"buckets" json:"buckets" jsonschema:"description=Ordered repository buckets"`
	Featured Featured                `yaml:"featured" json:"featured" jsonschema:"description=Featured repositories"`
	Metadata map[string]RepoMetadata `yaml:"metadata" json:"metadata" jsonschema:"description=Links per repository name"`
}

// OutputConfig holds locations of generated files
type OutputConfig struct {
	Dir          string `yaml:"dir" json:"dir" jsonschema:"default=_data,description=Directory for JSON snapshots"`
	Landing      string `yaml:"landing" json:"landing" jsonschema:"default=landing.json"`
	Jobs         string `yaml:"jobs" json:"jobs" jsonschema:"default=jobs.json"`
	Repositories string `yaml:"repositories" json:"repositories" jsonschema:"default=repositories.json"`
	EventsDir    string `yaml:"events_dir" json:"events_dir" jsonschema:"default=_events,description=Directory for event Markdown files"`
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Listen          string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval" jsonschema:"default=30m,description=Landing snapshot rebuild interval"`
}

// ExtractionConfig holds article text extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract excerpt from the article page when the feed has none"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum text length to consider valid"`
}

const defaultMinStars = 10

// Load reads configuration from a YAML file. Empty path returns the defaults.
func Load(path string) (*Config, error) {
	// zero is a valid star threshold, so its default is set before parsing
	cfg := Config{Sources: SourcesConfig{GitHub: GitHubSource{MinStars: defaultMinStars}}}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// http
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "TechSite/1.0"
	}
	if cfg.HTTP.RetryDelay == 0 {
		cfg.HTTP.RetryDelay = 500 * time.Millisecond
	}

	// sources
	src := &cfg.Sources
	if src.Blog.URL == "" {
		src.Blog.URL = "https://blog.allegro.tech/feed.xml"
	}
	if src.Blog.Limit == 0 {
		src.Blog.Limit = 8
	}
	if src.Blog.ExcerptWords == 0 {
		src.Blog.ExcerptWords = 25
	}
	if src.Podcast.URL == "" {
		src.Podcast.URL = "https://podcast.allegro.tech/feed.xml"
	}
	if src.Podcast.Limit == 0 {
		src.Podcast.Limit = 5
	}
	if src.Podcast.ExcerptWords == 0 {
		src.Podcast.ExcerptWords = 15
	}
	if src.Jobs.URL == "" {
		src.Jobs.URL = "https://api.smartrecruiters.com/v1/companies/allegro/postings?custom_field.58c15608e4b01d4b19ddf790=c807eec2-8a53-4b55-b7c5-c03180f2059b"
	}
	if src.Jobs.LinkBase == "" {
		src.Jobs.LinkBase = "https://www.smartrecruiters.com/Allegro"
	}
	if src.Jobs.TrackingID == "" {
		src.Jobs.TrackingID = "de9dfdf3-7f9e-4ebf-8a64-49f6c69ad640"
	}
	if src.Jobs.FlagValue == "" {
		src.Jobs.FlagValue = "Tak"
	}
	if src.Events.URL == "" {
		src.Events.URL = "https://api.meetup.com/allegrotech/events?status=past,upcoming&desc=true&photo-host=public&page=20"
	}
	if src.Events.EventbriteURL == "" {
		src.Events.EventbriteURL = "https://www.eventbriteapi.com/v3/organizations/7906517899/events/"
	}
	if src.GitHub.URL == "" {
		src.GitHub.URL = "https://api.github.com/users/allegro/repos?per_page=1000"
	}

	// authors
	if cfg.Authors.ProfileURL == "" {
		cfg.Authors.ProfileURL = "https://blog.allegro.tech/authors/{slug}/"
	}
	if cfg.Authors.PhotoURL == "" {
		cfg.Authors.PhotoURL = "https://blog.allegro.tech/img/authors/{slug}.jpg"
	}

	// cities, canonical name is always one of its variants
	if len(cfg.Cities) == 0 {
		cfg.Cities = DefaultCities()
	}
	for i, c := range cfg.Cities {
		if c.Name != "" && !slices.Contains(c.Variants, c.Name) {
			cfg.Cities[i].Variants = append(cfg.Cities[i].Variants, c.Name)
		}
	}

	// open source
	if len(cfg.OpenSource.Buckets) == 0 {
		cfg.OpenSource.Buckets = []Bucket{
			{Name: "ralph", Repos: []string{"ralph", "ralph_assets", "ralph_beast"}},
			{Name: "selena", Repos: []string{"selena", "selena-agent"}},
			{Name: "tools", Repos: []string{"grunt-maven-npm", "grunt-maven-plugin"}},
		}
	}
	if len(cfg.OpenSource.Featured.Primary) == 0 && len(cfg.OpenSource.Featured.Secondary) == 0 {
		cfg.OpenSource.Featured = Featured{
			Primary:   []string{"vaas", "hermes", "ralph"},
			Secondary: []string{"marathon-consul", "bigcache"},
		}
	}
	if cfg.OpenSource.Metadata == nil {
		cfg.OpenSource.Metadata = map[string]RepoMetadata{
			"hermes": {
				Docs:    "http://hermes-pubsub.readthedocs.io/en/latest/",
				Twitter: "https://twitter.com/hashtag/hermespubsub",
			},
			"ralph":                {Docs: "http://ralph-ng.readthedocs.io/en/latest/user/quickstart/"},
			"axion-release-plugin": {Docs: "http://axion-release-plugin.readthedocs.io/en/latest/"},
			"vaas":                 {Docs: "http://vaas.readthedocs.io/en/latest/"},
			"tipboard":             {Docs: "http://allegro.tech/tipboard/"},
		}
	}

	// output
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "_data"
	}
	if cfg.Output.Landing == "" {
		cfg.Output.Landing = "landing.json"
	}
	if cfg.Output.Jobs == "" {
		cfg.Output.Jobs = "jobs.json"
	}
	if cfg.Output.Repositories == "" {
		cfg.Output.Repositories = "repositories.json"
	}
	if cfg.Output.EventsDir == "" {
		cfg.Output.EventsDir = "_events"
	}

	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.RefreshInterval == 0 {
		cfg.Server.RefreshInterval = 30 * time.Minute
	}

	// extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 100
	}
}

// DefaultCities returns the city table used when the config has none
func DefaultCities() []City {
	return []City{
		{Name: "Poznan", Variants: []string{"Poznań", "Poznan"}},
		{Name: "Warsaw", Variants: []string{"Warszawa", "Warsaw"}},
		{Name: "Krakow", Variants: []string{"Kraków", "Krakow", "Cracow"}},
		{Name: "Torun", Variants: []string{"Toruń", "Torun"}},
		{Name: "Wroclaw", Variants: []string{"Wrocław", "Wroclaw"}},
		{Name: "Blonie", Variants: []string{"Błonie", "Blonie"}},
		{Name: "Gdansk", Variants: []string{"Gdańsk", "Gdansk"}},
		{Name: "Katowice", Variants: []string{"Katowice"}},
		{Name: "Lodz", Variants: []string{"Łódź", "Lodz"}},
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if cfg.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must be non-negative")
	}

	urls := map[string]string{
		"sources.blog.url":    cfg.Sources.Blog.URL,
		"sources.podcast.url": cfg.Sources.Podcast.URL,
		"sources.jobs.url":    cfg.Sources.Jobs.URL,
		"sources.events.url":  cfg.Sources.Events.URL,
		"sources.github.url":  cfg.Sources.GitHub.URL,
	}
	for name, u := range urls {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s is not a valid URL: %q", name, u)
		}
	}

	for name, fs := range map[string]FeedSource{"blog": cfg.Sources.Blog, "podcast": cfg.Sources.Podcast} {
		if fs.Limit < 1 {
			return fmt.Errorf("sources.%s.limit must be at least 1", name)
		}
		if fs.ExcerptWords < 1 {
			return fmt.Errorf("sources.%s.excerpt_words must be at least 1", name)
		}
	}

	for i, c := range cfg.Cities {
		if c.Name == "" {
			return fmt.Errorf("cities[%d].name is required", i)
		}
	}

	seen := map[string]bool{}
	for i, b := range cfg.OpenSource.Buckets {
		if b.Name == "" {
			return fmt.Errorf("opensource.buckets[%d].name is required", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("opensource.buckets: duplicate bucket %q", b.Name)
		}
		seen[b.Name] = true
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Server.RefreshInterval < time.Minute {
		return fmt.Errorf("server refresh_interval must be at least 1 minute")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
