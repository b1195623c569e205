package types

// BuildConfiguration describes the Xcode project coordinates that every
// path derivation and command template is computed from.
type BuildConfiguration struct {
	Workspace        string `yaml:"workspace"`
	Scheme           string `yaml:"scheme"`
	Configuration    string `yaml:"configuration"`
	Target           string `yaml:"target"`
	SDK              string `yaml:"sdk"`
	Arch             string `yaml:"arch,omitempty"`
	Identity         string `yaml:"identity,omitempty"`
	Profile          string `yaml:"profile,omitempty"`
	BundleID         string `yaml:"bundle_id,omitempty"`
	OrganizationName string `yaml:"organization_name,omitempty"`
	OrganizationID   string `yaml:"organization_id,omitempty"`
	SourceDir        string `yaml:"source_dir,omitempty"`
	BuildDir         string `yaml:"build_dir,omitempty"`
	Version          string `yaml:"version"`
	BuildNumber      string `yaml:"build_number,omitempty"`
	MarketingVersion string `yaml:"marketing_version,omitempty"`
	TestSDK          string `yaml:"test_sdk,omitempty"`
	DocsDir          string `yaml:"docs_dir,omitempty"`
	KeychainPath     string `yaml:"keychain,omitempty"`

	TestFlight *DistributionCredentials `yaml:"testflight,omitempty"`
	Changelog  *ChangelogSettings       `yaml:"changelog,omitempty"`
}

// DistributionCredentials carries the TestFlight upload parameters. Its
// presence on a BuildConfiguration is what makes the upload task exist.
type DistributionCredentials struct {
	TeamToken          string   `yaml:"team_token"`
	APIToken           string   `yaml:"api_token"`
	Notes              string   `yaml:"notes,omitempty"`
	Notify             bool     `yaml:"notify"`
	DistributionLists  []string `yaml:"distribution_lists,omitempty"`
	NotesFromChangelog bool     `yaml:"notes_from_changelog,omitempty"`
	Endpoint           string   `yaml:"endpoint,omitempty"`
}

type ChangelogSettings struct {
	ExcludeAuthor string `yaml:"exclude_author,omitempty"`
	Strict        bool   `yaml:"strict,omitempty"`
}

// ProjectFile is the on-disk project description.
type ProjectFile struct {
	APIVersion string             `yaml:"api_version"`
	Xcode      BuildConfiguration `yaml:"xcode"`
}

// ArtifactPaths is the full set of derived output locations.
type ArtifactPaths struct {
	SchemeDir    string
	ProductsRoot string
	OutputPath   string
	AppFile      string
	AppPath      string
	DSYMDir      string
	DSYMPath     string
	DSYMZipFile  string
	DSYMZipPath  string
	IPAFile      string
	IPAPath      string
}
