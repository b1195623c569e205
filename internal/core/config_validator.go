package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"xctasks/internal/types"
)

const (
	DefaultBuildDir      = "build"
	DefaultTestSDK       = "iphonesimulator"
	DefaultDocsDir       = "docs"
	DefaultKeychainPath  = "~/Library/Keychains/login.keychain"
	DefaultTestFlightURL = "http://testflightapp.com/api/builds.json"
)

// RequireCoordinates fails with a configuration error when any field the
// path deriver and command templates depend on is unset.
func RequireCoordinates(cfg types.BuildConfiguration) error {
	required := []struct {
		field string
		value string
	}{
		{"workspace", cfg.Workspace},
		{"scheme", cfg.Scheme},
		{"configuration", cfg.Configuration},
		{"target", cfg.Target},
		{"sdk", cfg.SDK},
	}
	var missing []string
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			missing = append(missing, "xcode."+entry.field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("missing xcode configuration: %s", strings.Join(missing, ", ")))
}

// ValidateConfiguration checks the full project configuration, including
// version syntax and the optional testflight block. The version is optional
// here; tasks that name the ipa fail when they run without one.
func ValidateConfiguration(cfg types.BuildConfiguration) error {
	if err := RequireCoordinates(cfg); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Version) != "" {
		if err := validateVersion("xcode.version", cfg.Version); err != nil {
			return err
		}
	}
	if strings.TrimSpace(cfg.MarketingVersion) != "" {
		if err := validateReleaseVersion("xcode.marketing_version", cfg.MarketingVersion); err != nil {
			return err
		}
	}
	if strings.TrimSpace(cfg.BuildNumber) != "" {
		if err := validateBuildNumber(cfg.BuildNumber); err != nil {
			return err
		}
	}
	if tf := cfg.TestFlight; tf != nil {
		if strings.TrimSpace(tf.APIToken) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("missing testflight configuration: testflight.api_token")
		}
		if strings.TrimSpace(tf.TeamToken) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("missing testflight configuration: testflight.team_token")
		}
	}
	return nil
}

// ApplyDefaults fills optional fields with their conventional values.
func ApplyDefaults(cfg types.BuildConfiguration) types.BuildConfiguration {
	if strings.TrimSpace(cfg.BuildDir) == "" {
		cfg.BuildDir = DefaultBuildDir
	}
	if strings.TrimSpace(cfg.TestSDK) == "" {
		cfg.TestSDK = DefaultTestSDK
	}
	if strings.TrimSpace(cfg.DocsDir) == "" {
		cfg.DocsDir = DefaultDocsDir
	}
	if strings.TrimSpace(cfg.KeychainPath) == "" {
		cfg.KeychainPath = DefaultKeychainPath
	}
	if strings.TrimSpace(cfg.SourceDir) == "" {
		cfg.SourceDir = cfg.Target
	}
	if cfg.TestFlight != nil && strings.TrimSpace(cfg.TestFlight.Endpoint) == "" {
		tf := *cfg.TestFlight
		tf.Endpoint = DefaultTestFlightURL
		cfg.TestFlight = &tf
	}
	return cfg
}

func validateVersion(field string, value string) error {
	_, err := parseVersion(field, value)
	return err
}

func parseVersion(field string, value string) (pep440.Version, error) {
	parsed, err := pep440.Parse(strings.TrimSpace(value))
	if err != nil {
		return pep440.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s is not a valid version: %s", field, value)).
			WithCause(err)
	}
	return parsed, nil
}

// validateReleaseVersion accepts only plain releases, which is what
// CFBundleShortVersionString allows.
func validateReleaseVersion(field string, value string) error {
	parsed, err := parseVersion(field, value)
	if err != nil {
		return err
	}
	if parsed.IsPreRelease() || parsed.IsPostRelease() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s must be a plain release version: %s", field, value))
	}
	return nil
}

func validateBuildNumber(value string) error {
	trimmed := strings.TrimSpace(value)
	if !isDottedNumeric(trimmed) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("xcode.build_number must contain only digits and dots: %s", value))
	}
	if _, err := debversion.NewVersion(trimmed); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("xcode.build_number is not a valid build number: %s", value)).
			WithCause(err)
	}
	return nil
}

func isDottedNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, segment := range strings.Split(value, ".") {
		if segment == "" {
			return false
		}
		for _, r := range segment {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
