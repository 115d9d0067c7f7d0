package mapping

import (
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the override file looked up next to the packages.
const DefaultFileName = "mapper.yaml"

// SupportedVersions is the semver constraint a file version must satisfy.
const SupportedVersions = "^1"

const filePerm = 0o644

// LoadFile loads and parses a YAML override file from the given path.
func LoadFile(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mapping file %s", path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping file %s", path)
	}

	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse mapping YAML")
	}

	applyDefaults(&f)

	if err := CheckVersion(f.Version); err != nil {
		return nil, err
	}

	for i, entry := range f.Contracts {
		if entry.Contract == "" {
			return nil, errors.Newf("contracts[%d]: missing contract name", i)
		}
	}

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// CheckVersion verifies that version satisfies SupportedVersions.
func CheckVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid mapping file version %q", version)
	}

	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Wrap(err, "invalid version constraint")
	}

	if !c.Check(v) {
		return errors.WithHintf(
			errors.Newf("unsupported mapping file version %s", v),
			"supported versions: %s", SupportedVersions,
		)
	}

	return nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(fs afero.Fs, f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return errors.Wrap(err, "failed to marshal mapping")
	}

	if err := afero.WriteFile(fs, path, data, filePerm); err != nil {
		return errors.Wrapf(err, "failed to write mapping file %s", path)
	}

	return nil
}
