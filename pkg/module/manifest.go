package module

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest file names, in lookup order.
const (
	ManifestYAML = "module.yaml"
	ManifestXML  = "module.xml"
)

// Manifest describes a module.
type Manifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	HasAdmin    bool   `yaml:"has_admin"`
}

// xmlManifest mirrors the legacy module.xml layout:
//
//	<module>
//	  <info><name/><version/><author/><description/></info>
//	  <config><hasAdmin>true</hasAdmin></config>
//	</module>
type xmlManifest struct {
	XMLName     xml.Name `xml:"module"`
	Name        string   `xml:"info>name"`
	Version     string   `xml:"info>version"`
	Author      string   `xml:"info>author"`
	Description string   `xml:"info>description"`
	HasAdmin    string   `xml:"config>hasAdmin"`
}

// ReadManifest reads the manifest of the module rooted at dir.
// It returns fs.ErrNotExist when dir holds neither manifest file.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestYAML))
	if err == nil {
		return ParseYAMLManifest(data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Manifest{}, err
	}

	data, err = os.ReadFile(filepath.Join(dir, ManifestXML))
	if err != nil {
		return Manifest{}, err
	}
	return ParseXMLManifest(data)
}

// ParseYAMLManifest decodes a module.yaml document.
func ParseYAMLManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Join(ErrInvalidManifest, err)
	}
	return m, nil
}

// ParseXMLManifest decodes a legacy module.xml document.
// Only the literal "true" enables hasAdmin.
func ParseXMLManifest(data []byte) (Manifest, error) {
	var x xmlManifest
	if err := xml.Unmarshal(data, &x); err != nil {
		return Manifest{}, errors.Join(ErrInvalidManifest, err)
	}
	return Manifest{
		Name:        strings.TrimSpace(x.Name),
		Version:     strings.TrimSpace(x.Version),
		Description: strings.TrimSpace(x.Description),
		Author:      strings.TrimSpace(x.Author),
		HasAdmin:    strings.TrimSpace(x.HasAdmin) == "true",
	}, nil
}

func manifestMissing(dir string) error {
	return fmt.Errorf("%w: %q has no %s or %s", ErrModuleNotFound, dir, ManifestYAML, ManifestXML)
}
