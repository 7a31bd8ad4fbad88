package localdump

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/toothbrush/opendata-dump/opendata"
	"gopkg.in/yaml.v3"
)

// DatasetHeader is the front matter of a dataset description.
type DatasetHeader struct {
	Title     string           `yaml:"title"`
	NodeID    string           `yaml:"node_id"`
	Name      string           `yaml:"name,omitempty"`
	URI       string           `yaml:"uri"`
	Modified  string           `yaml:"modified,omitempty"`
	Resources []ResourceHeader `yaml:"resources"`
}

type ResourceHeader struct {
	Name   string `yaml:"name,omitempty"`
	Format string `yaml:"format,omitempty"`
	URL    string `yaml:"url"`
}

// DescribeMarkdown renders a dataset as Markdown: a YAML header listing its resources, then its
// notes.  Portals store the notes as HTML with links relative to base.
func DescribeMarkdown(base *url.URL, nodeID string, landingPage string, pkg *opendata.Package) (string, error) {
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				// we can't do anything with this url because it is invalid
				return rawURL
			}

			if u.Scheme == "data" || u.Scheme == "mailto" {
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = base.Scheme
			}
			if u.Host == "" {
				u.Host = domain // this comes from the first arg to md.NewConverter
			}

			return u.String()
		},
	}

	converter := md.NewConverter(base.Host, true, opt)
	converter.Use(mdplugin.GitHubFlavored())

	notes, err := converter.ConvertString(pkg.Notes)
	if err != nil {
		return "", fmt.Errorf("localdump: failed to convert notes to Markdown: %w", err)
	}

	header := DatasetHeader{
		Title:     pkg.Title,
		NodeID:    nodeID,
		Name:      pkg.Name,
		URI:       landingPage,
		Modified:  pkg.MetadataModified,
		Resources: []ResourceHeader{},
	}
	for _, r := range pkg.Resources {
		header.Resources = append(header.Resources, ResourceHeader{
			Name:   r.Name,
			Format: r.Format,
			URL:    r.URL,
		})
	}

	yamlHeader, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't marshal header YAML: %w", err)
	}

	body := fmt.Sprintf(`---
%s
---
%s
`,
		strings.TrimSpace(string(yamlHeader)),
		notes)

	return body, nil
}
