package vault

import (
	"regexp"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var frontMatterRe = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*(?:\n|\z)`)

// FrontMatter holds the note header fields the lookup cares about.
type FrontMatter struct {
	ID      string `yaml:"id,omitempty"`
	Title   string `yaml:"title,omitempty"`
	Desc    string `yaml:"desc,omitempty"`
	Created int64  `yaml:"created,omitempty"`
	Updated int64  `yaml:"updated,omitempty"`
}

// splitFrontMatter separates a leading YAML block from the note body.
func splitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

// ParseFrontMatter decodes the YAML header of a note. Notes without a header
// yield a zero FrontMatter.
func ParseFrontMatter(data []byte) (FrontMatter, error) {
	var fm FrontMatter
	raw, _ := splitFrontMatter(data)
	if len(raw) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return FrontMatter{}, errors.Wrap(err, "parse front matter")
	}
	return fm, nil
}

// render produces a note with fm as its header and an empty body.
func (fm FrontMatter) render() ([]byte, error) {
	out, err := yaml.Marshal(fm)
	if err != nil {
		return nil, errors.Wrap(err, "encode front matter")
	}
	doc := make([]byte, 0, len(out)+12)
	doc = append(doc, "---\n"...)
	doc = append(doc, out...)
	doc = append(doc, "---\n\n"...)
	return doc, nil
}
