// Package format defines how the model's text output is divided into
// named sections, and how section content is extracted back out.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoSections is returned by Parse when the output contains none of the
// expected sections.
var ErrNoSections = errors.New("format: no recognized sections found in output")

// Section describes one named section the model is expected to emit.
type Section struct {
	// Name is the section identifier (e.g., "thought", "action", "answer").
	Name string

	// Prompt is the instruction for what belongs in this section,
	// included in the system prompt.
	Prompt string
}

// XML delimits sections with XML-style tags. The section set is fixed at
// construction, so a single XML value is safe to share across concurrent
// Describe and Parse calls.
//
// Example output:
//
//	<thought>
//	I need to find which country borders France.
//	</thought>
//
//	<action>
//	tool: find_neighbor
//	args:
//	  entity: France
//	  relation: borders
//	</action>
type XML struct {
	sections []Section
	patterns map[string]*regexp.Regexp
}

// NewXML creates an XML format recognizing the given sections. Duplicate
// names keep the first occurrence. With no sections, Parse accepts any
// well-formed tag pair.
func NewXML(sections ...Section) *XML {
	f := &XML{
		patterns: make(map[string]*regexp.Regexp, len(sections)),
	}
	for _, section := range sections {
		name := strings.ToLower(section.Name)
		if _, exists := f.patterns[name]; exists {
			continue
		}
		f.sections = append(f.sections, section)
		// (?s) so . matches newlines inside a section body.
		f.patterns[name] = regexp.MustCompile(
			`(?si)<` + regexp.QuoteMeta(name) + `>(.*?)</` + regexp.QuoteMeta(name) + `>`)
	}
	return f
}

// Sections returns the recognized sections in registration order.
func (f *XML) Sections() []Section {
	out := make([]Section, len(f.sections))
	copy(out, f.sections)
	return out
}

// Describe generates the prompt fragment explaining the output structure.
func (f *XML) Describe() string {
	if len(f.sections) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Format your response using XML-style tags for each section:\n\n")

	for _, section := range f.sections {
		fmt.Fprintf(&sb, "<%s>\n", section.Name)
		if section.Prompt != "" {
			sb.WriteString(section.Prompt)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "</%s>\n\n", section.Name)
	}

	return sb.String()
}

// Parse extracts raw content for each recognized section from the model
// output. Returns a map of section name to content instances in order of
// appearance. Sections not present in the output do not appear in the map.
func (f *XML) Parse(output string) (map[string][]string, error) {
	result := make(map[string][]string)

	for _, section := range f.sections {
		name := strings.ToLower(section.Name)
		for _, match := range f.patterns[name].FindAllStringSubmatch(output, -1) {
			if len(match) >= 2 {
				result[name] = append(result[name], strings.TrimSpace(match[1]))
			}
		}
	}

	// With no recognized sections, accept any well-formed tag pair.
	if len(f.sections) == 0 {
		re := regexp.MustCompile(`(?si)<(\w+)>(.*?)</(\w+)>`)
		for _, match := range re.FindAllStringSubmatch(output, -1) {
			if len(match) >= 4 && strings.EqualFold(match[1], match[3]) {
				name := strings.ToLower(match[1])
				result[name] = append(result[name], strings.TrimSpace(match[2]))
			}
		}
	}

	if len(result) == 0 {
		return nil, ErrNoSections
	}

	return result, nil
}
