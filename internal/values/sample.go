package values

import "encoding/json"

// Sample renders one generated document as indented JSON, for the
// --show-sample CLI flag.
func Sample(tmpl *Template) (string, error) {
	doc := tmpl.Generate(Seed{SampleIndex: 0, Phase: "sample", ThreadID: 0})
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
