package printer

import (
	"gopkg.in/yaml.v3"
)

// writeYAML marshals v as a YAML document.
func (p *Printer) writeYAML(v any) error {
	enc := yaml.NewEncoder(p.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
