package printer

import (
	"encoding/json"
	"fmt"
)

// writeJSON marshals v with 2-space indentation.
func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
