package report

import (
	"encoding/json"
	"io"

	"leveler/internal/leveling"
)

func WriteJSON(w io.Writer, snap leveling.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
