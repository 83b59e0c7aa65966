// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danielhkuo/mandates/models"
)

// WriteJSON exports the complete result, indented
func WriteJSON(w io.Writer, r *models.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
