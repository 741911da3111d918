// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Render returns a human readable ascii diff between two values of one type.
// Non-object values are shown under a "records" key. An empty string means the
// values are equal.
func Render(old, cur any, color bool) (string, error) {
	left, lok := old.(map[string]any)
	right, rok := cur.(map[string]any)
	if !lok || !rok {
		left = map[string]any{"records": old}
		right = map[string]any{"records": cur}
	}

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		return "", nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	}

	out, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return "", fmt.Errorf("failed to format diff: %w", err)
	}
	return out, nil
}
