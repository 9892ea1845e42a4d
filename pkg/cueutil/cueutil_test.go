// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Settings: {
	name:      string
	page_size: int & >=4096 | *16384
	features?: [...string]
}
`

type testSettings struct {
	Name     string   `json:"name"`
	PageSize int      `json:"page_size"`
	Features []string `json:"features"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	result, err := ParseAndDecode[testSettings](
		[]byte(testSchema),
		[]byte(`name: "renderer", features: ["android", "vulkan"]`),
		"#Settings",
		WithFilename("settings.cue"),
	)
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}

	if result.Value.Name != "renderer" {
		t.Errorf("Name = %q, want %q", result.Value.Name, "renderer")
	}
	if result.Value.PageSize != 16384 {
		t.Errorf("PageSize = %d, want default 16384", result.Value.PageSize)
	}
	if len(result.Value.Features) != 2 {
		t.Errorf("Features = %v, want 2 entries", result.Value.Features)
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testSettings](
		[]byte(testSchema),
		[]byte(`name: "renderer", page_size: "huge"`),
		"#Settings",
		WithFilename("settings.cue"),
	)
	if err == nil {
		t.Fatal("ParseAndDecode() expected error for type mismatch, got nil")
	}
	if !strings.Contains(err.Error(), "settings.cue") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestParseAndDecode_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testSettings](
		[]byte(testSchema),
		[]byte(`name: "unterminated`),
		"#Settings",
	)
	if err == nil {
		t.Fatal("ParseAndDecode() expected error for syntax error, got nil")
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	big := []byte(`name: "` + strings.Repeat("x", 100) + `"`)
	_, err := ParseAndDecode[testSettings](
		[]byte(testSchema),
		big,
		"#Settings",
		WithMaxFileSize(10),
	)
	if err == nil {
		t.Fatal("ParseAndDecode() expected size-limit error, got nil")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error should mention size limit, got %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"simple field", []string{"page_size"}, "page_size"},
		{"nested field", []string{"ui", "verbose"}, "ui.verbose"},
		{"array index", []string{"features", "1"}, "features[1]"},
		{"index then field", []string{"targets", "0", "abi"}, "targets[0].abi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
