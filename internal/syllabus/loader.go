package syllabus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// overlaySchema validates curriculum overlay documents before they can
// replace a built-in class syllabus. A month must not carry both subject
// buckets and a revision plan.
const overlaySchema = `{
	"type": "object",
	"required": ["class", "goal", "months"],
	"properties": {
		"class": {"type": "string", "enum": ["9", "10", "11", "12"]},
		"goal": {"type": "string", "minLength": 1},
		"rules": {"type": "array", "items": {"type": "string"}},
		"months": {
			"type": "array",
			"minItems": 12,
			"maxItems": 12,
			"items": {
				"type": "object",
				"required": ["month", "description"],
				"properties": {
					"month": {"type": "integer", "minimum": 1, "maximum": 12},
					"description": {"type": "string"},
					"color": {"type": "string"},
					"dailyRevisionPlan": {"type": "array", "items": {"type": "string"}},
					"subjects": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["subject"],
							"properties": {
								"subject": {"type": "string", "minLength": 1},
								"icon": {"type": "string"},
								"topics": {
									"type": "array",
									"items": {
										"type": "object",
										"required": ["name"],
										"properties": {
											"name": {"type": "string", "minLength": 1},
											"hours": {"type": "integer", "minimum": 0},
											"days": {"type": "integer", "minimum": 0}
										}
									}
								}
							}
						}
					}
				},
				"not": {"required": ["subjects", "dailyRevisionPlan"]}
			}
		}
	}
}`

// LoadOverlays walks dir for YAML curriculum files and replaces the
// matching built-in class syllabi. Invalid files are logged and skipped so
// one bad overlay cannot take down startup.
func LoadOverlays(dir string, cat *Catalog) error {
	loaded := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		s, err := loadOverlay(path)
		if err != nil {
			slog.Warn("skipping invalid curriculum overlay", "path", path, "error", err)
			return nil
		}
		if err := cat.Replace(s); err != nil {
			slog.Warn("skipping curriculum overlay", "path", path, "error", err)
			return nil
		}
		loaded++
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking overlay dir: %w", err)
	}

	slog.Info("curriculum overlays loaded", "dir", dir, "count", loaded)
	return nil
}

func loadOverlay(path string) (*ClassSyllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Schema validation runs on the JSON form of the document.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	jsonDoc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(overlaySchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}

	var s ClassSyllabus
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding syllabus: %w", err)
	}
	return &s, nil
}
