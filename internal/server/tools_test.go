package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"grid_load",
		"grid_info",
		"grid_statistics",
		"grid_value_at",
		"grid_subgrid",
		"palette_list",
		"palette_stops",
		"palette_ticks",
		"palette_legend",
		"heatmap_render",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required argument must be described.
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required property %q has no schema", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredGrid(t *testing.T) {
	toolsRequiringGrid := []string{
		"grid_info",
		"grid_statistics",
		"grid_value_at",
		"grid_subgrid",
		"heatmap_render",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range toolsRequiringGrid {
		t.Run(name, func(t *testing.T) {
			tool, ok := toolMap[name]
			if !ok {
				t.Fatalf("tool %s not found", name)
			}

			requiredList, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			hasGrid := false
			for _, r := range requiredList {
				if r == "grid" {
					hasGrid = true
					break
				}
			}
			if !hasGrid {
				t.Error("Tool should require 'grid' parameter")
			}
		})
	}
}

func TestToolDefinitions_PaletteProperties(t *testing.T) {
	paletteTools := []string{"palette_stops", "palette_ticks", "palette_legend", "heatmap_render"}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range paletteTools {
		props := toolMap[name].InputSchema["properties"].(map[string]interface{})
		for _, p := range []string{"colormap", "lower", "upper", "color_count", "alpha", "reverse", "contours"} {
			if _, ok := props[p]; !ok {
				t.Errorf("%s: missing palette property %q", name, p)
			}
		}
	}
}
