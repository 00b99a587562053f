package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the radiograph image file",
	}
}

func boxProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func classProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        []string{"string", "integer"},
		"description": "Detector class label or integer class code carrying the FDI tooth number, e.g. \"36\" or 36",
	}
}

func confidenceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"minimum":     0,
		"maximum":     1,
		"description": "Detector confidence between 0 and 1",
	}
}

func detectionsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Detector output, one entry per tooth",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"box":        boxProperty("Detection bounding box"),
				"class":      classProperty(),
				"confidence": confidenceProperty(),
				"mask":       maskProperty(),
			},
			"required": []string{"box", "class", "confidence"},
		},
	}
}

func outputFormatProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"jpeg", "png"},
		"description": "Encoding of the annotated image. Defaults to the configured format",
	}
}

func qualityProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "JPEG quality (1-100). Defaults to the configured quality",
	}
}

func csvPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional CSV log to append one summary row per image to. Created with a header if missing",
	}
}

func maskProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Optional segmentation polygon from the detector, in image coordinates",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a radiograph and return its dimensions, format and color depth. The image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "xray_annotate",
			Description: "Enrich tooth detections with a diagnosis, outline and color, place non-overlapping labels and render the annotated radiograph. " +
				"Returns the report document, label placements and the annotated image (base64, or written to output_path).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty(),
					"detections":    detectionsProperty(),
					"output_format": outputFormatProperty(),
					"quality":       qualityProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the annotated image to instead of returning it inline",
					},
					"csv_path": csvPathProperty(),
				},
				"required": []string{"path", "detections"},
			},
		},
		{
			Name: "xray_annotate_batch",
			Description: "Annotate several radiographs in order. An image that fails to decode is reported and skipped; the rest still run. " +
				"Returns one report document per image and optionally writes annotated images and appends a CSV summary log.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"items": map[string]interface{}{
						"type":        "array",
						"description": "Images to annotate with their detections",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"path":       pathProperty(),
								"detections": detectionsProperty(),
							},
							"required": []string{"path", "detections"},
						},
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory for <name>_annotated images. Without it only documents are returned",
					},
					"output_format": outputFormatProperty(),
					"quality":       qualityProperty(),
					"csv_path":      csvPathProperty(),
					"timeout_seconds": map[string]interface{}{
						"type":        "integer",
						"description": "Optional limit for the whole batch. Checked between images; finished images are kept",
					},
				},
				"required": []string{"items"},
			},
		},
		{
			Name:        "xray_classify",
			Description: "Diagnose one tooth from its detector class label and confidence. Returns disease, severity, affected area, recommendations and urgency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"class":      classProperty(),
					"confidence": confidenceProperty(),
				},
				"required": []string{"class", "confidence"},
			},
		},
		{
			Name:        "xray_tooth_color",
			Description: "Get the annotation color for a tooth number. The same tooth always gets the same color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tooth": map[string]interface{}{
						"type":        "integer",
						"description": "FDI tooth number, e.g. 36",
					},
				},
				"required": []string{"tooth"},
			},
		},
		{
			Name:        "xray_outline",
			Description: "Estimate the outline polygon for one detection. Uses the mask if given, then image segmentation, then a box-derived tooth shape.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"box":  boxProperty("Detection bounding box"),
					"mask": maskProperty(),
				},
				"required": []string{"path", "box"},
			},
		},
		{
			Name:        "xray_crop",
			Description: "Crop the area around a detection box and return it as base64-encoded PNG with its mean intensity. Use this to examine a tooth closely.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"box":  boxProperty("Detection bounding box"),
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of context around the box. Default 10",
						"default":     10,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "box"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
