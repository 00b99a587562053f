package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/dental-xray-mcp/internal/diagnosis"
	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
	"github.com/ironsheep/dental-xray-mcp/internal/imaging"
	"github.com/ironsheep/dental-xray-mcp/internal/palette"
	"github.com/ironsheep/dental-xray-mcp/internal/pipeline"
	"github.com/ironsheep/dental-xray-mcp/internal/report"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "xray_annotate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "xray_annotate":
		return s.handleAnnotate(args)
	case "xray_annotate_batch":
		return s.handleAnnotateBatch(args)
	case "xray_classify":
		return s.handleClassify(args)
	case "xray_tooth_color":
		return s.handleToothColor(args)
	case "xray_outline":
		return s.handleOutline(args)
	case "xray_crop":
		return s.handleCrop(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type annotateArgs struct {
	Path         string                  `json:"path"`
	Detections   []pipeline.RawDetection `json:"detections"`
	OutputFormat string                  `json:"output_format"`
	Quality      int                     `json:"quality"`
	OutputPath   string                  `json:"output_path"`
	CSVPath      string                  `json:"csv_path"`
}

// AnnotatedImage describes the rendered artifact. Exactly one of Path and
// ImageBase64 is set.
type AnnotatedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MimeType    string `json:"mime_type"`
	Path        string `json:"path,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	SizeBytes   int    `json:"size_bytes"`
}

// AnnotateResult is the xray_annotate response.
type AnnotateResult struct {
	Document *report.Document `json:"document"`
	Labels   []pipeline.Label `json:"labels"`
	Image    AnnotatedImage   `json:"image"`
}

// encoding resolves the requested output format and quality against the
// configured defaults.
func (s *Server) encoding(formatArg string, qualityArg int) (imaging.Format, int, error) {
	format := s.cfg.OutputFormat()
	if formatArg != "" {
		f, err := imaging.ParseFormat(formatArg)
		if err != nil {
			return "", 0, err
		}
		format = f
	}
	quality := s.cfg.Output.Quality
	if qualityArg != 0 {
		if qualityArg < 1 || qualityArg > 100 {
			return "", 0, fmt.Errorf("quality must be between 1 and 100, got %d", qualityArg)
		}
		quality = qualityArg
	}
	return format, quality, nil
}

func validateDetections(dets []pipeline.RawDetection) error {
	for i, d := range dets {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("detection %d: %w", i, err)
		}
	}
	return nil
}

func (s *Server) handleAnnotate(args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := validateDetections(a.Detections); err != nil {
		return nil, err
	}
	format, quality, err := s.encoding(a.OutputFormat, a.Quality)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	result, err := s.pipeline.AnnotateBytes(data, a.Detections)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.Encode(result.Image, format, quality)
	if err != nil {
		return nil, err
	}

	out := AnnotatedImage{
		Width:     result.Image.Bounds().Dx(),
		Height:    result.Image.Bounds().Dy(),
		MimeType:  format.MIMEType(),
		SizeBytes: len(encoded),
	}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, encoded, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write annotated image: %w", err)
		}
		out.Path = a.OutputPath
	} else {
		out.ImageBase64 = base64.StdEncoding.EncodeToString(encoded)
	}

	doc := report.Build(result, a.Path)
	if a.CSVPath != "" {
		if err := report.AppendCSV(a.CSVPath, []*report.Document{doc}); err != nil {
			return nil, err
		}
	}

	labels := result.Labels
	if labels == nil {
		labels = []pipeline.Label{}
	}
	return &AnnotateResult{
		Document: doc,
		Labels:   labels,
		Image:    out,
	}, nil
}

type batchItemArgs struct {
	Path       string                  `json:"path"`
	Detections []pipeline.RawDetection `json:"detections"`
}

type annotateBatchArgs struct {
	Items          []batchItemArgs `json:"items"`
	OutputDir      string          `json:"output_dir"`
	OutputFormat   string          `json:"output_format"`
	Quality        int             `json:"quality"`
	CSVPath        string          `json:"csv_path"`
	TimeoutSeconds int             `json:"timeout_seconds"`
}

// BatchItem is the outcome for one image of xray_annotate_batch. Exactly one
// of Document and Error is set.
type BatchItem struct {
	Path       string           `json:"path"`
	Document   *report.Document `json:"document,omitempty"`
	OutputPath string           `json:"output_path,omitempty"`
	Error      string           `json:"error,omitempty"`
	DecodeErr  bool             `json:"decode_error,omitempty"`
}

// AnnotateBatchResult is the xray_annotate_batch response.
type AnnotateBatchResult struct {
	Items     []BatchItem `json:"items"`
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Stopped   string      `json:"stopped,omitempty"`
	CSVPath   string      `json:"csv_path,omitempty"`
}

func (s *Server) handleAnnotateBatch(args json.RawMessage) (interface{}, error) {
	var a annotateBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Items) == 0 {
		return nil, fmt.Errorf("items must contain at least one image")
	}
	if a.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("timeout_seconds must not be negative, got %d", a.TimeoutSeconds)
	}
	format, quality, err := s.encoding(a.OutputFormat, a.Quality)
	if err != nil {
		return nil, err
	}

	jobs := make([]pipeline.Job, len(a.Items))
	for i, item := range a.Items {
		if err := validateDetections(item.Detections); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		data, err := os.ReadFile(item.Path)
		if err != nil {
			return nil, fmt.Errorf("item %d: failed to read image: %w", i, err)
		}
		jobs[i] = pipeline.Job{Name: item.Path, Image: data, Detections: item.Detections}
	}

	ctx := context.Background()
	if a.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	results, batchErr := s.pipeline.ProcessBatch(ctx, jobs)

	out := &AnnotateBatchResult{Items: make([]BatchItem, 0, len(results))}
	var docs []*report.Document
	for _, r := range results {
		item := BatchItem{Path: r.Name}
		if r.Err != nil {
			item.Error = r.Err.Error()
			var decodeErr *pipeline.ImageDecodeError
			item.DecodeErr = errors.As(r.Err, &decodeErr)
			out.Failed++
			out.Items = append(out.Items, item)
			continue
		}

		item.Document = report.Build(r.Result, r.Name)
		docs = append(docs, item.Document)
		out.Processed++

		if a.OutputDir != "" {
			path, err := writeAnnotated(a.OutputDir, r.Name, r.Result, format, quality)
			if err != nil {
				return nil, err
			}
			item.OutputPath = path
		}
		out.Items = append(out.Items, item)
	}
	if batchErr != nil {
		out.Stopped = batchErr.Error()
	}

	if a.CSVPath != "" && len(docs) > 0 {
		if err := report.AppendCSV(a.CSVPath, docs); err != nil {
			return nil, err
		}
		out.CSVPath = a.CSVPath
	}
	return out, nil
}

// writeAnnotated saves the rendered image as <dir>/<base>_annotated.<ext>.
func writeAnnotated(dir, name string, result *pipeline.PredictionResult, format imaging.Format, quality int) (string, error) {
	data, err := imaging.Encode(result.Image, format, quality)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	path := filepath.Join(dir, base+"_annotated."+format.Extension())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write annotated image: %w", err)
	}
	return path, nil
}

type classifyArgs struct {
	Class      pipeline.ClassLabel `json:"class"`
	Confidence *float64            `json:"confidence"`
}

// ClassifyResult is the xray_classify response.
type ClassifyResult struct {
	ToothNumber int                 `json:"tooth_number"`
	ToothName   string              `json:"tooth_name"`
	Diagnosis   diagnosis.Diagnosis `json:"diagnosis"`
	Description string              `json:"description"`
	Urgency     string              `json:"urgency_detail"`
}

func (s *Server) handleClassify(args json.RawMessage) (interface{}, error) {
	var a classifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Confidence == nil {
		return nil, fmt.Errorf("confidence is required")
	}
	det := pipeline.RawDetection{Class: a.Class, Confidence: *a.Confidence}
	if err := det.Validate(); err != nil {
		return nil, err
	}

	tooth := a.Class.Tooth()
	d := s.cfg.Classifier.Classify(det.Confidence, tooth)
	return &ClassifyResult{
		ToothNumber: int(tooth),
		ToothName:   tooth.Name(),
		Diagnosis:   d,
		Description: d.Description(tooth),
		Urgency:     d.Urgency.Description(),
	}, nil
}

type toothColorArgs struct {
	Tooth int `json:"tooth"`
}

// ToothColorResult is the xray_tooth_color response.
type ToothColorResult struct {
	ToothNumber int          `json:"tooth_number"`
	Hex         string       `json:"hex"`
	RGB         geometry.RGB `json:"rgb"`
	Palette     []string     `json:"palette"` // Full palette, indexed by tooth mod 10
}

func (s *Server) handleToothColor(args json.RawMessage) (interface{}, error) {
	var a toothColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c := palette.Assign(a.Tooth)
	colors := palette.Colors()
	hexes := make([]string, len(colors))
	for i, pc := range colors {
		hexes[i] = pc.Hex()
	}
	return &ToothColorResult{ToothNumber: a.Tooth, Hex: c.Hex(), RGB: c, Palette: hexes}, nil
}

type outlineArgs struct {
	Path string            `json:"path"`
	Box  geometry.Box      `json:"box"`
	Mask []geometry.PointF `json:"mask"`
}

// OutlineResult is the xray_outline response.
type OutlineResult struct {
	Points [][2]int     `json:"points"`
	Source string       `json:"source"`
	Bounds geometry.Box `json:"bounds"`
	Area   float64      `json:"area"`
}

func (s *Server) handleOutline(args json.RawMessage) (interface{}, error) {
	var a outlineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	o := s.cfg.Contour.Estimate(img, a.Box, a.Mask)
	return &OutlineResult{
		Points: o.Points.Pairs(),
		Source: o.Tier.String(),
		Bounds: o.Points.Bounds(),
		Area:   o.Points.Area(),
	}, nil
}

type cropArgs struct {
	Path    string       `json:"path"`
	Box     geometry.Box `json:"box"`
	Padding *int         `json:"padding"`
	Scale   float64      `json:"scale"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pad := 10
	if a.Padding != nil {
		pad = *a.Padding
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropTooth(img, a.Box, pad, a.Scale)
}
