package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/dental-xray-mcp/internal/contour"
	"github.com/ironsheep/dental-xray-mcp/internal/diagnosis"
	"github.com/ironsheep/dental-xray-mcp/internal/imaging"
	"github.com/ironsheep/dental-xray-mcp/internal/layout"
	"github.com/ironsheep/dental-xray-mcp/internal/palette"
	"github.com/ironsheep/dental-xray-mcp/internal/render"
)

// Options configures every stage of the pipeline.
type Options struct {
	Thresholds diagnosis.Thresholds `json:"thresholds"`
	Contour    contour.Options      `json:"contour"`
	Render     render.Options       `json:"render"`

	// LayoutAttempts bounds the candidates tried per label; <= 0 uses
	// layout.MaxAttempts.
	LayoutAttempts int `json:"layout_attempts"`

	// Workers bounds concurrent enrichment tasks; <= 0 uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultOptions returns the standard settings for every stage.
func DefaultOptions() Options {
	return Options{
		Thresholds:     diagnosis.DefaultThresholds,
		Contour:        contour.DefaultOptions(),
		Render:         render.DefaultOptions(),
		LayoutAttempts: layout.MaxAttempts,
	}
}

// Pipeline enriches and annotates detections.
type Pipeline struct {
	opts     Options
	renderer *render.Renderer
	logger   *log.Logger
}

// New creates a pipeline. A nil logger disables logging.
func New(opts Options, logger *log.Logger) *Pipeline {
	return &Pipeline{
		opts:     opts,
		renderer: render.New(opts.Render),
		logger:   logger,
	}
}

func (p *Pipeline) debugf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// Enrich builds one ToothRecord per detection, sorted by tooth number with
// ties in detection order. img supplies pixels for outline segmentation and
// may be nil.
func (p *Pipeline) Enrich(img image.Image, dets []RawDetection) []ToothRecord {
	records := make([]ToothRecord, len(dets))

	var g errgroup.Group
	workers := p.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, det := range dets {
		i, det := i, det
		g.Go(func() error {
			records[i] = p.enrichOne(img, i, det)
			return nil
		})
	}
	_ = g.Wait() // enrichment tasks never fail

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Tooth < records[b].Tooth
	})
	return records
}

func (p *Pipeline) enrichOne(img image.Image, index int, det RawDetection) ToothRecord {
	tooth := det.Class.Tooth()
	outline := p.opts.Contour.Estimate(img, det.Box, det.Mask)
	if outline.Tier == contour.TierSynthetic {
		p.debugf("detection %d (tooth %d): using synthetic outline", index, tooth)
	}

	return ToothRecord{
		Detection: det,
		Index:     index,
		Tooth:     tooth,
		Diagnosis: p.opts.Thresholds.Classify(det.Confidence, tooth),
		Outline:   outline,
		Color:     palette.Assign(int(tooth)),
	}
}

// Annotate runs both phases over one image. When img is nil the result has
// records and counts but no labels or image.
func (p *Pipeline) Annotate(img image.Image, dets []RawDetection) *PredictionResult {
	records := p.Enrich(img, dets)

	result := &PredictionResult{
		ID:             uuid.NewString(),
		Records:        records,
		DiseaseCounts:  make(map[diagnosis.DiseaseType]int),
		SeverityCounts: make(map[diagnosis.Severity]int),
	}
	for _, rec := range records {
		result.DiseaseCounts[rec.Diagnosis.Disease]++
		result.SeverityCounts[rec.Diagnosis.Severity]++
	}

	if img != nil {
		result.Labels = p.placeLabels(img.Bounds(), records)
		result.Image = p.renderer.Render(img, annotations(records, result.Labels))
	}

	p.debugf("image %s: %d detections, %d labelled", result.ID, len(records), len(result.Labels))
	return result
}

// placeLabels lays out labels for diseased records in record order.
func (p *Pipeline) placeLabels(bounds image.Rectangle, records []ToothRecord) []Label {
	engine := layout.NewEngine(bounds.Dx(), bounds.Dy(), p.opts.LayoutAttempts)

	var labels []Label
	for i, rec := range records {
		if rec.Diagnosis.Healthy() {
			continue
		}
		text := rec.LabelText()
		w, h := p.renderer.MeasureLabel(text)
		box := engine.Place(rec.Detection.Box, w, h)
		if box.BestEffort {
			p.debugf("label %q overlaps after %d attempts", text, box.Attempts)
		}
		labels = append(labels, Label{Record: i, Text: text, Box: box})
	}
	return labels
}

func annotations(records []ToothRecord, labels []Label) []render.Annotation {
	anns := make([]render.Annotation, len(labels))
	for i, l := range labels {
		rec := records[l.Record]
		anns[i] = render.Annotation{
			Outline: rec.Outline.Points,
			Color:   rec.Color,
			Text:    l.Text,
			Label:   l.Box,
		}
	}
	return anns
}

// AnnotateBytes decodes an encoded image and annotates it. A decode failure
// is returned as *ImageDecodeError.
func (p *Pipeline) AnnotateBytes(data []byte, dets []RawDetection) (*PredictionResult, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, &ImageDecodeError{Err: err}
	}
	return p.Annotate(img, dets), nil
}

// Job is one encoded image and its detections.
type Job struct {
	Name       string
	Image      []byte
	Detections []RawDetection
}

// BatchResult is the outcome of one Job. Exactly one of Result and Err is
// set.
type BatchResult struct {
	Name   string
	Result *PredictionResult
	Err    error
}

// ProcessBatch annotates jobs in order. A job that fails to decode records
// its error and does not stop the batch. ctx is checked before each image;
// on cancellation the results so far are returned with ctx's error.
func (p *Pipeline) ProcessBatch(ctx context.Context, jobs []Job) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("batch stopped after %d of %d images: %w", len(results), len(jobs), err)
		}
		res, err := p.AnnotateBytes(job.Image, job.Detections)
		if err != nil {
			p.debugf("image %q: %v", job.Name, err)
		}
		results = append(results, BatchResult{Name: job.Name, Result: res, Err: err})
	}
	return results, nil
}
