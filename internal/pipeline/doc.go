// Package pipeline turns raw detector output for one radiograph into an
// enriched, annotated PredictionResult.
//
// Processing runs in two phases. The enrichment phase classifies each
// detection, estimates its outline and assigns its color; detections are
// independent, so this phase fans out across goroutines that share only the
// read-only source image. The annotation phase sorts the records by tooth,
// places labels for the diseased ones in that order and renders the overlay.
// Label placement depends on every earlier placement, so it runs on a single
// goroutine.
//
// # Basic Usage
//
//	p := pipeline.New(pipeline.DefaultOptions(), nil)
//	result, err := p.AnnotateBytes(jpegData, detections)
//	if err != nil {
//	    var decodeErr *pipeline.ImageDecodeError
//	    if errors.As(err, &decodeErr) {
//	        // the image itself was unreadable
//	    }
//	}
//
// A Pipeline holds configuration only and is safe for concurrent use.
package pipeline
