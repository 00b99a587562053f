// Package contour estimates an outline polygon for each detected tooth.
//
// An outline is produced by the first of three strategies that succeeds:
//
//  1. Mask: the detector supplied a segmentation mask with at least three
//     points. It is used as-is after rounding to whole pixels.
//  2. Segmented: the box, padded by a few pixels, is cropped from the source
//     image and split into foreground and background by iterated
//     graph-energy minimization seeded with a rectangle prior. The mask is
//     closed, blurred and re-thresholded, then the largest external contour
//     is traced and simplified.
//  3. Synthetic: an eight-point tooth shape built from the box alone, a
//     bevelled crown over the top 60% tapering to a narrower root.
//
// Each strategy is a plain function returning a polygon and an ok flag, and
// Estimate reports which one produced the result through Outline.Tier. The
// synthetic strategy cannot fail, so Estimate always returns at least three
// points, including for nil images, all-black crops and zero-area boxes.
//
// # Segmentation Model
//
// Pixels are compared in CIE-Lab. Foreground and background colours are each
// modelled as a small mixture of diagonal Gaussians fitted with k-means. The
// energy adds a per-pixel data term (negative log-likelihood under the
// cheaper model) to a contrast-sensitive Potts term over the 8-neighbourhood.
// Each iteration refits both models, labels every pixel inside the prior
// rectangle by the data term alone, then runs a few iterated-conditional-modes
// sweeps to apply the smoothness term. The Potts weight is in the same units
// as the data term (nats), so a lone pixel flips when most of its neighbours
// disagree with it but an edge between dissimilar colours costs almost
// nothing. Pixels outside the prior are fixed background.
//
// All functions are safe for concurrent use; the source image is only read.
package contour
