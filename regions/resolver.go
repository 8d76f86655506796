package regions

import (
	"log/slog"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/docmosaic/mosaic/model"
)

// Config holds configuration for region conflict resolution.
type Config struct {
	// OverlapThreshold is the overlap ratio above which two detections are
	// considered the same region and the lower-confidence one is discarded.
	// Default: 0.5
	OverlapThreshold float64

	// ContainmentRatio is the overlap ratio at which one box counts as
	// strictly contained in the other. For such pairs the overlap metric
	// switches from IoU to intersection-over-smaller-area, so a small box
	// swallowed by a large one always conflicts.
	// Default: 0.9
	ContainmentRatio float64

	// ClusterGapFactor scales the median token height to get the vertical
	// gap that splits unclaimed tokens into separate synthetic regions.
	// Default: 1.5
	ClusterGapFactor float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		OverlapThreshold: 0.5,
		ContainmentRatio: 0.9,
		ClusterGapFactor: 1.5,
	}
}

// Resolver deduplicates overlapping layout-region detections into a
// non-overlapping partition of a page and assigns each OCR token to the
// region that geometrically contains it.
type Resolver struct {
	config Config
	logger *slog.Logger
}

// New creates a resolver with default configuration.
func New() *Resolver {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a resolver with custom configuration.
func NewWithConfig(config Config) *Resolver {
	return &Resolver{config: config, logger: slog.Default()}
}

// SetLogger replaces the logger used for per-page debug output.
func (r *Resolver) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Resolve reduces raw detections for one page into mutually non-overlapping
// regions and distributes the page's tokens among them. Tokens no region
// claims are wrapped into synthetic text regions; if there are no
// detections at all, the whole page becomes one synthetic region.
func (r *Resolver) Resolve(detections []model.RegionDetection, tokens []model.Token, page int) []model.Region {
	if len(detections) == 0 {
		if len(tokens) == 0 {
			return nil
		}
		r.logger.Debug("no detections, falling back to single synthetic region",
			"page", page, "tokens", len(tokens))
		return []model.Region{syntheticRegion(tokens, page)}
	}

	accepted := r.suppress(detections)
	boxes := r.clipResiduals(accepted)

	regions := make([]model.Region, 0, len(boxes))
	for i, det := range accepted {
		if boxes[i].IsEmpty() {
			continue
		}
		regions = append(regions, model.Region{
			BBox:  boxes[i],
			Label: det.Label,
			Page:  page,
		})
	}

	unclaimed := r.assignTokens(regions, tokens)
	for i := range regions {
		regions[i].Tokens = model.SortTokensNaturally(regions[i].Tokens)
	}

	if len(unclaimed) > 0 {
		r.logger.Debug("clustering unclaimed tokens into synthetic regions",
			"page", page, "unclaimed", len(unclaimed))
		regions = append(regions, r.clusterUnclaimed(unclaimed, page)...)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].BBox.Y0 != regions[j].BBox.Y0 {
			return regions[i].BBox.Y0 < regions[j].BBox.Y0
		}
		return regions[i].BBox.X0 < regions[j].BBox.X0
	})
	return regions
}

// suppress runs confidence-ordered non-max suppression over the raw
// detections. On heavy overlap between different labels, table and figure
// detections win over text regardless of confidence order, since tables
// and figures subsume the text fragments detected inside them.
func (r *Resolver) suppress(detections []model.RegionDetection) []model.RegionDetection {
	sorted := make([]model.RegionDetection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	var accepted []model.RegionDetection
	for _, det := range sorted {
		var conflicts []int
		wins := true
		for i, acc := range accepted {
			if r.overlapMetric(det.BBox, acc.BBox) <= r.config.OverlapThreshold {
				continue
			}
			conflicts = append(conflicts, i)
			if !(subsumesText(det.Label) && acc.Label == model.LabelText) {
				wins = false
			}
		}
		if len(conflicts) == 0 {
			accepted = append(accepted, det)
			continue
		}
		if !wins {
			continue
		}
		// The candidate is a table/figure overlapping only already-accepted
		// text regions: evict them and accept the candidate.
		kept := accepted[:0]
		skip := 0
		for i, acc := range accepted {
			if skip < len(conflicts) && conflicts[skip] == i {
				skip++
				continue
			}
			kept = append(kept, acc)
		}
		accepted = append(kept, det)
	}
	return accepted
}

// overlapMetric returns IoU, switching to intersection-over-smaller-area
// once the pair is in the strict-containment regime.
func (r *Resolver) overlapMetric(a, b model.BBox) float64 {
	ratio := a.OverlapRatio(b)
	if ratio >= r.config.ContainmentRatio {
		return ratio
	}
	return a.IoU(b)
}

func subsumesText(label model.RegionLabel) bool {
	return label == model.LabelTable || label == model.LabelFigure
}

// clipResiduals removes sub-threshold overlaps that survive suppression by
// shrinking the lower-confidence box away from the higher-confidence one
// along the axis of least area loss. The result is a pairwise
// non-overlapping set of boxes, index-aligned with the input.
func (r *Resolver) clipResiduals(accepted []model.RegionDetection) []model.BBox {
	boxes := make([]model.BBox, len(accepted))
	for i, det := range accepted {
		boxes[i] = det.BBox
	}
	for i := 1; i < len(boxes); i++ {
		for j := 0; j < i; j++ {
			if boxes[j].IsEmpty() || boxes[i].IsEmpty() {
				continue
			}
			if boxes[i].Intersection(boxes[j]).Area() > 0 {
				boxes[i] = clipAway(boxes[i], boxes[j])
			}
		}
	}
	return boxes
}

// clipAway shrinks lo so it no longer overlaps hi, keeping the largest of
// the four possible remainders. Returns the zero box if hi swallows lo.
func clipAway(lo, hi model.BBox) model.BBox {
	candidates := []model.BBox{
		{X0: lo.X0, Y0: lo.Y0, X1: hi.X0, Y1: lo.Y1}, // left remainder
		{X0: hi.X1, Y0: lo.Y0, X1: lo.X1, Y1: lo.Y1}, // right remainder
		{X0: lo.X0, Y0: lo.Y0, X1: lo.X1, Y1: hi.Y0}, // top remainder
		{X0: lo.X0, Y0: hi.Y1, X1: lo.X1, Y1: lo.Y1}, // bottom remainder
	}
	best := model.BBox{}
	bestArea := 0.0
	for _, c := range candidates {
		if c.X1 <= c.X0 || c.Y1 <= c.Y0 {
			continue
		}
		if area := c.Area(); area > bestArea {
			best, bestArea = c, area
		}
	}
	return best
}

// assignTokens distributes tokens among the regions containing their center
// point, preferring maximal containment of the token box, using an R-tree
// over region boxes to limit candidate checks. A region never claims a
// token whose center lies outside it: such tokens stay unclaimed so the
// synthetic regions wrapping them cover every token center.
func (r *Resolver) assignTokens(regions []model.Region, tokens []model.Token) []model.Token {
	if len(regions) == 0 {
		return tokens
	}

	var tr rtree.RTreeG[int]
	for i := range regions {
		b := regions[i].BBox
		tr.Insert([2]float64{b.X0, b.Y0}, [2]float64{b.X1, b.Y1}, i)
	}

	var unclaimed []model.Token
	for _, tok := range tokens {
		center := tok.BBox.Center()
		best := -1
		bestScore := 0.0
		tr.Search(
			[2]float64{tok.BBox.X0, tok.BBox.Y0},
			[2]float64{tok.BBox.X1, tok.BBox.Y1},
			func(_, _ [2]float64, i int) bool {
				if !regions[i].BBox.ContainsPoint(center) {
					return true
				}
				score := regions[i].BBox.ContainmentOf(tok.BBox)
				if best < 0 || score > bestScore || (score == bestScore && i < best) {
					best, bestScore = i, score
				}
				return true
			})
		if best < 0 {
			unclaimed = append(unclaimed, tok)
			continue
		}
		regions[best].Tokens = append(regions[best].Tokens, tok)
	}
	return unclaimed
}

// clusterUnclaimed groups tokens no region claimed into synthetic text
// regions, starting a new cluster whenever the vertical gap to the previous
// cluster exceeds ClusterGapFactor times the median token height.
func (r *Resolver) clusterUnclaimed(tokens []model.Token, page int) []model.Region {
	ordered := model.SortTokensNaturally(tokens)
	maxGap := model.MedianTokenHeight(tokens) * r.config.ClusterGapFactor

	var regions []model.Region
	var cluster []model.Token
	clusterBottom := 0.0
	flush := func() {
		if len(cluster) > 0 {
			regions = append(regions, syntheticRegion(cluster, page))
			cluster = nil
		}
	}
	for _, tok := range ordered {
		if len(cluster) > 0 && tok.BBox.Y0-clusterBottom > maxGap {
			flush()
		}
		cluster = append(cluster, tok)
		if tok.BBox.Y1 > clusterBottom || len(cluster) == 1 {
			clusterBottom = tok.BBox.Y1
		}
	}
	flush()
	return regions
}

// syntheticRegion wraps tokens into a text region covering their union box.
func syntheticRegion(tokens []model.Token, page int) model.Region {
	bbox := model.BBox{}
	for _, tok := range tokens {
		bbox = bbox.Union(tok.BBox)
	}
	return model.Region{
		BBox:      bbox,
		Label:     model.LabelText,
		Page:      page,
		Tokens:    model.SortTokensNaturally(tokens),
		Synthetic: true,
	}
}
