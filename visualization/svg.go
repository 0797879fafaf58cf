// Package visualization renders process models as standalone SVG documents.
//
// Layouts are computed left to right: nodes are assigned levels by breadth
// first distance from the model's entry nodes and stacked vertically within
// each level, so the renderers need no coordinates on the input model.
package visualization

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ProcessMiningUSC/CRIER/dfg"
	"github.com/ProcessMiningUSC/CRIER/petri"
)

const (
	placeRadius    = 16.0
	transitionSide = 30.0
	activityWidth  = 110.0
	activityHeight = 36.0

	netSpacingX = 110.0
	netSpacingY = 90.0
	dfgSpacingX = 170.0
	dfgSpacingY = 80.0

	framePadding = 50.0
	arrowOffset  = 10.0
	nodeGap      = 2.0
	minDistance  = 1.0
)

const netStyle = `.place { fill: #fff; stroke: #333; stroke-width: 2; }` +
	`.place-ring { fill: none; stroke: #333; stroke-width: 2; }` +
	`.token-dot { fill: #333; }` +
	`.transition { fill: #fff; stroke: #000; stroke-width: 1; }` +
	`.transition-silent { fill: #333; }` +
	`.arc { stroke: #999; stroke-width: 1.5; fill: none; }` +
	`.arrowhead { fill: #999; }` +
	`.label-text { font-family: system-ui, Arial; font-size: 11px; fill: #333; text-anchor: middle; dominant-baseline: hanging; }`

const dfgStyle = `.activity { fill: #e3f2fd; stroke: #1976d2; stroke-width: 2; }` +
	`.activity-label { font-family: system-ui, Arial; font-size: 12px; fill: #333; text-anchor: middle; dominant-baseline: middle; }` +
	`.arc { stroke: #999; stroke-width: 1.5; fill: none; }` +
	`.arrowhead { fill: #999; }` +
	`.weight-bg { fill: #fafafa; stroke: #ddd; stroke-width: 1; }` +
	`.weight-badge { font-family: system-ui, Arial; font-size: 10px; fill: #666; text-anchor: middle; dominant-baseline: middle; }`

// NetSVG renders a place/transition net as an SVG document. Places are drawn
// as circles, transitions as squares. Silent transitions are filled dark and
// carry no label, initial places carry a token dot, final places a double
// ring.
func NetSVG(n *petri.Net) (string, error) {
	if n == nil {
		return "", fmt.Errorf("visualization: nil net")
	}

	ids := make([]string, 0, n.PlaceCount()+n.TransitionCount())
	for _, p := range n.Places() {
		ids = append(ids, p.ID)
	}
	for _, t := range n.Transitions() {
		ids = append(ids, t.ID)
	}
	roots := make([]string, 0, 1)
	for _, p := range n.InitialPlaces() {
		roots = append(roots, p.ID)
	}

	levels := levelsFrom(ids, roots, n.PostSet)
	positions := positionNodes(levels, netSpacingX, netSpacingY)

	var buf bytes.Buffer
	openSVG(&buf, positions, transitionSide/2, transitionSide/2, netStyle)

	for _, arc := range n.Arcs() {
		src, trg := placeShape, transitionShape
		if arc.Kind == petri.TransitionToPlace {
			src, trg = transitionShape, placeShape
		}
		drawEdge(&buf, positions[arc.Source], positions[arc.Target], src, trg)
	}

	for _, p := range n.Places() {
		drawPlace(&buf, positions[p.ID], p)
	}
	for _, t := range n.Transitions() {
		drawTransition(&buf, positions[t.ID], t)
	}

	buf.WriteString("</svg>\n")
	return buf.String(), nil
}

// DFGSVG renders a directly-follows graph as an SVG document. Activities are
// drawn as rounded boxes and every arc carries its weight in a badge at the
// arc midpoint. Self-loops are drawn as a curl above the activity.
func DFGSVG(g *dfg.Graph) (string, error) {
	if g == nil {
		return "", fmt.Errorf("visualization: nil graph")
	}

	ids := g.ActivityIDs()
	roots := make([]string, 0, 1)
	for _, a := range g.Sources() {
		roots = append(roots, a.ID)
	}
	if len(roots) == 0 && len(ids) > 0 {
		// fully cyclic graph, start the walk somewhere deterministic
		roots = append(roots, ids[0])
	}

	succ := func(id string) []string {
		outs := g.Outgoing(id)
		next := make([]string, 0, len(outs))
		for _, arc := range outs {
			next = append(next, arc.Target)
		}
		return next
	}
	levels := levelsFrom(ids, roots, succ)
	positions := positionNodes(levels, dfgSpacingX, dfgSpacingY)

	var buf bytes.Buffer
	openSVG(&buf, positions, activityWidth/2, activityHeight/2, dfgStyle)

	for _, arc := range g.Arcs() {
		var bx, by float64
		if arc.Source == arc.Target {
			bx, by = drawSelfLoop(&buf, positions[arc.Source])
		} else {
			bx, by = drawEdge(&buf, positions[arc.Source], positions[arc.Target], activityShape, activityShape)
		}
		drawWeight(&buf, bx, by, arc.Weight)
	}

	for _, a := range g.Activities() {
		drawActivity(&buf, positions[a.ID], a)
	}

	buf.WriteString("</svg>\n")
	return buf.String(), nil
}

// SaveSVG writes a rendered SVG document to path.
func SaveSVG(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}

type nodePosition struct {
	x, y float64
}

// levelsFrom assigns each node a level by breadth first distance from the
// roots. Breadth first order keeps the walk finite on cyclic graphs. Nodes
// unreachable from every root are placed one level past the deepest reached
// one.
func levelsFrom(ids, roots []string, succ func(string) []string) map[string]int {
	levels := make(map[string]int, len(ids))

	queue := append([]string(nil), roots...)
	sort.Strings(queue)
	for _, r := range queue {
		levels[r] = 0
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range succ(cur) {
			if _, seen := levels[next]; seen {
				continue
			}
			levels[next] = levels[cur] + 1
			queue = append(queue, next)
		}
	}

	maxLevel := 0
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	for _, id := range ids {
		if _, ok := levels[id]; !ok {
			levels[id] = maxLevel + 1
		}
	}
	return levels
}

// positionNodes lays levels out left to right, stacking the nodes of each
// level top to bottom in ID order.
func positionNodes(levels map[string]int, spacingX, spacingY float64) map[string]nodePosition {
	byLevel := make(map[int][]string)
	maxLevel := 0
	for id, level := range levels {
		byLevel[level] = append(byLevel[level], id)
		if level > maxLevel {
			maxLevel = level
		}
	}

	positions := make(map[string]nodePosition, len(levels))
	for level := 0; level <= maxLevel; level++ {
		ids := byLevel[level]
		sort.Strings(ids)
		for i, id := range ids {
			positions[id] = nodePosition{x: float64(level) * spacingX, y: float64(i) * spacingY}
		}
	}
	return positions
}

func openSVG(buf *bytes.Buffer, positions map[string]nodePosition, halfW, halfH float64, style string) {
	var minX, minY, maxX, maxY float64
	first := true
	for _, pos := range positions {
		if first {
			minX, maxX = pos.x-halfW, pos.x+halfW
			minY, maxY = pos.y-halfH, pos.y+halfH
			first = false
			continue
		}
		if pos.x-halfW < minX {
			minX = pos.x - halfW
		}
		if pos.x+halfW > maxX {
			maxX = pos.x + halfW
		}
		if pos.y-halfH < minY {
			minY = pos.y - halfH
		}
		if pos.y+halfH > maxY {
			maxY = pos.y + halfH
		}
	}

	minX -= framePadding
	minY -= framePadding
	maxX += framePadding
	maxY += framePadding

	width := maxX - minX
	height := maxY - minY
	if width < 100 {
		width = 100
	}
	if height < 100 {
		height = 100
	}

	buf.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`,
		minX, minY, width, height, width, height))
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f8f9fa" rx="8"/>`,
		minX, minY, width, height))
	buf.WriteString("\n")
	buf.WriteString(`<defs><style>`)
	buf.WriteString(style)
	buf.WriteString(`</style>`)
	buf.WriteString(`<marker id="arrow" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">`)
	buf.WriteString(`<polygon points="0 0, 10 3.5, 0 7" class="arrowhead"/>`)
	buf.WriteString(`</marker></defs>`)
	buf.WriteString("\n")
}

// nodeShape describes a node outline so arcs can stop at its boundary
// instead of its center.
type nodeShape struct {
	radius float64
	halfW  float64
	halfH  float64
}

var (
	placeShape      = nodeShape{radius: placeRadius}
	transitionShape = nodeShape{halfW: transitionSide / 2, halfH: transitionSide / 2}
	activityShape   = nodeShape{halfW: activityWidth / 2, halfH: activityHeight / 2}
)

// pad returns the distance from the shape center to its boundary along the
// unit direction (ux, uy), plus a small gap.
func (s nodeShape) pad(ux, uy float64) float64 {
	if s.radius > 0 {
		return s.radius + nodeGap
	}
	sx := math.Inf(1)
	if ux != 0 {
		sx = s.halfW / math.Abs(ux)
	}
	sy := math.Inf(1)
	if uy != 0 {
		sy = s.halfH / math.Abs(uy)
	}
	return math.Min(sx, sy) + nodeGap
}

// drawEdge draws an arrow between two node boundaries and reports the point
// where a label badge should sit.
func drawEdge(buf *bytes.Buffer, from, to nodePosition, src, trg nodeShape) (float64, float64) {
	dx := to.x - from.x
	dy := to.y - from.y
	dist := math.Hypot(dx, dy)
	if dist < minDistance {
		dist = minDistance
	}
	ux := dx / dist
	uy := dy / dist

	x1 := from.x + ux*src.pad(ux, uy)
	y1 := from.y + uy*src.pad(ux, uy)
	x2 := to.x - ux*(trg.pad(ux, uy)+arrowOffset)
	y2 := to.y - uy*(trg.pad(ux, uy)+arrowOffset)

	if y1 == y2 {
		buf.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="arc" marker-end="url(#arrow)"/>`,
			x1, y1, x2, y2))
	} else {
		midX := (x1 + x2) / 2
		buf.WriteString(fmt.Sprintf(`<path d="M %.1f %.1f C %.1f %.1f %.1f %.1f %.1f %.1f" class="arc" marker-end="url(#arrow)"/>`,
			x1, y1, midX, y1, midX, y2, x2, y2))
	}
	buf.WriteString("\n")
	return (x1 + x2) / 2, (y1 + y2) / 2
}

// drawSelfLoop draws a curl above a node and reports the badge point at its
// apex.
func drawSelfLoop(buf *bytes.Buffer, at nodePosition) (float64, float64) {
	top := at.y - activityHeight/2
	x1 := at.x - 12
	x2 := at.x + 12
	c1x, c1y := x1-22, top-44
	c2x, c2y := x2+22, top-44
	y2 := top - arrowOffset

	buf.WriteString(fmt.Sprintf(`<path d="M %.1f %.1f C %.1f %.1f %.1f %.1f %.1f %.1f" class="arc" marker-end="url(#arrow)"/>`,
		x1, top, c1x, c1y, c2x, c2y, x2, y2))
	buf.WriteString("\n")

	bx := (x1 + 3*c1x + 3*c2x + x2) / 8
	by := (top + 3*c1y + 3*c2y + y2) / 8
	return bx, by
}

func drawPlace(buf *bytes.Buffer, pos nodePosition, p petri.Place) {
	buf.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="place"/>`, pos.x, pos.y, placeRadius))
	buf.WriteString("\n")
	if p.Final {
		buf.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="place-ring"/>`, pos.x, pos.y, placeRadius-3.5))
		buf.WriteString("\n")
	}
	if p.Initial {
		buf.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" class="token-dot"/>`, pos.x, pos.y))
		buf.WriteString("\n")
	}
	if label := labelOr(p.Name, p.ID); label != "" {
		buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="label-text">%s</text>`,
			pos.x, pos.y+placeRadius+6, escapeXML(label)))
		buf.WriteString("\n")
	}
}

func drawTransition(buf *bytes.Buffer, pos nodePosition, t petri.Transition) {
	class := "transition"
	if t.Silent {
		class += " transition-silent"
	}
	half := transitionSide / 2
	buf.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" class="%s"/>`,
		pos.x-half, pos.y-half, transitionSide, transitionSide, class))
	buf.WriteString("\n")
	if t.Silent {
		return
	}
	if label := labelOr(t.Name, t.ID); label != "" {
		buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="label-text">%s</text>`,
			pos.x, pos.y+half+6, escapeXML(label)))
		buf.WriteString("\n")
	}
}

func drawActivity(buf *bytes.Buffer, pos nodePosition, a dfg.Activity) {
	buf.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" class="activity"/>`,
		pos.x-activityWidth/2, pos.y-activityHeight/2, activityWidth, activityHeight))
	buf.WriteString("\n")

	label := labelOr(a.Name, a.ID)
	if len(label) > 16 {
		label = label[:13] + "..."
	}
	buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="activity-label">%s</text>`,
		pos.x, pos.y, escapeXML(label)))
	buf.WriteString("\n")
}

func drawWeight(buf *bytes.Buffer, x, y, weight float64) {
	buf.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="10" class="weight-bg"/>`, x, y))
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="weight-badge">%g</text>`, x, y, weight))
	buf.WriteString("\n")
}

func labelOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// escapeXML escapes special XML characters in label text.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
