package export

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/palette"
)

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, palette.Background.Hex()))
}

func boundary(sb *strings.Builder, b geom.Circle) {
	fg := palette.Foreground.Hex()
	sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="1"/>
<circle cx="%.2f" cy="%.2f" r="1" fill="%s"/>
`, b.Center.X, b.Center.Y, b.Radius, fg, b.Center.X, b.Center.Y, fg))
}

func polyline(sb *strings.Builder, pts []r2.Point, stroke string) {
	if len(pts) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, stroke))
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.2f,%.2f", p.X, p.Y))
	}
	sb.WriteString("\"/>\n")
}

// SceneToSVG draws a scene in world coordinates: balls shaded by their
// position in the boundary, the boundary outline and any drag in progress.
func SceneToSVG(scene control.Scene, width, height float64) string {
	var sb strings.Builder
	header(&sb, width, height)

	for _, b := range scene.Balls {
		c := palette.Radial(b.Center, scene.Boundary)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, b.Center.X, b.Center.Y, b.Radius, c.Clamped().Hex()))
	}

	if d := scene.Drag; d != nil {
		fg := palette.Foreground.Hex()
		sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, d.Start.X, d.Start.Y, d.End.X, d.End.Y, fg, d.Start.X, d.Start.Y, d.Radius, fg))
		polyline(&sb, scene.Preview, fg)
	}

	boundary(&sb, scene.Boundary)
	sb.WriteString("</svg>\n")
	return sb.String()
}

// TrajectoryToSVG draws a launch preview inside its boundary.
func TrajectoryToSVG(points []r2.Point, bound geom.Circle, width, height float64, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	header(&sb, width, height)
	boundary(&sb, bound)
	polyline(&sb, points, strokeColor)

	start := points[0]
	sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="3" fill="%s"/>
`, start.X, start.Y, strokeColor))
	sb.WriteString("</svg>\n")
	return sb.String()
}
