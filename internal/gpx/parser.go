// Package gpx parses GPX track files into ordered point sequences.
//
// The parser is deliberately lenient about point-level problems: a track
// point missing a coordinate, or carrying one that does not parse as a
// finite in-range number, is skipped and counted rather than failing the
// whole file. Only a structurally broken document (no <gpx> root, unclosed
// elements) is rejected outright.
package gpx

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"waymark/internal/domain/entity"
	"waymark/internal/errors"
)

// ErrInvalidFormat is returned when the input is not a structurally valid GPX document.
var ErrInvalidFormat = errors.New("invalid gpx format")

// ParseResult is the flattened point sequence extracted from a track file,
// concatenated across all tracks and segments in file order.
type ParseResult struct {
	Points  []entity.TrackPoint // Every point with valid coordinates, in file order.
	Skipped int                 // Count of points dropped for missing or invalid coordinates.
}

type gpxDocument struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

// Coordinates are decoded as strings so that a missing attribute stays
// distinguishable from zero and a malformed one skips the point instead of
// aborting the xml decode.
type gpxPoint struct {
	Lat  *string `xml:"lat,attr"`
	Lon  *string `xml:"lon,attr"`
	Ele  *string `xml:"ele"`
	Time *string `xml:"time"`
}

// Validate performs the cheap structural check used before any storage side
// effect: the document must have a <gpx> root element and be well-formed XML
// through to its closing tag.
func Validate(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	sawRoot := false
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && sawRoot {
				return nil
			}

			return errors.Wrap(ErrInvalidFormat, err.Error())
		}

		if start, ok := token.(xml.StartElement); ok && !sawRoot {
			if start.Name.Local != "gpx" {
				return errors.Wrap(ErrInvalidFormat, "root element is not <gpx>")
			}
			sawRoot = true
		}
	}
}

// Parse decodes a GPX document into its flattened point sequence.
// Tracks, segments and points keep their file order. Points missing either
// coordinate are counted in Skipped; elevation and timestamp are attached
// per point only when present and parseable.
func Parse(data []byte) (*ParseResult, error) {
	var doc gpxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}

	result := &ParseResult{}
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, raw := range segment.Points {
				point, ok := convertPoint(raw)
				if !ok {
					result.Skipped++

					continue
				}
				result.Points = append(result.Points, point)
			}
		}
	}

	return result, nil
}

func convertPoint(raw gpxPoint) (entity.TrackPoint, bool) {
	lat, ok := parseCoordinate(raw.Lat, 90)
	if !ok {
		return entity.TrackPoint{}, false
	}
	lon, ok := parseCoordinate(raw.Lon, 180)
	if !ok {
		return entity.TrackPoint{}, false
	}

	point := entity.TrackPoint{Lat: lat, Lon: lon}

	if raw.Ele != nil {
		if ele, err := strconv.ParseFloat(strings.TrimSpace(*raw.Ele), 64); err == nil && !math.IsNaN(ele) && !math.IsInf(ele, 0) {
			point.Elevation = &ele
		}
	}

	if raw.Time != nil {
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw.Time)); err == nil {
			point.Time = &ts
		}
	}

	return point, true
}

func parseCoordinate(attr *string, limit float64) (float64, bool) {
	if attr == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(*attr), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if value < -limit || value > limit {
		return 0, false
	}

	return value, true
}
