package world

import (
	"encoding/json"
	"fmt"
	"io"

	"map-editor/pkg/colorutil"
	"map-editor/pkg/geometry"
)

// entityRecord is the JSON shape of a persisted entity. Field names match
// the historical map data files (points as [x,z] pairs, CSS hex colors).
type entityRecord struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    int          `json:"category"`
	Points      [][2]float64 `json:"points"`
	LineColor   string       `json:"lineColor"`
	FillColor   string       `json:"fillColor"`
	ClosePath   *bool        `json:"closePath,omitempty"`
	From        string       `json:"from,omitempty"`
	To          string       `json:"to,omitempty"`
}

// DecodeEntities reads a JSON entity array, recovering from malformed
// records: a missing points array yields an empty entity that the
// renderer skips, an out-of-range category falls back to a road, and bad
// colors fall back to the category defaults. Only a syntactically broken
// stream is an error.
func DecodeEntities(r io.Reader) ([]*Entity, error) {
	var records []entityRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding entities: %w", err)
	}

	entities := make([]*Entity, 0, len(records))
	for _, rec := range records {
		entities = append(entities, recordToEntity(rec))
	}
	return entities, nil
}

// EncodeEntities writes the entities as an indented JSON array.
func EncodeEntities(w io.Writer, entities []*Entity) error {
	records := make([]entityRecord, 0, len(entities))
	for _, e := range entities {
		records = append(records, entityToRecord(e))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding entities: %w", err)
	}
	return nil
}

func recordToEntity(rec entityRecord) *Entity {
	cat := ParseCategory(rec.Category)

	vertices := make([]geometry.Point2D, 0, len(rec.Points))
	for _, p := range rec.Points {
		vertices = append(vertices, geometry.Point2D{X: p[0], Y: p[1]})
	}

	closed := cat.AutoClose()
	if rec.ClosePath != nil {
		closed = *rec.ClosePath && cat.AutoClose()
	}

	return &Entity{
		Label:       rec.Name,
		Description: rec.Description,
		Category:    cat,
		Vertices:    vertices,
		Stroke:      colorutil.ParseHexDefault(rec.LineColor, cat.DefaultStroke()),
		Fill:        colorutil.ParseHexDefault(rec.FillColor, cat.DefaultFill()),
		Closed:      closed,
		FromStation: rec.From,
		ToStation:   rec.To,
	}
}

func entityToRecord(e *Entity) entityRecord {
	points := make([][2]float64, len(e.Vertices))
	for i, v := range e.Vertices {
		points[i] = [2]float64{v.X, v.Y}
	}
	closed := e.Closed
	return entityRecord{
		Name:        e.Label,
		Description: e.Description,
		Category:    int(e.Category),
		Points:      points,
		LineColor:   colorutil.FormatHex(e.Stroke),
		FillColor:   colorutil.FormatHex(e.Fill),
		ClosePath:   &closed,
		From:        e.FromStation,
		To:          e.ToStation,
	}
}
