package world

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/vmath"
	"go.uber.org/zap"
)

// ErrMalformedMap wraps every map file decoding failure.
var ErrMalformedMap = errors.New("malformed map")

const mapVersion = "v10"

const (
	headerBegin      = "begin map header"
	headerEnd        = "end map header"
	objectsBegin     = "begin map objects"
	objectsEnd       = "end map objects"
	transitionsBegin = "begin map transitions"
	transitionsEnd   = "end map transitions"
)

// persistedLayers are written in this order.
var persistedLayers = [...]int{LayerGround, LayerObject, LayerCloud}

// MapStore reads and writes encoded map files by name.
type MapStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Placement is one persisted entity.
type Placement struct {
	Layer    int
	SpriteID int
	Frames   int
	Position vmath.Vec2
	Height   float64
	Scale    float64
	Color    [4]float32
	Blend    entity.Blend
}

// Document is the decoded content of a map file.
type Document struct {
	Header
	Placements  []Placement
	Transitions []Transition
}

// Document captures the persisted part of the map: ground, object and cloud
// layers without the player, plus the transitions.
func (m *Map) Document() *Document {
	doc := &Document{Header: m.Header}
	for _, layer := range persistedLayers {
		m.layers[layer].Each(func(id ecs.EntityID, o *entity.Object) {
			if id == m.playerID {
				return
			}
			doc.Placements = append(doc.Placements, Placement{
				Layer:    layer,
				SpriteID: o.Visual.BaseSpriteID,
				Frames:   o.Visual.Frames,
				Position: o.Position,
				Height:   o.Visual.Height,
				Scale:    o.Scale,
				Color:    o.Visual.Color,
				Blend:    o.Visual.Blend,
			})
		})
	}
	doc.Transitions = append(doc.Transitions, m.transitions...)
	return doc
}

// Apply replaces the map content with doc. The player is kept.
func (m *Map) Apply(doc *Document) {
	m.Reset(doc.Header)
	for _, p := range doc.Placements {
		o := m.factory.Create(p.SpriteID, p.Layer, p.Position, p.Height, p.Scale)
		o.Visual.Frames = p.Frames
		o.Visual.Color = p.Color
		o.Visual.Blend = p.Blend
		m.layers[p.Layer].Set(o.ID, o)
	}
	m.transitions = append(m.transitions, doc.Transitions...)
}

// Load reads, decodes and applies the named map. On any error the current
// map is left as it was.
func (m *Map) Load(ctx context.Context, store MapStore, name string) error {
	data, err := store.Read(ctx, name)
	if err != nil {
		return fmt.Errorf("read map %s: %w", name, err)
	}
	doc, err := DecodeMap(data)
	if err != nil {
		return fmt.Errorf("decode map %s: %w", name, err)
	}
	m.Apply(doc)
	m.log.Info("map loaded",
		zap.String("file", name),
		zap.String("name", doc.Name),
		zap.Int("objects", len(doc.Placements)),
		zap.Int("transitions", len(doc.Transitions)))
	return nil
}

// Save encodes the map and writes it under name.
func (m *Map) Save(ctx context.Context, store MapStore, name string) error {
	doc := m.Document()
	if err := store.Write(ctx, name, EncodeMap(doc)); err != nil {
		return fmt.Errorf("write map %s: %w", name, err)
	}
	m.log.Info("map saved", zap.String("file", name), zap.Int("objects", len(doc.Placements)))
	return nil
}

// EncodeMap renders doc in the line-oriented map file format. Floats are
// written with the shortest representation that parses back exactly.
func EncodeMap(doc *Document) []byte {
	var b bytes.Buffer
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(mapVersion)
	line(headerBegin)
	line(doc.Name)
	line(doc.GroundImage)
	line(doc.BackdropImage)
	line(headerEnd)

	line(objectsBegin)
	for _, p := range doc.Placements {
		line(strings.Join([]string{
			strconv.Itoa(p.Layer),
			strconv.Itoa(p.SpriteID),
			strconv.Itoa(p.Frames),
			formatFloat(p.Position.X),
			formatFloat(p.Position.Y),
			formatFloat(p.Height),
			formatFloat(p.Scale),
			formatColor(p.Color),
			p.Blend.Key(),
		}, ","))
	}
	line(objectsEnd)

	line(transitionsBegin)
	for _, t := range doc.Transitions {
		line(strings.Join([]string{
			formatFloat(t.Origin.X),
			formatFloat(t.Origin.Y),
			formatFloat(t.Radius),
			strconv.Itoa(t.Destination),
		}, ","))
	}
	line(transitionsEnd)
	return b.Bytes()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func formatColor(c [4]float32) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}

// lineReader walks a map file keeping the line number for error messages.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (r *lineReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedMap, r.line, fmt.Sprintf(format, args...))
}

func (r *lineReader) next() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedMap, err)
		}
		return "", fmt.Errorf("%w: unexpected end of file after line %d", ErrMalformedMap, r.line)
	}
	r.line++
	return strings.TrimRight(r.sc.Text(), "\r"), nil
}

func (r *lineReader) expect(want string) error {
	got, err := r.next()
	if err != nil {
		return err
	}
	if got != want {
		return r.errorf("expected %q, got %q", want, got)
	}
	return nil
}

// DecodeMap parses a map file. Any deviation from the format fails the whole
// decode; no partial document is returned.
func DecodeMap(data []byte) (*Document, error) {
	r := &lineReader{sc: bufio.NewScanner(bytes.NewReader(data))}
	doc := &Document{}

	if err := r.expect(mapVersion); err != nil {
		return nil, err
	}
	if err := r.expect(headerBegin); err != nil {
		return nil, err
	}
	for _, dst := range []*string{&doc.Name, &doc.GroundImage, &doc.BackdropImage} {
		s, err := r.next()
		if err != nil {
			return nil, err
		}
		*dst = s
	}
	if err := r.expect(headerEnd); err != nil {
		return nil, err
	}

	if err := r.expect(objectsBegin); err != nil {
		return nil, err
	}
	for {
		s, err := r.next()
		if err != nil {
			return nil, err
		}
		if s == objectsEnd {
			break
		}
		p, err := parsePlacement(s)
		if err != nil {
			return nil, r.errorf("%v", err)
		}
		doc.Placements = append(doc.Placements, p)
	}

	if err := r.expect(transitionsBegin); err != nil {
		return nil, err
	}
	for {
		s, err := r.next()
		if err != nil {
			return nil, err
		}
		if s == transitionsEnd {
			break
		}
		t, err := parseTransition(s)
		if err != nil {
			return nil, r.errorf("%v", err)
		}
		doc.Transitions = append(doc.Transitions, t)
	}
	return doc, nil
}

func parsePlacement(s string) (Placement, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 9 {
		return Placement{}, fmt.Errorf("object needs 9 fields, got %d", len(parts))
	}
	var p Placement
	var err error
	if p.Layer, err = strconv.Atoi(parts[0]); err != nil {
		return p, fmt.Errorf("layer: %w", err)
	}
	if p.Layer < 0 || p.Layer >= LayerCount {
		return p, fmt.Errorf("layer %d out of range", p.Layer)
	}
	if p.SpriteID, err = strconv.Atoi(parts[1]); err != nil {
		return p, fmt.Errorf("sprite id: %w", err)
	}
	if p.Frames, err = strconv.Atoi(parts[2]); err != nil {
		return p, fmt.Errorf("frames: %w", err)
	}
	floats := []*float64{&p.Position.X, &p.Position.Y, &p.Height, &p.Scale}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(parts[3+i], 64); err != nil {
			return p, fmt.Errorf("field %d: %w", 4+i, err)
		}
	}
	if p.Color, err = parseColor(parts[7]); err != nil {
		return p, err
	}
	if p.Blend, err = entity.ParseBlendKey(parts[8]); err != nil {
		return p, err
	}
	return p, nil
}

func parseColor(s string) ([4]float32, error) {
	var c [4]float32
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return c, fmt.Errorf("color needs 4 components, got %d", len(parts))
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return c, fmt.Errorf("color component %d: %w", i, err)
		}
		c[i] = float32(v)
	}
	return c, nil
}

func parseTransition(s string) (Transition, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Transition{}, fmt.Errorf("transition needs 4 fields, got %d", len(parts))
	}
	var t Transition
	var err error
	floats := []*float64{&t.Origin.X, &t.Origin.Y, &t.Radius}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(parts[i], 64); err != nil {
			return t, fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	if t.Destination, err = strconv.Atoi(parts[3]); err != nil {
		return t, fmt.Errorf("destination: %w", err)
	}
	return t, nil
}
