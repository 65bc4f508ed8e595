package geometry

import (
	"strconv"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
)

// KindRectangle is the annotation type of detection boxes.
const KindRectangle = "rectangle"

// Payload is the decoded form of Annotation.Result. Rectangle is the only
// variant detection uses; every variant has exactly one text encoding.
type Payload interface {
	Kind() string
	Encode() string
}

// Rectangle is a center-origin box.
type Rectangle struct {
	Box
}

func (Rectangle) Kind() string { return KindRectangle }

// Encode renders "xmin,ymin,xmax,ymax".
func (r Rectangle) Encode() string {
	return strings.Join([]string{
		FormatCoord(r.XMin),
		FormatCoord(r.YMin),
		FormatCoord(r.XMax),
		FormatCoord(r.YMax),
	}, ",")
}

// ParsePayload decodes a stored result of the given annotation type.
func ParsePayload(kind, result string) (Payload, error) {
	switch kind {
	case KindRectangle, "":
		return parseRectangle(result)
	default:
		return nil, apperr.Newf(apperr.CodeUnsupported, "annotation type %q is not supported", kind)
	}
}

func parseRectangle(result string) (Payload, error) {
	parts := strings.Split(result, ",")
	if len(parts) != 4 {
		return nil, apperr.Newf(apperr.CodeInvalid, "rectangle result %q: want 4 comma-separated numbers", result)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeInvalid, "rectangle result "+strconv.Quote(result))
		}
		v[i] = f
	}
	return Rectangle{Box{XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}}, nil
}

// FormatCoord prints a float the way the labeling UI expects: shortest
// round-trip digits, always with a decimal point ("-40.0", "12.5").
func FormatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
