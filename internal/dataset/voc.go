package dataset

import (
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
)

// VOCAnnotation is one Pascal VOC label file.
type VOCAnnotation struct {
	XMLName   xml.Name    `xml:"annotation"`
	Filename  string      `xml:"filename"`
	ObjectNum int         `xml:"object_num"`
	Size      VOCSize     `xml:"size"`
	Objects   []VOCObject `xml:"object"`
}

type VOCSize struct {
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
	Depth  int     `xml:"depth,omitempty"`
}

type VOCObject struct {
	Name   string `xml:"name"`
	BndBox VOCBox `xml:"bndbox"`
}

// VOCBox is a top-left origin box in absolute pixels.
type VOCBox struct {
	XMin float64 `xml:"xmin"`
	YMin float64 `xml:"ymin"`
	XMax float64 `xml:"xmax"`
	YMax float64 `xml:"ymax"`
}

// UnmarshalXML requires a bndbox with all four coordinates and a positive extent.
func (o *VOCObject) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Name   string `xml:"name"`
		BndBox *struct {
			XMin *float64 `xml:"xmin"`
			YMin *float64 `xml:"ymin"`
			XMax *float64 `xml:"xmax"`
			YMax *float64 `xml:"ymax"`
		} `xml:"bndbox"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	b := raw.BndBox
	if b == nil {
		return fmt.Errorf("object %q has no bndbox", raw.Name)
	}
	if b.XMin == nil || b.YMin == nil || b.XMax == nil || b.YMax == nil {
		return fmt.Errorf("object %q bndbox needs xmin, ymin, xmax and ymax", raw.Name)
	}
	if !(*b.XMin < *b.XMax) || !(*b.YMin < *b.YMax) {
		return fmt.Errorf("object %q bndbox is empty or inverted", raw.Name)
	}
	*o = VOCObject{Name: raw.Name, BndBox: VOCBox{XMin: *b.XMin, YMin: *b.YMin, XMax: *b.XMax, YMax: *b.YMax}}
	return nil
}

// ReadVOC parses a VOC label file. Every object needs a name and a complete bndbox.
func ReadVOC(path string) (*VOCAnnotation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeIO, "read "+path)
	}
	var a VOCAnnotation
	if err := xml.Unmarshal(raw, &a); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalid, "parse "+path)
	}
	for i := range a.Objects {
		a.Objects[i].Name = strings.TrimSpace(a.Objects[i].Name)
		if a.Objects[i].Name == "" {
			return nil, apperr.Newf(apperr.CodeInvalid, "%s: object %d has no name", path, i+1)
		}
	}
	return &a, nil
}

// WriteVOC writes a as an indented XML document.
func WriteVOC(path string, a *VOCAnnotation) error {
	a.ObjectNum = len(a.Objects)
	raw, err := xml.MarshalIndent(a, "", "  ")
	if err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "encode voc")
	}
	out := append([]byte(xml.Header), raw...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "write "+path)
	}
	return nil
}

// stem is the base name up to its first dot, the key pairing a VOC image
// with its label file.
func stem(p string) string {
	base := path.Base(p)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}
