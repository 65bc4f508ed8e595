package dataset

import (
	"encoding/json"
	"os"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
)

// COCOFile is the subset of a COCO detection file this package reads and writes.
type COCOFile struct {
	Info        map[string]any   `json:"info,omitempty"`
	Images      []COCOImage      `json:"images"`
	Annotations []COCOAnnotation `json:"annotations"`
	Categories  []COCOCategory   `json:"categories"`
}

type COCOImage struct {
	ID       int64   `json:"id"`
	FileName string  `json:"file_name"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

type COCOAnnotation struct {
	ID           int64     `json:"id"`
	ImageID      int64     `json:"image_id"`
	CategoryID   int64     `json:"category_id"`
	BBox         []float64 `json:"bbox"`
	Area         float64   `json:"area"`
	Segmentation []any     `json:"segmentation"`
	IsCrowd      int       `json:"iscrowd"`
}

type COCOCategory struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color,omitempty"`
	Supercategory string `json:"supercategory,omitempty"`
}

func newCOCOFile() *COCOFile {
	return &COCOFile{
		Images:      []COCOImage{},
		Annotations: []COCOAnnotation{},
		Categories:  []COCOCategory{},
	}
}

// ReadCOCO parses and checks a COCO file: image ids must be unique and every
// bbox must have four values.
func ReadCOCO(path string) (*COCOFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeIO, "read "+path)
	}
	var f COCOFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalid, "parse "+path)
	}

	seen := make(map[int64]struct{}, len(f.Images))
	for _, img := range f.Images {
		if _, dup := seen[img.ID]; dup {
			return nil, apperr.Newf(apperr.CodeInvalid, "%s: duplicate image id %d", path, img.ID)
		}
		seen[img.ID] = struct{}{}
	}
	for _, a := range f.Annotations {
		if len(a.BBox) != 4 {
			return nil, apperr.Newf(apperr.CodeInvalid, "%s: annotation %d has %d bbox values, want 4", path, a.ID, len(a.BBox))
		}
	}
	return &f, nil
}

// WriteCOCO writes f as a single line of JSON.
func WriteCOCO(path string, f *COCOFile) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "encode coco")
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "write "+path)
	}
	return nil
}
