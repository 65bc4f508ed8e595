package dataset

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/geometry"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"go.uber.org/zap"
)

type cocoImageRef struct {
	width  float64
	height float64
	split  models.Split
}

// exportCOCO writes one COCO file per split sharing a single category list.
// Media is copied under <dir>/image keeping the stored relative path, which is
// also the image file_name.
func (e *Engine) exportCOCO(ctx context.Context, p models.Project, dir string, rep *RunReport) error {
	labels, err := e.store.ListLabels(ctx, p.ProjectID)
	if err != nil {
		return err
	}
	tasks, err := e.store.ListTasks(ctx, p.ProjectID)
	if err != nil {
		return err
	}
	anns, err := e.store.ListAnnotations(ctx, p.ProjectID)
	if err != nil {
		return err
	}

	all := newCOCOFile()
	localIDs := make(map[uint]int, len(labels))
	for _, l := range labels {
		all.Categories = append(all.Categories, COCOCategory{ID: int64(l.LocalID), Name: l.Name, Color: l.Color})
		localIDs[l.LabelID] = l.LocalID
	}

	imgDir := filepath.Join(dir, e.opts.COCOImageDir)
	images := make(map[uint]cocoImageRef, len(tasks))
	for _, t := range tasks {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		if len(t.Datas) == 0 {
			return apperr.Newf(apperr.CodeInvalid, "task %d has no data", t.TaskID)
		}
		if !t.Set.Valid() {
			return apperr.Newf(apperr.CodeInvalid, "task %d has invalid split %d", t.TaskID, int(t.Set))
		}
		d := t.Datas[0]
		src := dataPath(p.DataDir, d.Path)
		size, err := sizeOf(d, src)
		if err != nil {
			return err
		}
		if err := copyFile(src, filepath.Join(imgDir, filepath.FromSlash(d.Path))); err != nil {
			return err
		}
		all.Images = append(all.Images, COCOImage{
			ID:       int64(d.DataID),
			FileName: d.Path,
			Width:    float64(size.Width),
			Height:   float64(size.Height),
		})
		images[d.DataID] = cocoImageRef{width: float64(size.Width), height: float64(size.Height), split: t.Set}
		rep.Tasks++
		rep.Images++
	}

	for _, a := range anns {
		img, ok := images[a.DataID]
		if !ok {
			return apperr.Newf(apperr.CodeInvalid, "annotation %d is not on the first data item of its task", a.AnnotationID)
		}
		rect, err := rectangleOf(a)
		if err != nil {
			return err
		}
		tl, err := geometry.ToTopLeft(rect.Box, img.width, img.height)
		if err != nil {
			return err
		}
		bbox := tl.XYWH()
		all.Annotations = append(all.Annotations, COCOAnnotation{
			ID:           int64(a.AnnotationID),
			ImageID:      int64(a.DataID),
			CategoryID:   int64(localIDs[a.LabelID]),
			BBox:         bbox[:],
			Area:         rect.Area(),
			Segmentation: []any{},
		})
		rep.Annotations++
	}

	for _, split := range models.Splits {
		name := e.opts.COCOSplitFiles[split]
		part := newCOCOFile()
		part.Categories = all.Categories
		for _, img := range all.Images {
			if images[uint(img.ID)].split == split {
				part.Images = append(part.Images, img)
			}
		}
		for _, a := range all.Annotations {
			if images[uint(a.ImageID)].split == split {
				part.Annotations = append(part.Annotations, a)
			}
		}
		if err := WriteCOCO(filepath.Join(dir, name), part); err != nil {
			return err
		}
		e.log.Debug("split written", zap.String("file", name), zap.Int("images", len(part.Images)))
	}
	return nil
}

// exportVOC writes JPEGImages, one Annotations/<stem>.xml per task and a
// manifest line per task in the manifest of its split. Non-JPEG media is
// re-encoded so JPEGImages only holds JPEGs.
func (e *Engine) exportVOC(ctx context.Context, p models.Project, dir string, rep *RunReport) (err error) {
	tasks, err := e.store.ListTasks(ctx, p.ProjectID)
	if err != nil {
		return err
	}
	imgDir := filepath.Join(dir, e.opts.VOCImageDir)
	labelDir := filepath.Join(dir, e.opts.VOCLabelDir)
	for _, d := range []string{imgDir, labelDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return apperr.Wrap(err, apperr.CodeIO, "create "+d)
		}
	}

	manifests, err := openManifests(dir, e.opts.VOCManifests)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := manifests.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	written := make(map[string]uint, len(tasks))
	for _, t := range tasks {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		if len(t.Datas) == 0 {
			return apperr.Newf(apperr.CodeInvalid, "task %d has no data", t.TaskID)
		}
		d := t.Datas[0]
		src := dataPath(p.DataDir, d.Path)
		base := path.Base(d.Path)
		key := stem(base)
		if prev, dup := written[key]; dup {
			return apperr.Newf(apperr.CodeConflict, "tasks %d and %d both export as %s", prev, t.TaskID, key).
				WithMeta("name", key)
		}
		written[key] = t.TaskID

		outName := base
		if isJPEG(base) {
			err = copyFile(src, filepath.Join(imgDir, outName))
		} else {
			outName = key + ".jpg"
			err = encodeJPEG(src, filepath.Join(imgDir, outName))
		}
		if err != nil {
			return err
		}

		size, err := sizeOf(d, src)
		if err != nil {
			return err
		}
		doc := &VOCAnnotation{
			Filename: outName,
			Size:     VOCSize{Width: float64(size.Width), Height: float64(size.Height), Depth: size.Depth},
		}
		for _, a := range t.Annotations {
			rect, err := rectangleOf(a)
			if err != nil {
				return err
			}
			tl, err := geometry.ToTopLeft(rect.Box, float64(size.Width), float64(size.Height))
			if err != nil {
				return err
			}
			doc.Objects = append(doc.Objects, VOCObject{
				Name:   a.Label.Name,
				BndBox: VOCBox{XMin: tl.XMin, YMin: tl.YMin, XMax: tl.XMax, YMax: tl.YMax},
			})
		}
		labelName := key + ".xml"
		if err := WriteVOC(filepath.Join(labelDir, labelName), doc); err != nil {
			return err
		}

		line := path.Join(e.opts.VOCImageDir, outName) + " " + path.Join(e.opts.VOCLabelDir, labelName)
		if err := manifests.add(t.Set, line); err != nil {
			return err
		}
		rep.Tasks++
		rep.Images++
		rep.Annotations += len(doc.Objects)
	}
	return nil
}

// sizeOf returns the stored size of d, probing src when the stored value is unusable.
func sizeOf(d models.Data, src string) (models.Size, error) {
	if s, err := models.ParseSize(d.Size); err == nil && s.Width > 0 && s.Height > 0 {
		return s, nil
	}
	return ProbeImage(src)
}

func rectangleOf(a models.Annotation) (geometry.Rectangle, error) {
	payload, err := geometry.ParsePayload(a.Type, a.Result)
	if err != nil {
		return geometry.Rectangle{}, apperr.Wrap(err, apperr.CodeOf(err), "annotation result")
	}
	rect, ok := payload.(geometry.Rectangle)
	if !ok {
		return geometry.Rectangle{}, apperr.Newf(apperr.CodeUnsupported, "annotation %d of type %s cannot be exported as a box", a.AnnotationID, payload.Kind())
	}
	return rect, nil
}

// manifestSet holds the per-split VOC manifest files.
type manifestSet struct {
	files   [3]*os.File
	writers [3]*bufio.Writer
}

func openManifests(dir string, names [3]string) (*manifestSet, error) {
	m := &manifestSet{}
	for i, name := range names {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			_ = m.Close()
			return nil, apperr.Wrap(err, apperr.CodeIO, "create "+name)
		}
		m.files[i] = f
		m.writers[i] = bufio.NewWriter(f)
	}
	return m, nil
}

func (m *manifestSet) add(s models.Split, line string) error {
	if !s.Valid() {
		return apperr.Newf(apperr.CodeInvalid, "invalid split %d", int(s))
	}
	if _, err := m.writers[s].WriteString(line + "\n"); err != nil {
		return apperr.Wrap(err, apperr.CodeIO, "write manifest")
	}
	return nil
}

// Close flushes and closes every open manifest. It is safe to call twice.
func (m *manifestSet) Close() error {
	var errs []error
	for i, f := range m.files {
		if f == nil {
			continue
		}
		if err := m.writers[i].Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		m.files[i] = nil
	}
	if len(errs) > 0 {
		return apperr.Wrap(errors.Join(errs...), apperr.CodeIO, "close manifests")
	}
	return nil
}
