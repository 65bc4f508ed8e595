package dataset

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/geometry"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/store"

	"go.uber.org/zap"
)

// cocoTask is one COCO image waiting to become a task.
type cocoTask struct {
	path   string
	width  float64
	height float64
	size   models.Size
	anns   []store.NewAnnotation
}

// importCOCO reads train/val/test label files from the data directory. Each
// image entry claims one media file by suffix; media left unclaimed afterwards
// becomes label-less train tasks.
func (e *Engine) importCOCO(ctx context.Context, tx *store.Store, p models.Project, rep *RunReport) error {
	pool, err := CollectCandidates(ListDir(p.DataDir, e.opts.COCOFilters))
	if err != nil {
		return err
	}
	e.log.Debug("media discovered", zap.Int("candidates", pool.Len()))

	for _, split := range models.Splits {
		name := e.opts.COCOSplitFiles[split]
		labelPath := filepath.Join(p.DataDir, name)
		if _, err := os.Stat(labelPath); errors.Is(err, fs.ErrNotExist) {
			e.log.Debug("split file absent", zap.String("file", name))
			continue
		} else if err != nil {
			return apperr.Wrap(err, apperr.CodeIO, "stat "+labelPath)
		}
		f, err := ReadCOCO(labelPath)
		if err != nil {
			return err
		}
		if err := e.importCOCOSplit(ctx, tx, p, pool, f, split, rep); err != nil {
			return apperr.Wrap(err, apperr.CodeOf(err), name)
		}
	}

	for _, rel := range pool.Remaining() {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		size, err := ProbeImage(dataPath(p.DataDir, rel))
		if err != nil {
			return err
		}
		if _, err := tx.CreateTask(ctx, p.ProjectID, []store.NewData{{Path: rel, Size: size.String()}}, nil, models.SplitTrain); err != nil {
			return err
		}
		rep.Tasks++
		rep.Unlabeled++
	}
	return nil
}

func (e *Engine) importCOCOSplit(ctx context.Context, tx *store.Store, p models.Project, pool *CandidatePool, f *COCOFile, split models.Split, rep *RunReport) error {
	labels := make(map[int64]models.Label, len(f.Categories))
	for _, c := range f.Categories {
		hint := store.LabelInput{}
		if c.ID > 0 {
			id := int(c.ID)
			hint.ID = &id
		}
		if c.Color != "" {
			color := c.Color
			hint.Color = &color
		}
		l, created, err := tx.EnsureLabel(ctx, p.ProjectID, c.Name, hint)
		if err != nil {
			return err
		}
		if created {
			rep.LabelsCreated++
		}
		labels[c.ID] = l
	}

	tasks := make(map[int64]*cocoTask, len(f.Images))
	order := make([]int64, 0, len(f.Images))
	for _, img := range f.Images {
		rel, err := pool.MatchBySuffix(img.FileName)
		if err != nil {
			return err
		}
		if img.Width != math.Trunc(img.Width) || img.Height != math.Trunc(img.Height) {
			return apperr.Newf(apperr.CodeInvalid, "image %d has a fractional size %vx%v", img.ID, img.Width, img.Height)
		}
		t := &cocoTask{
			path:   rel,
			width:  img.Width,
			height: img.Height,
			size:   models.Size{Items: 1, Width: int(img.Width), Height: int(img.Height)},
		}
		if !(img.Width > 0) || !(img.Height > 0) {
			probed, err := ProbeImage(dataPath(p.DataDir, rel))
			if err != nil {
				return err
			}
			t.size = probed
			t.width, t.height = float64(probed.Width), float64(probed.Height)
		}
		tasks[img.ID] = t
		order = append(order, img.ID)
	}

	for _, a := range f.Annotations {
		t, ok := tasks[a.ImageID]
		if !ok {
			return apperr.Newf(apperr.CodeInvalid, "annotation %d references unknown image %d", a.ID, a.ImageID)
		}
		l, ok := labels[a.CategoryID]
		if !ok {
			return apperr.Newf(apperr.CodeInvalid, "annotation %d references unknown category %d", a.ID, a.CategoryID)
		}
		box, err := geometry.ToCenter(geometry.FromXYWH(a.BBox[0], a.BBox[1], a.BBox[2], a.BBox[3]), t.width, t.height)
		if err != nil {
			return apperr.Wrap(err, apperr.CodeGeometry, t.path)
		}
		t.anns = append(t.anns, store.NewAnnotation{
			LabelID:    l.LabelID,
			Result:     geometry.Rectangle{Box: box}.Encode(),
			Type:       geometry.KindRectangle,
			FrontendID: len(t.anns) + 1,
		})
	}

	for _, id := range order {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		t := tasks[id]
		data := []store.NewData{{Path: t.path, Size: t.size.String()}}
		if _, err := tx.CreateTask(ctx, p.ProjectID, data, [][]store.NewAnnotation{t.anns}, split); err != nil {
			return err
		}
		e.log.Debug("task created", zap.String("path", t.path), zap.Stringer("split", split), zap.Int("annotations", len(t.anns)))
		rep.Tasks++
		rep.Annotations += len(t.anns)
		if len(t.anns) == 0 {
			rep.Unlabeled++
		}
	}
	return nil
}

// importVOC pairs every image under JPEGImages with the label file of the same
// stem under Annotations. Boxes are moved onto the center origin using the
// probed image size. Every task lands in the train split.
func (e *Engine) importVOC(ctx context.Context, tx *store.Store, p models.Project, rep *RunReport) error {
	imgDir := filepath.Join(p.DataDir, e.opts.VOCImageDir)
	labelDir := filepath.Join(p.DataDir, e.opts.VOCLabelDir)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return apperr.Wrap(err, apperr.CodeConfiguration, "create "+imgDir)
	}

	objects, labelFiles, err := e.readVOCLabels(labelDir)
	if err != nil {
		return err
	}

	pairedWith := make(map[string]string, len(labelFiles))
	for rel, err := range ListDir(imgDir, e.opts.VOCFilters) {
		if err != nil {
			return err
		}
		if err := checkpoint(ctx); err != nil {
			return err
		}
		key := stem(rel)
		if _, ok := labelFiles[key]; ok {
			if prev, dup := pairedWith[key]; dup {
				return apperr.Newf(apperr.CodeImportMatch, "images %s and %s both pair with label file %s", prev, rel, labelFiles[key])
			}
			pairedWith[key] = rel
		}

		size, err := ProbeImage(filepath.Join(imgDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		objs := objects[key]
		anns := make([]store.NewAnnotation, 0, len(objs))
		for i, o := range objs {
			l, created, err := tx.EnsureLabel(ctx, p.ProjectID, o.Name, store.LabelInput{})
			if err != nil {
				return err
			}
			if created {
				rep.LabelsCreated++
			}
			b := geometry.Box{XMin: o.BndBox.XMin, YMin: o.BndBox.YMin, XMax: o.BndBox.XMax, YMax: o.BndBox.YMax}
			box, err := geometry.ToCenter(b, float64(size.Width), float64(size.Height))
			if err != nil {
				return apperr.Wrap(err, apperr.CodeGeometry, rel)
			}
			anns = append(anns, store.NewAnnotation{
				LabelID:    l.LabelID,
				Result:     geometry.Rectangle{Box: box}.Encode(),
				Type:       geometry.KindRectangle,
				FrontendID: i + 1,
			})
		}

		data := []store.NewData{{Path: path.Join(e.opts.VOCImageDir, rel), Size: size.String()}}
		if _, err := tx.CreateTask(ctx, p.ProjectID, data, [][]store.NewAnnotation{anns}, models.SplitTrain); err != nil {
			return err
		}
		rep.Tasks++
		rep.Annotations += len(anns)
		if len(anns) == 0 {
			rep.Unlabeled++
		}
	}

	if orphans := len(labelFiles) - len(pairedWith); orphans > 0 {
		e.log.Warn("label files without a matching image", zap.Int("count", orphans))
	}
	return nil
}

// readVOCLabels parses every label file under dir, keyed by stem. A missing
// directory means no labels.
func (e *Engine) readVOCLabels(dir string) (map[string][]VOCObject, map[string]string, error) {
	objects := map[string][]VOCObject{}
	files := map[string]string{}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		e.log.Warn("label directory missing, importing images without labels", zap.String("dir", dir))
		return objects, files, nil
	}
	if err != nil {
		return nil, nil, apperr.Wrap(err, apperr.CodeIO, "stat "+dir)
	}
	if !info.IsDir() {
		return nil, nil, apperr.Newf(apperr.CodeConfiguration, "%s is not a directory", dir)
	}

	filters := Filters{ExcludePrefix: []string{"."}, IncludePostfix: []string{".xml", ".XML"}}
	for rel, err := range ListDir(dir, filters) {
		if err != nil {
			return nil, nil, err
		}
		key := stem(rel)
		if prev, dup := files[key]; dup {
			return nil, nil, apperr.Newf(apperr.CodeImportMatch, "label files %s and %s share the name %s", prev, rel, key)
		}
		a, err := ReadVOC(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, nil, err
		}
		objects[key] = a.Objects
		files[key] = rel
	}
	return objects, files, nil
}
