// Package dataset converts between stored projects and COCO / Pascal VOC
// datasets on disk.
package dataset

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/logger"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FormatCOCO = "coco"
	FormatVOC  = "voc"

	KindImport = "import"
	KindExport = "export"
)

// Options holds every file-layout knob of the engine. The project row supplies
// the data directory.
type Options struct {
	// COCOSplitFiles are the label files read and written per split, indexed by models.Split.
	COCOSplitFiles [3]string
	// COCOImageDir is the export subdirectory receiving media.
	COCOImageDir string
	// COCOFilters select media candidates under the data directory.
	COCOFilters Filters

	VOCImageDir  string
	VOCLabelDir  string
	VOCManifests [3]string
	VOCFilters   Filters
}

// DefaultOptions returns the layout of the labeling UI.
func DefaultOptions() Options {
	return Options{
		COCOSplitFiles: [3]string{"train.json", "val.json", "test.json"},
		COCOImageDir:   "image",
		COCOFilters:    DefaultFilters(),
		VOCImageDir:    "JPEGImages",
		VOCLabelDir:    "Annotations",
		VOCManifests:   [3]string{"train.txt", "validation.txt", "test.txt"},
		VOCFilters:     DefaultFilters(),
	}
}

// RunReport summarizes one import or export.
type RunReport struct {
	RunID         string        `json:"run_id"`
	Kind          string        `json:"kind"`
	Format        string        `json:"format"`
	ProjectID     uint          `json:"project_id"`
	Tasks         int           `json:"tasks"`
	Images        int           `json:"images,omitempty"`
	Annotations   int           `json:"annotations"`
	Unlabeled     int           `json:"unlabeled,omitempty"`
	LabelsCreated int           `json:"labels_created,omitempty"`
	ExportDir     string        `json:"export_dir,omitempty"`
	Duration      time.Duration `json:"duration"`
}

type importFunc func(e *Engine, ctx context.Context, tx *store.Store, p models.Project, rep *RunReport) error
type exportFunc func(e *Engine, ctx context.Context, p models.Project, dir string, rep *RunReport) error

type format struct {
	importer importFunc
	exporter exportFunc
}

type category struct {
	defaultFormat string
	formats       map[string]format
}

var registry = map[models.TaskCategory]category{
	models.CategoryDetection: {
		defaultFormat: FormatVOC,
		formats: map[string]format{
			FormatCOCO: {importer: (*Engine).importCOCO, exporter: (*Engine).exportCOCO},
			FormatVOC:  {importer: (*Engine).importVOC, exporter: (*Engine).exportVOC},
		},
	},
}

// Formats lists the format names supported for a task category.
func Formats(c models.TaskCategory) []string {
	cat, ok := registry[c]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(cat.formats))
	for n := range cat.formats {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ResolveFormat returns the format used for name, applying the category default when name is empty.
func ResolveFormat(c models.TaskCategory, name string) (string, error) {
	cat, ok := registry[c]
	if !ok {
		return "", apperr.Newf(apperr.CodeUnsupported, "task category %q has no dataset formats", c)
	}
	if name == "" {
		return cat.defaultFormat, nil
	}
	if _, ok := cat.formats[name]; !ok {
		return "", apperr.Newf(apperr.CodeUnsupported, "format %q is not supported for %s projects", name, c).
			WithMeta("supported", Formats(c))
	}
	return name, nil
}

// Engine runs imports and exports against a store.
type Engine struct {
	store *store.Store
	opts  Options
	log   *zap.Logger
}

// NewEngine returns an Engine over s.
func NewEngine(s *store.Store, opts Options) *Engine {
	return &Engine{store: s, opts: opts, log: logger.Named("dataset")}
}

// Import reads the project's data directory in the given format (empty means
// the category default) and creates tasks for it. All rows are written in one
// transaction: any error, including ctx cancellation, leaves the store as it was.
func (e *Engine) Import(ctx context.Context, projectID uint, formatName string) (RunReport, error) {
	start := time.Now()
	p, fmtName, f, err := e.prepare(ctx, projectID, formatName)
	if err != nil {
		return RunReport{}, err
	}
	if err := checkDataDir(p.DataDir); err != nil {
		return RunReport{}, err
	}

	rep := RunReport{RunID: uuid.NewString(), Kind: KindImport, Format: fmtName, ProjectID: p.ProjectID}
	log := e.log.With(zap.String("run_id", rep.RunID), zap.Uint("project_id", p.ProjectID), zap.String("format", fmtName))
	log.Info("import started", zap.String("data_dir", p.DataDir))

	err = e.store.Transaction(ctx, func(tx *store.Store) error {
		return f.importer(e, ctx, tx, p, &rep)
	})
	rep.Duration = time.Since(start)
	if err != nil {
		log.Warn("import failed, rolled back", zap.Error(err), zap.Duration("duration", rep.Duration))
		return RunReport{}, err
	}
	log.Info("import finished",
		zap.Int("tasks", rep.Tasks),
		zap.Int("annotations", rep.Annotations),
		zap.Int("unlabeled", rep.Unlabeled),
		zap.Int("labels_created", rep.LabelsCreated),
		zap.Duration("duration", rep.Duration))
	return rep, nil
}

// Export writes the project's tasks to exportDir in the given format.
func (e *Engine) Export(ctx context.Context, projectID uint, formatName, exportDir string) (RunReport, error) {
	start := time.Now()
	if exportDir == "" {
		return RunReport{}, apperr.New(apperr.CodeInvalid, "export directory is required")
	}
	p, fmtName, f, err := e.prepare(ctx, projectID, formatName)
	if err != nil {
		return RunReport{}, err
	}
	if err := checkDataDir(p.DataDir); err != nil {
		return RunReport{}, err
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return RunReport{}, apperr.Wrap(err, apperr.CodeIO, "create export directory")
	}

	rep := RunReport{RunID: uuid.NewString(), Kind: KindExport, Format: fmtName, ProjectID: p.ProjectID, ExportDir: exportDir}
	log := e.log.With(zap.String("run_id", rep.RunID), zap.Uint("project_id", p.ProjectID), zap.String("format", fmtName))
	log.Info("export started", zap.String("export_dir", exportDir))

	err = f.exporter(e, ctx, p, exportDir, &rep)
	rep.Duration = time.Since(start)
	if err != nil {
		log.Warn("export failed", zap.Error(err), zap.Duration("duration", rep.Duration))
		return RunReport{}, err
	}
	log.Info("export finished",
		zap.Int("tasks", rep.Tasks),
		zap.Int("images", rep.Images),
		zap.Int("annotations", rep.Annotations),
		zap.Duration("duration", rep.Duration))
	return rep, nil
}

func (e *Engine) prepare(ctx context.Context, projectID uint, formatName string) (models.Project, string, format, error) {
	p, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return models.Project{}, "", format{}, apperr.Wrap(err, apperr.CodeConfiguration, "project is not available")
		}
		return models.Project{}, "", format{}, err
	}
	name, err := ResolveFormat(p.TaskCategory, formatName)
	if err != nil {
		return models.Project{}, "", format{}, err
	}
	return p, name, registry[p.TaskCategory].formats[name], nil
}
