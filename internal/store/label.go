package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LabelInput carries label fields from callers. Nil ID or Color means "assign one"
// on create; nil fields are left unchanged on update.
type LabelInput struct {
	ID      *int    `json:"id"`
	Name    string  `json:"name"`
	Color   *string `json:"color"`
	Comment *string `json:"comment"`
}

// validColor reports whether c is a hex color such as "#fff" or "#1a2b3c".
func validColor(c string) bool {
	return validate.Var(c, "required,hexcolor") == nil
}

func checkColor(c string) error {
	if !validColor(c) {
		return apperr.Newf(apperr.CodeInvalid, "label color %q is not a hex color", c)
	}
	return nil
}

// ListLabels returns a project's labels ordered by their project-scoped id.
func (s *Store) ListLabels(ctx context.Context, projectID uint) ([]models.Label, error) {
	var labels []models.Label
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Order("local_id").Find(&labels).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list labels")
	}
	return labels, nil
}

// GetLabel returns a label by primary key.
func (s *Store) GetLabel(ctx context.Context, labelID uint) (models.Label, error) {
	var l models.Label
	if err := s.db.WithContext(ctx).First(&l, "label_id = ?", labelID).Error; err != nil {
		return models.Label{}, notFoundOr(err, "label")
	}
	return l, nil
}

// CreateLabel adds a label to a project. A missing id becomes max(id)+1 and a
// missing color becomes a random color unused in the project. id, name and
// color must each be unique within the project.
func (s *Store) CreateLabel(ctx context.Context, projectID uint, in LabelInput) (models.Label, error) {
	if err := s.ProjectExists(ctx, projectID); err != nil {
		return models.Label{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Label{}, apperr.New(apperr.CodeInvalid, "label name is required")
	}

	existing, err := s.ListLabels(ctx, projectID)
	if err != nil {
		return models.Label{}, err
	}

	label := models.Label{ProjectID: projectID, Name: name}
	if in.Comment != nil {
		label.Comment = *in.Comment
	}
	if in.ID != nil {
		label.LocalID = *in.ID
	} else {
		label.LocalID = maxLocalID(existing) + 1
	}
	if in.Color != nil && *in.Color != "" {
		if err := checkColor(*in.Color); err != nil {
			return models.Label{}, err
		}
		label.Color = *in.Color
	} else {
		label.Color = RandColor(colorsOf(existing))
	}

	if err := checkUnique(label, existing); err != nil {
		return models.Label{}, err
	}
	if err := s.db.WithContext(ctx).Create(&label).Error; err != nil {
		return models.Label{}, apperr.Wrap(err, apperr.CodeInternal, "create label")
	}
	return label, nil
}

// UpdateLabel changes the fields set in in, re-checking uniqueness against the project's other labels.
func (s *Store) UpdateLabel(ctx context.Context, labelID uint, in LabelInput) (models.Label, error) {
	label, err := s.GetLabel(ctx, labelID)
	if err != nil {
		return models.Label{}, err
	}
	if in.ID != nil {
		label.LocalID = *in.ID
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		label.Name = name
	}
	if in.Color != nil {
		if err := checkColor(*in.Color); err != nil {
			return models.Label{}, err
		}
		label.Color = *in.Color
	}
	if in.Comment != nil {
		label.Comment = *in.Comment
	}

	existing, err := s.ListLabels(ctx, label.ProjectID)
	if err != nil {
		return models.Label{}, err
	}
	others := existing[:0]
	for _, l := range existing {
		if l.LabelID != label.LabelID {
			others = append(others, l)
		}
	}
	if err := checkUnique(label, others); err != nil {
		return models.Label{}, err
	}
	if err := s.db.WithContext(ctx).Save(&label).Error; err != nil {
		return models.Label{}, apperr.Wrap(err, apperr.CodeInternal, "update label")
	}
	return label, nil
}

// LabelInUse reports whether any annotation references the label.
func (s *Store) LabelInUse(ctx context.Context, labelID uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Annotation{}).Where("label_id = ?", labelID).Count(&n).Error; err != nil {
		return false, apperr.Wrap(err, apperr.CodeInternal, "query annotations")
	}
	return n > 0, nil
}

// DeleteLabel removes a label that no annotation references.
func (s *Store) DeleteLabel(ctx context.Context, labelID uint) (models.Label, error) {
	label, err := s.GetLabel(ctx, labelID)
	if err != nil {
		return models.Label{}, err
	}
	inUse, err := s.LabelInUse(ctx, labelID)
	if err != nil {
		return models.Label{}, err
	}
	if inUse {
		return models.Label{}, apperr.New(apperr.CodeInUse, "can't delete label with annotation record").
			WithMeta("label_id", labelID)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Label{}, "label_id = ?", labelID).Error; err != nil {
		return models.Label{}, apperr.Wrap(err, apperr.CodeInternal, "delete label")
	}
	return label, nil
}

// EnsureLabel returns the project's label called name, creating it when absent.
// hint supplies a preferred id and color for the new label; taken or malformed
// values are replaced by automatic ones instead of failing.
func (s *Store) EnsureLabel(ctx context.Context, projectID uint, name string, hint LabelInput) (models.Label, bool, error) {
	var found []models.Label
	if err := s.db.WithContext(ctx).Where("project_id = ? AND name = ?", projectID, name).Limit(1).Find(&found).Error; err != nil {
		return models.Label{}, false, apperr.Wrap(err, apperr.CodeInternal, "query label")
	}
	if len(found) == 1 {
		return found[0], false, nil
	}

	existing, err := s.ListLabels(ctx, projectID)
	if err != nil {
		return models.Label{}, false, err
	}
	in := LabelInput{Name: name, Comment: hint.Comment}
	if hint.ID != nil && !hasLocalID(existing, *hint.ID) {
		in.ID = hint.ID
	}
	if hint.Color != nil && validColor(*hint.Color) && !hasColor(existing, *hint.Color) {
		in.Color = hint.Color
	}
	label, err := s.CreateLabel(ctx, projectID, in)
	if err != nil {
		return models.Label{}, false, err
	}
	return label, true, nil
}

// checkUnique reports which of id, name and color collide with existing labels.
func checkUnique(label models.Label, existing []models.Label) error {
	var cols []string
	if hasLocalID(existing, label.LocalID) {
		cols = append(cols, "id")
	}
	for _, l := range existing {
		if l.Name == label.Name {
			cols = append(cols, "name")
			break
		}
	}
	if hasColor(existing, label.Color) {
		cols = append(cols, "color")
	}
	if len(cols) == 0 {
		return nil
	}
	return apperr.Newf(apperr.CodeConflict, "Label %s is not unique", strings.Join(cols, ", ")).
		WithMeta("columns", cols)
}

func hasLocalID(labels []models.Label, id int) bool {
	for _, l := range labels {
		if l.LocalID == id {
			return true
		}
	}
	return false
}

func hasColor(labels []models.Label, color string) bool {
	for _, l := range labels {
		if strings.EqualFold(l.Color, color) {
			return true
		}
	}
	return false
}

func maxLocalID(labels []models.Label) int {
	m := 0
	for _, l := range labels {
		if l.LocalID > m {
			m = l.LocalID
		}
	}
	return m
}

func colorsOf(labels []models.Label) []string {
	colors := make([]string, 0, len(labels))
	for _, l := range labels {
		colors = append(colors, l.Color)
	}
	return colors
}

// RandColor returns a random "#rrggbb" color not in used (case-insensitive).
func RandColor(used []string) string {
	taken := make(map[string]struct{}, len(used))
	for _, c := range used {
		taken[strings.ToLower(c)] = struct{}{}
	}
	for {
		c := fmt.Sprintf("#%06x", rand.IntN(1<<24))
		if _, ok := taken[c]; !ok {
			return c
		}
	}
}
