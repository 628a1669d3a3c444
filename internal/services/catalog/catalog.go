// Package catalog holds the class list and the master roster shared by all
// users, and keeps them in step with the document store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/dependencies/random"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/names"
	"github.com/mcoot/classreg/internal/services/reconcile"
	"github.com/mcoot/classreg/internal/services/sorting"
	"github.com/mcoot/classreg/internal/storage"
)

// registrationDoc is the stored shape of a class's roster
type registrationDoc struct {
	Children []model.Child `json:"children"`
}

// Addition lists the children a submission added to one class
type Addition struct {
	ClassID model.ClassID
	Added   []model.Child
}

// Catalog is the loaded class list and master roster. Mutations are applied
// to the in-memory state first and rolled back if the store write fails.
type Catalog struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	mu      sync.RWMutex
	classes []model.ClassInfo
	rosters model.Roster
}

// New creates an empty catalog. Call Load to populate it.
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Catalog {
	return &Catalog{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		rosters: make(model.Roster),
	}
}

// Load replaces the state with the store contents. On failure the previous
// state is kept. The write lock is held across the reads so a reload never
// interleaves with a mutation's store write.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	classDocs, err := c.storage.ListDocuments(ctx, storage.CollectionClasses)
	if err != nil {
		return fmt.Errorf("%w: list classes: %w", model.ErrStoreRead, err)
	}
	regDocs, err := c.storage.ListDocuments(ctx, storage.CollectionRegistrations)
	if err != nil {
		return fmt.Errorf("%w: list registrations: %w", model.ErrStoreRead, err)
	}

	classes := make([]model.ClassInfo, 0, len(classDocs))
	for _, doc := range classDocs {
		var class model.ClassInfo
		if err := storage.DecodeFields(doc.Fields, &class); err != nil {
			return fmt.Errorf("%w: class %s: %w", model.ErrStoreRead, doc.ID, err)
		}
		class.ID = model.ClassID(doc.ID)
		class.ApplyLoadDefaults()
		classes = append(classes, class)
	}
	sorting.ByIDDesc(classes)

	rosters := make(model.Roster, len(regDocs))
	for _, doc := range regDocs {
		var reg registrationDoc
		if err := storage.DecodeFields(doc.Fields, &reg); err != nil {
			return fmt.Errorf("%w: registrations %s: %w", model.ErrStoreRead, doc.ID, err)
		}
		rosters[model.ClassID(doc.ID)] = reg.Children
	}

	c.classes = classes
	c.rosters = rosters

	c.logger.Debug("catalog loaded", "classes", len(classes), "rosters", len(rosters))
	return nil
}

// Classes returns a copy of the class list, ordered by id descending
func (c *Catalog) Classes() []model.ClassInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.classes)
}

// Class returns one class
func (c *Catalog) Class(id model.ClassID) (model.ClassInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return model.ClassInfo{}, model.ErrClassNotFound
	}
	return c.classes[i], nil
}

// Lookup returns a ClassLookup over a snapshot of the class list
func (c *Catalog) Lookup() reconcile.ClassLookup {
	return reconcile.LookupFromList(c.Classes())
}

// Roster returns a copy of a class's master roster, including incomplete rows
func (c *Catalog) Roster(id model.ClassID) ([]model.Child, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.indexOf(id) < 0 {
		return nil, model.ErrClassNotFound
	}
	return slices.Clone(c.rosters[id]), nil
}

// Rosters returns a copy of the whole master roster
func (c *Catalog) Rosters() model.Roster {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rosters.Clone()
}

// CreateClass adds a class with default values. The class is listed under a
// temporary id until the store assigns its permanent one.
func (c *Catalog) CreateClass(ctx context.Context) (model.ClassInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	class := model.NewClassDefaults()
	tempID := model.ClassID(fmt.Sprintf("%s%d", model.TempClassIDPrefix, c.clock.Now().UnixMilli()))
	class.ID = tempID
	c.classes = append(c.classes, class)

	fields, err := storage.EncodeFields(class)
	if err == nil {
		var id string
		id, err = c.storage.AddDocument(ctx, storage.CollectionClasses, fields)
		class.ID = model.ClassID(id)
	}
	if err != nil {
		c.classes = slices.DeleteFunc(c.classes, func(ci model.ClassInfo) bool { return ci.ID == tempID })
		c.logger.Warn("create class failed", "error", err)
		return model.ClassInfo{}, fmt.Errorf("%w: add class: %w", model.ErrStoreWrite, err)
	}

	c.classes[c.indexOf(tempID)] = class
	sorting.ByIDDesc(c.classes)

	c.logger.Info("class created", "class_id", class.ID)
	return class, nil
}

// UpdateClass changes one field of a class and persists just that field
func (c *Catalog) UpdateClass(ctx context.Context, id model.ClassID, field model.ClassField, value string) (model.ClassInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return model.ClassInfo{}, model.ErrClassNotFound
	}

	previous := c.classes[i]
	updated, stored, err := applyField(previous, field, value)
	if err != nil {
		return model.ClassInfo{}, err
	}
	c.classes[i] = updated

	err = c.storage.SetDocument(ctx, storage.CollectionClasses, string(id), storage.Fields{string(field): stored}, true)
	if err != nil {
		c.classes[i] = previous
		c.logger.Warn("update class failed", "class_id", id, "field", field, "error", err)
		return model.ClassInfo{}, fmt.Errorf("%w: update class: %w", model.ErrStoreWrite, err)
	}

	return updated, nil
}

func applyField(class model.ClassInfo, field model.ClassField, value string) (model.ClassInfo, string, error) {
	switch field {
	case model.FieldName:
		class.Name = value
	case model.FieldDescription:
		class.Description = value
	case model.FieldInstructor:
		class.Instructor = names.ProperCase(value)
		value = class.Instructor
	case model.FieldAgeRange:
		ageRange, err := model.ParseAgeRange(value)
		if err != nil {
			return class, "", err
		}
		class.AgeRange = ageRange
		value = string(ageRange)
	case model.FieldPeriod:
		period, err := model.ParsePeriod(value)
		if err != nil {
			return class, "", err
		}
		class.Period = period
		value = string(period)
	case model.FieldIcon:
		icon, err := model.ParseIcon(value)
		if err != nil {
			return class, "", err
		}
		class.Icon = icon
		value = string(icon)
	default:
		return class, "", model.ErrInvalidField
	}
	return class, value, nil
}

// DeleteClass removes a class and its roster
func (c *Catalog) DeleteClass(ctx context.Context, id model.ClassID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return model.ErrClassNotFound
	}

	prevClasses := slices.Clone(c.classes)
	prevRoster, hadRoster := c.rosters[id]

	c.classes = slices.Delete(c.classes, i, i+1)
	delete(c.rosters, id)

	err := c.storage.DeleteDocument(ctx, storage.CollectionClasses, string(id))
	if err == nil {
		err = c.storage.DeleteDocument(ctx, storage.CollectionRegistrations, string(id))
	}
	if err != nil {
		c.classes = prevClasses
		if hadRoster {
			c.rosters[id] = prevRoster
		}
		c.logger.Warn("delete class failed", "class_id", id, "error", err)
		return fmt.Errorf("%w: delete class: %w", model.ErrStoreWrite, err)
	}

	c.logger.Info("class deleted", "class_id", id)
	return nil
}

// SetRoster replaces a class's master roster. Names are trimmed and
// proper-cased. All rows are kept in memory but only complete children are
// written to the store.
func (c *Catalog) SetRoster(ctx context.Context, id model.ClassID, children []model.Child) ([]model.Child, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) < 0 {
		return nil, model.ErrClassNotFound
	}

	rows := make([]model.Child, 0, len(children))
	for _, child := range children {
		if strings.TrimSpace(string(child.ID)) == "" {
			child.ID = model.ChildID(c.random.UUID())
		}
		rows = append(rows, reconcile.FormatChild(child))
	}

	prev, hadRoster := c.rosters[id]
	c.rosters[id] = rows

	complete := model.CompleteChildren(rows)
	if complete == nil {
		complete = []model.Child{}
	}
	if err := c.writeRoster(ctx, id, complete); err != nil {
		if hadRoster {
			c.rosters[id] = prev
		} else {
			delete(c.rosters, id)
		}
		c.logger.Warn("set roster failed", "class_id", id, "error", err)
		return nil, err
	}

	return slices.Clone(rows), nil
}

// Submit merges a user's selection into the stored rosters. Classes without
// complete children and classes missing from the catalog are skipped. A class
// is only written when the merge adds someone.
func (c *Catalog) Submit(ctx context.Context, selection *model.Selection) ([]Addition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := reconcile.DetectConflict(selection, reconcile.LookupFromList(c.classes)); err != nil {
		return nil, err
	}

	var additions []Addition
	var submitErr error
	active := 0

	selection.Each(func(classID model.ClassID, children []model.Child) bool {
		if c.indexOf(classID) < 0 || !model.HasComplete(children) {
			return true
		}
		active++

		existing, err := c.readRoster(ctx, classID)
		if err != nil {
			submitErr = err
			return false
		}

		added := reconcile.Added(existing, children)
		if len(added) == 0 {
			return true
		}

		merged := append(slices.Clone(existing), added...)
		if err := c.writeRoster(ctx, classID, merged); err != nil {
			submitErr = err
			return false
		}

		c.rosters[classID] = merged
		additions = append(additions, Addition{ClassID: classID, Added: added})
		return true
	})

	if submitErr != nil {
		c.logger.Warn("submit registration failed", "error", submitErr)
		return additions, submitErr
	}
	if active == 0 {
		return nil, model.ErrNothingToSubmit
	}

	c.logger.Info("registration submitted", "classes", len(additions))
	return additions, nil
}

func (c *Catalog) readRoster(ctx context.Context, id model.ClassID) ([]model.Child, error) {
	fields, err := c.storage.GetDocument(ctx, storage.CollectionRegistrations, string(id))
	if errors.Is(err, model.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read roster %s: %w", model.ErrStoreRead, id, err)
	}

	var reg registrationDoc
	if err := storage.DecodeFields(fields, &reg); err != nil {
		return nil, fmt.Errorf("%w: read roster %s: %w", model.ErrStoreRead, id, err)
	}
	return reg.Children, nil
}

func (c *Catalog) writeRoster(ctx context.Context, id model.ClassID, children []model.Child) error {
	fields, err := storage.EncodeFields(registrationDoc{Children: children})
	if err == nil {
		err = c.storage.SetDocument(ctx, storage.CollectionRegistrations, string(id), fields, true)
	}
	if err != nil {
		return fmt.Errorf("%w: write roster %s: %w", model.ErrStoreWrite, id, err)
	}
	return nil
}

// indexOf must be called with c.mu held
func (c *Catalog) indexOf(id model.ClassID) int {
	return slices.IndexFunc(c.classes, func(ci model.ClassInfo) bool { return ci.ID == id })
}
