package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/classreg/internal/dependencies/mocks"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/admin"
	"github.com/mcoot/classreg/internal/services/registration"
	"github.com/mcoot/classreg/internal/storage"
	"github.com/mcoot/classreg/internal/storage/memory"
	"github.com/mcoot/classreg/internal/storage/storagetest"
	"github.com/mcoot/classreg/internal/testutil"
)

// TestAdminPassword is the admin password of every TestApp
const TestAdminPassword = "let-me-in"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Store wraps the memory backend so tests can inject failures
	Store *storagetest.Faulty
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := storagetest.NewFaulty(memory.New())
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	adminCfg := admin.Config{
		Password:   TestAdminPassword,
		Secret:     []byte("test-admin-secret"),
		BcryptCost: bcrypt.MinCost,
	}

	app, err := newWithDependencies(store, mockClock, mockRandom, adminCfg, registration.DefaultConfig(), testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Store:      store,
	}
}

// StoreClass writes a class document straight to the store, leaving the
// loaded catalog as it is
func (t *TestApp) StoreClass(ctx context.Context, class model.ClassInfo) error {
	fields, err := storage.EncodeFields(class)
	if err != nil {
		return err
	}
	return t.Storage.SetDocument(ctx, storage.CollectionClasses, string(class.ID), fields, false)
}

// SeedClass stores a class document and reloads the catalog
func (t *TestApp) SeedClass(ctx context.Context, class model.ClassInfo) error {
	if err := t.StoreClass(ctx, class); err != nil {
		return err
	}
	return t.Catalog.Load(ctx)
}

// SeedTestClasses stores a small catalog: two 1st period classes and one 2nd
// period class
func (t *TestApp) SeedTestClasses(ctx context.Context) error {
	classes := []model.ClassInfo{
		{ID: "pottery", Name: "Pottery", Description: "Hand-building with **clay**.", AgeRange: model.AgeRangeK2, Period: model.Period1st, Icon: model.IconPaintBrush, Instructor: "Ms. Clay"},
		{ID: "choir", Name: "Choir", Description: "Singing together.", AgeRange: model.AgeRangeGrades35, Period: model.Period1st, Icon: model.IconMusicNote},
		{ID: "chemistry", Name: "Chemistry", Description: "Kitchen science.", AgeRange: model.AgeRangeGrades68, Period: model.Period2nd, Icon: model.IconBeaker},
	}
	for _, c := range classes {
		if err := t.SeedClass(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// AdminToken logs in with the test password
func (t *TestApp) AdminToken() string {
	token, _, err := t.Admin.Login(TestAdminPassword)
	if err != nil {
		panic(err)
	}
	return token
}
