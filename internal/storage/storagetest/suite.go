// Package storagetest holds behaviour tests shared by every storage backend
// and a fault-injecting wrapper for exercising store failures.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/storage"
)

// Suite runs the document store contract against a backend
type Suite struct {
	suite.Suite

	// NewStorage returns an empty store for each test
	NewStorage func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.store = s.NewStorage(s.T())
	s.ctx = context.Background()
}

func (s *Suite) TestGetDocumentNotFound() {
	_, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "missing")
	s.ErrorIs(err, model.ErrDocumentNotFound)
}

func (s *Suite) TestSetAndGetDocument() {
	err := s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{
		"name":   "Pottery",
		"period": "2nd",
	}, false)
	s.Require().NoError(err)

	fields, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "c1")
	s.Require().NoError(err)
	s.Equal("Pottery", fields["name"])
	s.Equal("2nd", fields["period"])
}

func (s *Suite) TestSetDocumentReplaceDropsFields() {
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{
		"name":       "Pottery",
		"instructor": "Ms. Clay",
	}, false))
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{
		"name": "Ceramics",
	}, false))

	fields, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "c1")
	s.Require().NoError(err)
	s.Equal("Ceramics", fields["name"])
	s.NotContains(fields, "instructor")
}

func (s *Suite) TestSetDocumentMergeKeepsFields() {
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{
		"name":       "Pottery",
		"instructor": "Ms. Clay",
	}, false))
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{
		"name": "Ceramics",
	}, true))

	fields, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "c1")
	s.Require().NoError(err)
	s.Equal("Ceramics", fields["name"])
	s.Equal("Ms. Clay", fields["instructor"])
}

func (s *Suite) TestSetDocumentMergeCreatesMissing() {
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionRegistrations, "c1", storage.Fields{
		"children": []any{"Ada Lovelace"},
	}, true))

	fields, err := s.store.GetDocument(s.ctx, storage.CollectionRegistrations, "c1")
	s.Require().NoError(err)
	s.Equal([]any{"Ada Lovelace"}, fields["children"])
}

func (s *Suite) TestNestedFieldsRoundTrip() {
	children := []model.Child{{ID: "k1", FirstName: "Ada", LastName: "Lovelace"}}
	fields, err := storage.EncodeFields(map[string]any{"children": children})
	s.Require().NoError(err)
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionRegistrations, "c1", fields, false))

	stored, err := s.store.GetDocument(s.ctx, storage.CollectionRegistrations, "c1")
	s.Require().NoError(err)

	var decoded struct {
		Children []model.Child `json:"children"`
	}
	s.Require().NoError(storage.DecodeFields(stored, &decoded))
	s.Equal(children, decoded.Children)
}

func (s *Suite) TestReturnedFieldsAreCopies() {
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{"name": "Pottery"}, false))

	fields, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "c1")
	s.Require().NoError(err)
	fields["name"] = "Changed"

	again, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "c1")
	s.Require().NoError(err)
	s.Equal("Pottery", again["name"])
}

func (s *Suite) TestAddDocumentGeneratesUniqueIDs() {
	id1, err := s.store.AddDocument(s.ctx, storage.CollectionClasses, storage.Fields{"name": "A"})
	s.Require().NoError(err)
	id2, err := s.store.AddDocument(s.ctx, storage.CollectionClasses, storage.Fields{"name": "B"})
	s.Require().NoError(err)

	s.NotEmpty(id1)
	s.NotEqual(id1, id2)

	fields, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, id2)
	s.Require().NoError(err)
	s.Equal("B", fields["name"])
}

func (s *Suite) TestListDocumentsOrderedByID() {
	for _, id := range []string{"b", "c", "a"} {
		s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, id, storage.Fields{"name": id}, false))
	}
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionRegistrations, "z", storage.Fields{}, false))

	docs, err := s.store.ListDocuments(s.ctx, storage.CollectionClasses)
	s.Require().NoError(err)
	s.Require().Len(docs, 3)
	s.Equal("a", docs[0].ID)
	s.Equal("b", docs[1].ID)
	s.Equal("c", docs[2].ID)
	s.Equal("c", docs[2].Fields["name"])
}

func (s *Suite) TestListDocumentsEmptyCollection() {
	docs, err := s.store.ListDocuments(s.ctx, storage.CollectionClasses)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *Suite) TestDeleteDocument() {
	s.Require().NoError(s.store.SetDocument(s.ctx, storage.CollectionClasses, "c1", storage.Fields{"name": "A"}, false))

	s.Require().NoError(s.store.DeleteDocument(s.ctx, storage.CollectionClasses, "c1"))

	_, err := s.store.GetDocument(s.ctx, storage.CollectionClasses, "c1")
	s.ErrorIs(err, model.ErrDocumentNotFound)

	docs, err := s.store.ListDocuments(s.ctx, storage.CollectionClasses)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *Suite) TestDeleteMissingDocument() {
	s.NoError(s.store.DeleteDocument(s.ctx, storage.CollectionClasses, "missing"))
}
