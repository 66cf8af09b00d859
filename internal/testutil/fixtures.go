package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/crccards/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProject inserts a project with the given name.
func (f *Fixtures) CreateProject(ctx context.Context, name string) models.Project {
	f.t.Helper()
	return f.CreateProjectAt(ctx, name, time.Now().UTC())
}

// CreateProjectAt inserts a project whose timestamps are set to at.
// Useful for ordering tests.
func (f *Fixtures) CreateProjectAt(ctx context.Context, name string, at time.Time) models.Project {
	f.t.Helper()

	p := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: "Test project description",
		Members:     []models.Member{},
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateCard inserts a card in the given project with one responsibility
// and one collaborator.
func (f *Fixtures) CreateCard(ctx context.Context, projectID primitive.ObjectID, className string) models.Card {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Card{
		ID:               primitive.NewObjectID(),
		ProjectID:        projectID,
		ClassName:        className,
		Responsibilities: []string{"Knows " + className},
		Collaborators:    []string{"Other"},
		Attributes:       []string{},
		Methods:          []string{},
		IssueFlags:       []models.IssueFlag{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("cards").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test card: %v", err)
	}
	return c
}
