// internal/app/store/cards/cardstore.go
package cardstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/crccards/internal/app/system/validators"
	"github.com/dalemusser/crccards/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the cards collection.
const Collection = "cards"

var ErrNotFound = errors.New("card not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a new card. The referenced project is not looked up.
func (s *Store) Create(ctx context.Context, c models.Card) (models.Card, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Normalize()
	if err := c.Validate(); err != nil {
		return models.Card{}, err
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Card{}, mapWriteErr(err)
	}
	return c, nil
}

// GetByID retrieves a card by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Card, error) {
	var c models.Card
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Card{}, ErrNotFound
		}
		return models.Card{}, err
	}
	c.Normalize()
	return c, nil
}

// List returns cards sorted by class name. A nil projectID lists every card.
func (s *Store) List(ctx context.Context, projectID *primitive.ObjectID) ([]models.Card, error) {
	filter := bson.M{}
	if projectID != nil {
		filter["project_id"] = *projectID
	}
	opts := options.Find().SetSort(bson.D{{Key: "class_name", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	cards := []models.Card{}
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].Normalize()
	}
	return cards, nil
}

// Update applies the supplied fields of patch and refreshes updated_at.
// The project reference is never changed.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch models.CardPatch) (models.Card, error) {
	if err := patch.Validate(); err != nil {
		return models.Card{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.ClassName != nil {
		set["class_name"] = strings.TrimSpace(*patch.ClassName)
	}
	setList(set, "responsibilities", patch.Responsibilities)
	setList(set, "collaborators", patch.Collaborators)
	setList(set, "attributes", patch.Attributes)
	setList(set, "methods", patch.Methods)
	if patch.IssueFlags != nil {
		flags := *patch.IssueFlags
		if flags == nil {
			flags = []models.IssueFlag{}
		}
		set["issue_flags"] = flags
	}

	var c models.Card
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Card{}, ErrNotFound
		}
		return models.Card{}, mapWriteErr(err)
	}
	c.Normalize()
	return c, nil
}

func setList(set bson.M, key string, v *[]string) {
	if v == nil {
		return
	}
	if *v == nil {
		set[key] = []string{}
		return
	}
	set[key] = *v
}

// Delete removes a card by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByProject removes every card that references projectID and returns
// how many were removed.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of cards matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

func mapWriteErr(err error) error {
	if validators.IsSchemaRejection(err) {
		return fmt.Errorf("%w: %v", models.ErrSchemaRejected, err)
	}
	return err
}
