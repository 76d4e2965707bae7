package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alimgiray/peopleapi/internal/apierrors"
	"github.com/alimgiray/peopleapi/internal/models"
	"github.com/alimgiray/peopleapi/internal/store"
)

type PersonRepository struct {
	collection store.Collection
	now        func() time.Time
	newID      func() string
}

// Option customizes a PersonRepository
type Option func(*PersonRepository)

// WithClock sets the clock used for timestamps and age derivation
func WithClock(now func() time.Time) Option {
	return func(r *PersonRepository) {
		r.now = now
	}
}

// WithIDGenerator sets the function generating person ids
func WithIDGenerator(newID func() string) Option {
	return func(r *PersonRepository) {
		r.newID = newID
	}
}

func NewPersonRepository(collection store.Collection, opts ...Option) *PersonRepository {
	r := &PersonRepository{
		collection: collection,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get retrieves a single person by its unique id
func (r *PersonRepository) Get(ctx context.Context, personID string) (*models.PersonRead, error) {
	doc, err := r.collection.FindOne(ctx, personID)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, apierrors.PersonNotFound(personID)
	}
	if err != nil {
		return nil, fmt.Errorf("find person %s: %w", personID, err)
	}

	return models.PersonReadFromDocument(doc, r.now())
}

// List retrieves all the available people
func (r *PersonRepository) List(ctx context.Context) ([]*models.PersonRead, error) {
	docs, err := r.collection.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("find people: %w", err)
	}

	now := r.now()
	people := make([]*models.PersonRead, 0, len(docs))
	for _, doc := range docs {
		person, err := models.PersonReadFromDocument(doc, now)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}

	return people, nil
}

// Create stores a new person and returns it as stored
func (r *PersonRepository) Create(ctx context.Context, create *models.PersonCreate) (*models.PersonRead, error) {
	doc := store.Document(create.Document())
	timestamp := r.now().Unix()
	doc["created"] = timestamp
	doc["updated"] = timestamp
	doc[store.IDField] = r.newID()

	personID, err := r.collection.InsertOne(ctx, doc)
	if errors.Is(err, store.ErrDuplicateKey) {
		return nil, apierrors.PersonAlreadyExists(doc[store.IDField].(string))
	}
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}

	return r.Get(ctx, personID)
}

// Update sets the fields present in update on an existing person. It does
// not return the person, Get it to observe the result.
func (r *PersonRepository) Update(ctx context.Context, personID string, update *models.PersonUpdate) error {
	fields := store.Document(update.Fields())
	fields["updated"] = r.now().Unix()

	matched, err := r.collection.UpdateOne(ctx, personID, fields)
	if err != nil {
		return fmt.Errorf("update person %s: %w", personID, err)
	}
	if matched == 0 {
		return apierrors.PersonNotFound(personID)
	}

	return nil
}

// Delete deletes a person by its unique id
func (r *PersonRepository) Delete(ctx context.Context, personID string) error {
	deleted, err := r.collection.DeleteOne(ctx, personID)
	if err != nil {
		return fmt.Errorf("delete person %s: %w", personID, err)
	}
	if deleted == 0 {
		return apierrors.PersonNotFound(personID)
	}

	return nil
}
