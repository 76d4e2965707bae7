package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/peopleapi/internal/apierrors"
	"github.com/alimgiray/peopleapi/internal/metrics"
	"github.com/alimgiray/peopleapi/internal/models"
	"github.com/alimgiray/peopleapi/internal/repositories"
	"github.com/alimgiray/peopleapi/pkg/logger"
)

// PersonService validates client payloads and runs them against the
// repository. Each call maps to exactly one repository operation.
type PersonService struct {
	personRepo *repositories.PersonRepository
	metrics    *metrics.Metrics
}

func NewPersonService(personRepo *repositories.PersonRepository, m *metrics.Metrics) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		metrics:    m,
	}
}

// ListPeople retrieves all the people
func (s *PersonService) ListPeople(ctx context.Context) ([]*models.PersonRead, error) {
	people, err := s.personRepo.List(ctx)
	s.record("list", "", err)
	return people, err
}

// GetPerson retrieves a person by ID
func (s *PersonService) GetPerson(ctx context.Context, personID string) (*models.PersonRead, error) {
	person, err := s.personRepo.Get(ctx, personID)
	s.record("get", personID, err)
	return person, err
}

// CreatePerson validates body as a new person and stores it
func (s *PersonService) CreatePerson(ctx context.Context, body []byte) (*models.PersonRead, error) {
	create, err := models.DecodePersonCreate(body)
	if err != nil {
		s.record("create", "", err)
		return nil, err
	}

	person, err := s.personRepo.Create(ctx, create)
	if err != nil {
		s.record("create", "", err)
		return nil, err
	}

	s.record("create", person.PersonID, nil)
	return person, nil
}

// UpdatePerson validates body as a partial update and applies it
func (s *PersonService) UpdatePerson(ctx context.Context, personID string, body []byte) error {
	update, err := models.DecodePersonUpdate(body)
	if err == nil {
		err = s.personRepo.Update(ctx, personID, update)
	}
	s.record("update", personID, err)
	return err
}

// DeletePerson deletes a person by ID
func (s *PersonService) DeletePerson(ctx context.Context, personID string) error {
	err := s.personRepo.Delete(ctx, personID)
	s.record("delete", personID, err)
	return err
}

// record logs and counts the outcome of an operation
func (s *PersonService) record(operation, personID string, err error) {
	result := "ok"
	if err != nil {
		result = apierrors.KindOf(err).String()
	}
	s.metrics.IncrementOperation(operation, result)

	entry := logger.WithFields(logrus.Fields{
		"operation": operation,
		"result":    result,
	})
	if personID != "" {
		entry = entry.WithField("person_id", personID)
	}

	switch {
	case err == nil:
		entry.Debug("people operation succeeded")
	case apierrors.KindOf(err) == apierrors.KindUnexpected:
		entry.WithError(err).Error("people operation failed")
	default:
		entry.WithError(err).Info("people operation rejected")
	}
}
