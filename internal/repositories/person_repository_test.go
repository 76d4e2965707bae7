package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/peopleapi/internal/apierrors"
	"github.com/alimgiray/peopleapi/internal/models"
	"github.com/alimgiray/peopleapi/internal/store"
)

// clock is a settable time source
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newTestRepository(t *testing.T, now time.Time) (*PersonRepository, *clock, *store.SQLiteCollection) {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	collection, err := store.NewSQLiteCollection(context.Background(), db, "people")
	require.NoError(t, err)

	c := &clock{now: now}
	return NewPersonRepository(collection, WithClock(c.Now)), c, collection
}

func newCreate(t *testing.T, body string) *models.PersonCreate {
	t.Helper()
	create, err := models.DecodePersonCreate([]byte(body))
	require.NoError(t, err)
	return create
}

const johnBody = `{"name":"John","address":{"street":"A","city":"B","state":"C","zip_code":"1"},"birth":"2000-01-01"}`

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo, _, _ := newTestRepository(t, now)

	created, err := repo.Create(ctx, newCreate(t, johnBody))
	require.NoError(t, err)

	assert.Len(t, created.PersonID, 36)
	_, err = uuid.Parse(created.PersonID)
	assert.NoError(t, err)
	assert.Equal(t, "John", created.Name)
	assert.Equal(t, &models.Address{Street: "A", City: "B", State: "C", ZipCode: "1"}, created.Address)
	assert.Equal(t, "2000-01-01", created.Birth.String())
	require.NotNil(t, created.Age)
	assert.Equal(t, 24, *created.Age)
	assert.Equal(t, now.Unix(), created.Created)
	assert.Equal(t, created.Created, created.Updated)

	got, err := repo.Get(ctx, created.PersonID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateWithoutBirth(t *testing.T) {
	repo, _, _ := newTestRepository(t, time.Now())

	created, err := repo.Create(context.Background(), newCreate(t, `{"name":"Jane","address":{"street":"A","city":"B","state":"C","zip_code":"1"}}`))
	require.NoError(t, err)

	assert.Nil(t, created.Birth)
	assert.Nil(t, created.Age)
}

func TestCreateTimestamp(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	repo, _, _ := newTestRepository(t, now)

	created, err := repo.Create(context.Background(), newCreate(t, johnBody))
	require.NoError(t, err)

	assert.Equal(t, int64(1577836800), created.Created)
	assert.Equal(t, created.Created, created.Updated)
}

func TestCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	defer db.Close()
	collection, err := store.NewSQLiteCollection(ctx, db, "people")
	require.NoError(t, err)

	fixedID := "5f0d8a43-9c5e-4d3b-a4c1-0c3c7a4f2a10"
	repo := NewPersonRepository(collection, WithIDGenerator(func() string { return fixedID }))

	_, err = repo.Create(ctx, newCreate(t, johnBody))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newCreate(t, johnBody))
	assert.Equal(t, apierrors.KindAlreadyExists, apierrors.KindOf(err))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t, time.Now())

	people, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, people)
	assert.Empty(t, people)

	var created []*models.PersonRead
	for i := 0; i < 4; i++ {
		person, err := repo.Create(ctx, newCreate(t, johnBody))
		require.NoError(t, err)
		created = append(created, person)
	}

	people, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, created, people)
}

func TestOutOfRangeBirthNeverReachesList(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t, time.Now())

	_, err := repo.Create(ctx, newCreate(t, johnBody))
	require.NoError(t, err)

	for _, birth := range []string{`1e15`, `-1e15`, `"1e300"`} {
		t.Run(birth, func(t *testing.T) {
			body := `{"name":"Far","address":{"street":"A","city":"B","state":"C","zip_code":"1"},"birth":` + birth + `}`
			create, err := models.DecodePersonCreate([]byte(body))
			assert.Nil(t, create)

			var verr *apierrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []apierrors.Violation{{Field: "birth", Message: "invalid date format"}}, verr.Violations)
		})
	}

	people, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, people, 1)
}

func TestUpdateSingleField(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	repo, c, _ := newTestRepository(t, createdAt)

	person, err := repo.Create(ctx, newCreate(t, johnBody))
	require.NoError(t, err)

	testCases := []struct {
		name   string
		body   string
		mutate func(expected *models.PersonRead)
	}{
		{
			name: "Name",
			body: `{"name":"Jack"}`,
			mutate: func(expected *models.PersonRead) {
				expected.Name = "Jack"
			},
		},
		{
			name: "Address",
			body: `{"address":{"street":"S","city":"T","state":"U","zip_code":"V"}}`,
			mutate: func(expected *models.PersonRead) {
				expected.Address = &models.Address{Street: "S", City: "T", State: "U", ZipCode: "V"}
			},
		},
		{
			name: "Birth",
			body: `{"birth":"1990-12-31"}`,
			mutate: func(expected *models.PersonRead) {
				birth := models.NewDate(1990, time.December, 31)
				expected.Birth = &birth
			},
		},
	}

	expected := *person
	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c.now = createdAt.Add(time.Duration(i+1) * time.Hour)
			update, err := models.DecodePersonUpdate([]byte(tc.body))
			require.NoError(t, err)

			require.NoError(t, repo.Update(ctx, person.PersonID, update))

			got, err := repo.Get(ctx, person.PersonID)
			require.NoError(t, err)

			tc.mutate(&expected)
			expected.Updated = c.now.Unix()
			expected.Age = got.Age
			assert.Equal(t, &expected, got)
			assert.Equal(t, person.Created, got.Created)
			assert.Equal(t, person.PersonID, got.PersonID)
			assert.Greater(t, got.Updated, got.Created)
		})
	}
}

func TestUpdateRefreshesAge(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	person, err := repo.Create(ctx, newCreate(t, johnBody))
	require.NoError(t, err)

	update, err := models.DecodePersonUpdate([]byte(`{"birth":"2000-06-02"}`))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, person.PersonID, update))

	got, err := repo.Get(ctx, person.PersonID)
	require.NoError(t, err)
	require.NotNil(t, got.Age)
	assert.Equal(t, 23, *got.Age)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t, time.Now())
	personID := uuid.New().String()

	update, err := models.DecodePersonUpdate([]byte(`{"name":"x"}`))
	require.NoError(t, err)

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "Get", call: func() error { _, err := repo.Get(ctx, personID); return err }},
		{name: "Update", call: func() error { return repo.Update(ctx, personID, update) }},
		{name: "Delete", call: func() error { return repo.Delete(ctx, personID) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)

			status, body := apierrors.Render(err)
			assert.Equal(t, 404, status)
			assert.Equal(t, personID, body.(apierrors.ErrorResponse).Identifier)
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t, time.Now())

	person, err := repo.Create(ctx, newCreate(t, johnBody))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, person.PersonID))

	_, err = repo.Get(ctx, person.PersonID)
	assert.True(t, apierrors.IsNotFound(err))

	err = repo.Delete(ctx, person.PersonID)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestReadToleratesExtraStoredFields(t *testing.T) {
	ctx := context.Background()
	repo, _, collection := newTestRepository(t, time.Now())

	personID := uuid.New().String()
	_, err := collection.InsertOne(ctx, store.Document{
		store.IDField: personID,
		"name":        "Legacy",
		"address":     map[string]interface{}{"street": "A", "city": "B", "state": "C", "zip_code": "1", "country": "DE"},
		"created":     100,
		"updated":     200,
		"nickname":    "old field",
	})
	require.NoError(t, err)

	person, err := repo.Get(ctx, personID)
	require.NoError(t, err)
	assert.Equal(t, "Legacy", person.Name)
	assert.Equal(t, int64(200), person.Updated)
}

func TestReadRejectsBrokenStoredDocument(t *testing.T) {
	ctx := context.Background()
	repo, _, collection := newTestRepository(t, time.Now())

	_, err := collection.InsertOne(ctx, store.Document{store.IDField: "short-id", "name": "Broken"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "short-id")
	require.Error(t, err)
	// A broken document is a server fault, never a client validation error
	assert.Equal(t, apierrors.KindUnexpected, apierrors.KindOf(err))
}
