package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alimgiray/peopleapi/internal/apierrors"
	"github.com/alimgiray/peopleapi/internal/store"
)

// storedPerson is the stored document shape. Unknown properties are ignored
// so documents written by newer versions can still be read.
type storedPerson struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Address *Address `json:"address"`
	Birth   *Date    `json:"birth"`
	Created int64    `json:"created"`
	Updated int64    `json:"updated"`
}

// PersonReadFromDocument converts a stored document into the read
// representation: the primary key becomes person_id and age is derived from
// birth as of now.
func PersonReadFromDocument(doc store.Document, now time.Time) (*PersonRead, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var stored storedPerson
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode document %v: %w", doc[store.IDField], err)
	}

	read := &PersonRead{
		PersonID: stored.ID,
		Name:     stored.Name,
		Address:  stored.Address,
		Birth:    stored.Birth,
		Created:  stored.Created,
		Updated:  stored.Updated,
	}

	if read.Birth != nil {
		age := AgeOn(*read.Birth, now)
		read.Age = &age
	}

	verr := &apierrors.ValidationError{}
	checkConstraints(read, "", verr)
	if err := verr.OrNil(); err != nil {
		// Not a client error, the stored document itself is broken
		return nil, fmt.Errorf("invalid stored person %q: %s", stored.ID, err.Error())
	}

	return read, nil
}
