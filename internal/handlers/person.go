package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/peopleapi/internal/services"
)

type PersonHandler struct {
	personService *services.PersonService
}

func NewPersonHandler(personService *services.PersonService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
	}
}

// ListPeople lists all the available people
func (h *PersonHandler) ListPeople(c *gin.Context) {
	people, err := h.personService.ListPeople(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, people)
}

// GetPerson gets a single person by its unique ID
func (h *PersonHandler) GetPerson(c *gin.Context) {
	person, err := h.personService.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// CreatePerson creates a new person
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.Error(err)
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), body)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, person)
}

// UpdatePerson updates a single person by its unique ID, only the fields
// sent are changed. Nothing is returned, GET the person to see the result.
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.personService.UpdatePerson(c.Request.Context(), c.Param("id"), body); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePerson deletes a single person by its unique ID
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	if err := h.personService.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
