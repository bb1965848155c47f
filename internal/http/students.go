package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mrlokans/schooldesk/internal/entities"
)

// StudentsController handles the student register endpoints.
type StudentsController struct {
	store StudentStore
}

// NewStudentsController creates a new StudentsController.
func NewStudentsController(store StudentStore) *StudentsController {
	return &StudentsController{store: store}
}

// StudentRequest is the body of the add and update endpoints.
type StudentRequest struct {
	Name       string          `json:"name" binding:"required"`
	ParentName string          `json:"parent_name"`
	Phone      string          `json:"phone"`
	ClassName  string          `json:"class_name"`
	Address    string          `json:"address"`
	TotalFee   decimal.Decimal `json:"total_fee"`
}

func (r StudentRequest) input() entities.StudentInput {
	return entities.StudentInput{
		Name:       r.Name,
		ParentName: r.ParentName,
		Phone:      r.Phone,
		ClassName:  r.ClassName,
		Address:    r.Address,
		TotalFee:   r.TotalFee,
	}
}

// List handles GET /students
func (sc *StudentsController) List(c *gin.Context) {
	students, err := sc.store.List(c.Request.Context())
	if err != nil {
		log.Printf("Internal error (list students): %v", err)
		c.JSON(http.StatusInternalServerError, []entities.Student{})
		return
	}
	c.JSON(http.StatusOK, students)
}

// Get handles GET /students/:id
func (sc *StudentsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := sc.store.Get(c.Request.Context(), id)
	if err != nil {
		if storeErrorStatus(err) == http.StatusNotFound {
			respondNotFound(c, "Student")
			return
		}
		respondInternalError(c, err, "get student")
		return
	}
	c.JSON(http.StatusOK, student)
}

// Add handles POST /students/add
func (sc *StudentsController) Add(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, WriteResponse{Success: false, Message: "Invalid data"})
		return
	}

	if _, err := sc.store.Create(c.Request.Context(), req.input()); err != nil {
		respondWriteError(c, err, "add student")
		return
	}
	respondWriteOK(c)
}

// Update handles POST /students/update/:id
func (sc *StudentsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, WriteResponse{Success: false, Message: "Invalid data"})
		return
	}

	if err := sc.store.Update(c.Request.Context(), id, req.input()); err != nil {
		respondWriteError(c, err, "update student")
		return
	}
	respondWriteOK(c)
}

// Invoice handles GET /students/invoice/:id
func (sc *StudentsController) Invoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := sc.store.Invoice(c.Request.Context(), id)
	if err != nil {
		if storeErrorStatus(err) == http.StatusNotFound {
			respondNotFound(c, "Student")
			return
		}
		respondInternalError(c, err, "student invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Delete handles DELETE /students/:id
func (sc *StudentsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.store.Delete(c.Request.Context(), id); err != nil {
		respondWriteError(c, err, "delete student")
		return
	}
	respondWriteOK(c)
}
