package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/schooldesk/internal/database/fees"
	"github.com/mrlokans/schooldesk/internal/entities"
)

// FeesController handles the fee ledger endpoints.
type FeesController struct {
	ledger FeeLedger
}

// NewFeesController creates a new FeesController.
func NewFeesController(ledger FeeLedger) *FeesController {
	return &FeesController{ledger: ledger}
}

// PaymentRequest is the body of POST /fees/pay.
type PaymentRequest struct {
	StudentID flexibleID  `json:"student_id"`
	Fees      []fees.Item `json:"fees"`
}

// PaymentResponse is the receipt returned for a recorded batch.
type PaymentResponse struct {
	Success bool `json:"success"`
	fees.Receipt
}

// Index handles GET /fees
func (fc *FeesController) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Pay handles POST /fees/pay
func (fc *FeesController) Pay(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StudentID == 0 || len(req.Fees) == 0 {
		c.JSON(http.StatusBadRequest, WriteResponse{Success: false, Message: "Invalid data"})
		return
	}

	receipt, err := fc.ledger.RecordPayment(c.Request.Context(), uint(req.StudentID), req.Fees)
	if err != nil {
		respondWriteError(c, err, "record payment")
		return
	}

	c.JSON(http.StatusOK, PaymentResponse{Success: true, Receipt: *receipt})
}

// History handles GET /fees/student/:id
func (fc *FeesController) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := fc.ledger.ListForStudent(c.Request.Context(), id)
	if err != nil {
		log.Printf("Internal error (fee history): %v", err)
		c.JSON(http.StatusInternalServerError, []entities.FeeEntry{})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Report handles GET /fees/report
// Query params: class_name, fromDate, toDate (all optional).
func (fc *FeesController) Report(c *gin.Context) {
	filter := fees.ReportFilter{
		ClassName: c.Query("class_name"),
		FromDate:  c.Query("fromDate"),
		ToDate:    c.Query("toDate"),
	}

	rows, err := fc.ledger.Report(c.Request.Context(), filter)
	if err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Internal error (fee report): %v", err)
		}
		c.JSON(status, []fees.ReportRow{})
		return
	}
	c.JSON(http.StatusOK, rows)
}
