package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"carreras/internal/domain/models"
	"carreras/internal/repositories"
	"carreras/internal/utils"

	"github.com/gin-gonic/gin"
)

type ridePayload struct {
	Date                string  `json:"date" binding:"required"`
	ProviderID          int64   `json:"provider_id" binding:"required"`
	UnitID              int64   `json:"unit_id" binding:"required"`
	StartLocation       string  `json:"start_location" binding:"required"`
	Destination         string  `json:"destination" binding:"required"`
	PaymentMethod       string  `json:"payment_method" binding:"required"`
	Amount              float64 `json:"amount"`
	HasCommission       bool    `json:"has_commission"`
	UnitRequestedCredit bool    `json:"unit_requested_credit"`
	ProviderGaveCredit  bool    `json:"provider_gave_credit"`
}

type amountPayload struct {
	Amount string `json:"amount" binding:"required"`
}

// GET /api/rides?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func GetRides(c *gin.Context) {
	start := strings.TrimSpace(c.Query("start_date"))
	end := strings.TrimSpace(c.Query("end_date"))
	if _, err := utils.ParseDate(start); err != nil {
		RespondError(c, http.StatusBadRequest, "start_date debe ser YYYY-MM-DD", nil)
		return
	}
	if _, err := utils.ParseDate(end); err != nil {
		RespondError(c, http.StatusBadRequest, "end_date debe ser YYYY-MM-DD", nil)
		return
	}

	repo := repositories.RideRepository{}
	rides, err := repo.ListByDateRange(start, end)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudieron obtener las carreras", err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

// POST /api/rides
func CreateRide(c *gin.Context) {
	var payload ridePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if _, err := utils.ParseDate(payload.Date); err != nil {
		RespondError(c, http.StatusBadRequest, "date debe ser YYYY-MM-DD", nil)
		return
	}
	if !models.ValidPaymentMethod(payload.PaymentMethod) {
		RespondError(c, http.StatusBadRequest, "payment_method debe ser Cash, Credit o Transfer", nil)
		return
	}
	if payload.Amount < 0 {
		RespondError(c, http.StatusBadRequest, "amount no puede ser negativo", nil)
		return
	}

	catalog := repositories.CatalogRepository{}
	if ok, err := catalog.ProviderExists(payload.ProviderID); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo validar el proveedor", err)
		return
	} else if !ok {
		RespondError(c, http.StatusBadRequest, "proveedor no existe", nil)
		return
	}
	if ok, err := catalog.UnitExists(payload.UnitID); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo validar la unidad", err)
		return
	} else if !ok {
		RespondError(c, http.StatusBadRequest, "unidad no existe", nil)
		return
	}

	repo := repositories.RideRepository{}
	id, err := repo.Create(models.Ride{
		Date:                payload.Date,
		ProviderID:          payload.ProviderID,
		UnitID:              payload.UnitID,
		StartLocation:       utils.TrimOrEmpty(payload.StartLocation),
		Destination:         utils.TrimOrEmpty(payload.Destination),
		PaymentMethod:       payload.PaymentMethod,
		Amount:              payload.Amount,
		HasCommission:       payload.HasCommission,
		UnitRequestedCredit: payload.UnitRequestedCredit,
		ProviderGaveCredit:  payload.ProviderGaveCredit,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo registrar la carrera", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "carrera registrada", "id": id})
}

// PATCH /api/rides/:id/amount
func UpdateRideAmount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload amountPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	amount, err := utils.ParseAmount(payload.Amount)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "amount inválido", err)
		return
	}

	repo := repositories.RideRepository{}
	if err := repo.UpdateAmount(id, amount); err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusNotFound, "carrera no encontrada", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "no se pudo corregir el monto", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "monto actualizado", "amount": amount})
}

// DELETE /api/rides/:id
func DeleteRide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	repo := repositories.RideRepository{}
	if err := repo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusNotFound, "carrera no encontrada", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar la carrera", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "carrera eliminada"})
}
