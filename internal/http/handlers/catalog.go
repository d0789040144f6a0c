package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"carreras/internal/repositories"
	"carreras/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type catalogPayload struct {
	Name string `json:"name" binding:"required"`
}

// GET /api/providers
func GetProviders(c *gin.Context) {
	repo := repositories.CatalogRepository{}
	providers, err := repo.ListProviders()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudieron obtener los proveedores", err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// POST /api/providers
func CreateProvider(c *gin.Context) {
	var payload catalogPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	name := utils.NormalizeSpace(payload.Name)
	if name == "" {
		RespondError(c, http.StatusBadRequest, "name es obligatorio", nil)
		return
	}

	repo := repositories.CatalogRepository{}
	id, err := repo.CreateProvider(name)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "el proveedor ya existe", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "no se pudo crear el proveedor", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "name": name})
}

// DELETE /api/providers/:id
func DeleteProvider(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	repo := repositories.CatalogRepository{}
	if err := repo.DeleteProvider(id); err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusNotFound, "proveedor no encontrado", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar el proveedor", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "proveedor eliminado"})
}

// GET /api/units
func GetUnits(c *gin.Context) {
	repo := repositories.CatalogRepository{}
	units, err := repo.ListUnits()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudieron obtener las unidades", err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// POST /api/units
func CreateUnit(c *gin.Context) {
	var payload catalogPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	name := utils.NormalizeSpace(payload.Name)
	if name == "" {
		RespondError(c, http.StatusBadRequest, "name es obligatorio", nil)
		return
	}

	repo := repositories.CatalogRepository{}
	id, err := repo.CreateUnit(name)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "la unidad ya existe", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "no se pudo crear la unidad", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "name": name})
}

// DELETE /api/units/:id
func DeleteUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	repo := repositories.CatalogRepository{}
	if err := repo.DeleteUnit(id); err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusNotFound, "unidad no encontrada", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar la unidad", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unidad eliminada"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return 0, false
	}
	return id, true
}
