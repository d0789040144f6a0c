package handlers

import (
	"net/http"
	"strconv"
	"time"

	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
	"carreras/internal/http/middleware"
	"carreras/internal/repositories"
	"carreras/internal/services"
	"carreras/internal/session"
	"carreras/internal/utils"

	"github.com/gin-gonic/gin"
)

// sessions holds every open report session. Sessions live in memory only;
// a restart drops them and the client starts a new one.
var sessions = session.NewManager()

type rangePayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type beginEditPayload struct {
	Kind string `json:"kind" binding:"required"`
	Key  string `json:"key" binding:"required"`
}

func sessionState(sess *session.ReportSession) gin.H {
	from, to := sess.Range()
	out := gin.H{
		"id":         sess.ID,
		"state":      sess.State(),
		"start_date": from,
		"end_date":   to,
	}
	if kind, key, ok := sess.Editing(); ok {
		out["editing"] = gin.H{"kind": kind, "key": key}
	}
	return out
}

func lookupSession(c *gin.Context) (*session.ReportSession, bool) {
	sess, ok := sessions.Get(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "sesión de reporte no encontrada", nil)
		return nil, false
	}
	return sess, true
}

// POST /api/report-sessions
// Without a body the session opens on the current week (Sunday..Saturday).
func CreateReportSession(c *gin.Context) {
	payload := rangePayload{}
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &payload) {
			return
		}
	}
	if payload.StartDate == "" || payload.EndDate == "" {
		from, to := utils.WeekBounds(time.Now())
		payload.StartDate, payload.EndDate = utils.FormatDate(from), utils.FormatDate(to)
	}

	sess := sessions.Create(repositories.RideRepository{})
	if err := sess.ChangeRange(payload.StartDate, payload.EndDate); err != nil {
		sessions.Delete(sess.ID)
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "report_sessions", "create",
		"sesión "+sess.ID+" abierta para "+payload.StartDate+" a "+payload.EndDate)
	c.JSON(http.StatusCreated, sessionState(sess))
}

// GET /api/report-sessions/:id
func GetReportSession(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionState(sess))
}

// PUT /api/report-sessions/:id/range
func UpdateReportSessionRange(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var payload rangePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if err := sess.ChangeRange(payload.StartDate, payload.EndDate); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionState(sess))
}

// DELETE /api/report-sessions/:id
func DeleteReportSession(c *gin.Context) {
	if _, ok := lookupSession(c); !ok {
		return
	}
	sessions.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "sesión cerrada"})
}

// GET /api/report-sessions/:id/report
func GetSessionReport(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	svc := services.ReportService{
		Catalog:   repositories.CatalogRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	report, err := svc.BuildReport(sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/report-sessions/:id/units/:key
func GetSessionUnitDetail(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	key := models.NormalizeKey(c.Param("key"))
	c.JSON(http.StatusOK, gin.H{
		"name":      entityName(key, unitNames()),
		"breakdown": sess.UnitBreakdown(key),
	})
}

// GET /api/report-sessions/:id/providers/:key
func GetSessionProviderDetail(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	key := models.NormalizeKey(c.Param("key"))
	c.JSON(http.StatusOK, gin.H{
		"name":      entityName(key, providerNames()),
		"breakdown": sess.ProviderBreakdown(key),
	})
}

// POST /api/report-sessions/:id/edit
func BeginSessionEdit(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var payload beginEditPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	kind, err := session.ParseEntityKind(payload.Kind)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	draft, err := sess.BeginEdit(kind, models.NormalizeKey(payload.Key))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DELETE /api/report-sessions/:id/edit
func CancelSessionEdit(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	sess.CancelEdit()
	c.JSON(http.StatusOK, sessionState(sess))
}

// PUT /api/report-sessions/:id/edit
func CommitSessionEdit(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var ov settlement.Override
	if !BindJSONOrError(c, &ov) {
		return
	}
	if err := sess.CommitEdit(ov); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "report_sessions", "commit_edit",
		"ajustes guardados en sesión "+sess.ID)
	c.JSON(http.StatusOK, sessionState(sess))
}

// PATCH /api/report-sessions/:id/rides/:rideId/amount
func UpdateSessionRideAmount(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		RespondError(c, http.StatusBadRequest, "id de carrera inválido", err)
		return
	}
	var payload amountPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	amount, err := utils.ParseAmount(payload.Amount)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "monto inválido", err)
		return
	}
	if err := sess.UpdateRideAmount(rideID, amount); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "monto actualizado"})
}

// DELETE /api/report-sessions/:id/rides/:rideId
func DeleteSessionRide(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		RespondError(c, http.StatusBadRequest, "id de carrera inválido", err)
		return
	}
	if err := sess.DeleteRide(rideID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "carrera eliminada"})
}

// GET /api/report-sessions/:id/export/:kind/:key
func ExportSessionPDF(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	kind, err := session.ParseEntityKind(c.Param("kind"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	key := models.NormalizeKey(c.Param("key"))
	from, to := sess.Range()

	svc := services.ReportDocsService{RequestID: middleware.GetRequestID(c)}
	var pdfBytes []byte
	var filename string
	if kind == session.KindUnit {
		pdfBytes, filename, err = svc.GenerateUnitPDF(entityName(key, unitNames()), from, to, sess.UnitBreakdown(key))
	} else {
		pdfBytes, filename, err = svc.GenerateProviderPDF(entityName(key, providerNames()), from, to, sess.ProviderBreakdown(key))
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo generar el PDF", err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// entityName resolves a catalog name for a normalized key. Rides may point
// at entities deleted from the catalog; those fall back to the key itself.
func entityName(key string, names map[string]string) string {
	if name, ok := names[key]; ok && name != "" {
		return name
	}
	return key
}

func unitNames() map[string]string {
	names := map[string]string{}
	units, err := repositories.CatalogRepository{}.ListUnits()
	if err != nil {
		return names
	}
	for _, u := range units {
		names[models.Key(u.ID)] = u.Name
	}
	return names
}

func providerNames() map[string]string {
	names := map[string]string{}
	providers, err := repositories.CatalogRepository{}.ListProviders()
	if err != nil {
		return names
	}
	for _, p := range providers {
		names[models.Key(p.ID)] = p.Name
	}
	return names
}
