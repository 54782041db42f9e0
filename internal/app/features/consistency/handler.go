// Package consistency exposes the consistency engine as a JSON ops API.
//
// Tenancy is explicit: every request names its tenant in the X-Tenant-ID
// header and the handlers pass it straight through to the engine. Engine
// operations report expected failures inside their structured result, so
// a partially failed cascade or membership write still answers 200; only
// malformed requests and read errors map to non-2xx statuses.
package consistency

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/UniqBrio/academyhub/internal/app/consistency/cascade"
	"github.com/UniqBrio/academyhub/internal/app/consistency/enrollment"
	"github.com/UniqBrio/academyhub/internal/app/consistency/reconcile"
	"github.com/UniqBrio/academyhub/internal/app/consistency/registry"
	"github.com/UniqBrio/academyhub/internal/app/consistency/rostersync"
	"github.com/UniqBrio/academyhub/internal/app/system/timeouts"
)

// Handler wires the engine components behind HTTP endpoints.
type Handler struct {
	Cascader   *cascade.Cascader
	Sync       *rostersync.Synchronizer
	Sweeper    *reconcile.Sweeper
	Aggregator *enrollment.Aggregator
	Log        *zap.Logger
}

// NewHandler constructs a consistency Handler over the application database.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Cascader:   cascade.New(db, logger),
		Sync:       rostersync.New(db, logger),
		Sweeper:    reconcile.New(db, logger),
		Aggregator: enrollment.New(db),
		Log:        logger,
	}
}

// tenantID extracts the tenant from the request header. Empty means the
// request is malformed; handlers answer 400 before touching the engine.
func tenantID(r *http.Request) string {
	return r.Header.Get("X-Tenant-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

type cascadeRequest struct {
	Entity   string `json:"entity"`
	ID       string `json:"id"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// ServeCascade handles POST /consistency/cascade.
//
// The response is always the structured cascade result; a cascade with
// per-collection errors is still a 200 so the caller's own write (the
// rename that triggered it) is never failed by propagation trouble.
func (h *Handler) ServeCascade(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}

	var req cascadeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.Entity == "" || req.ID == "" {
		badRequest(w, "entity and id are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res := h.Cascader.Cascade(ctx, registry.Entity(req.Entity), req.ID, req.OldValue, req.NewValue, tenant)
	if !res.Success {
		h.Log.Warn("cascade reported errors",
			zap.String("entity", req.Entity),
			zap.String("id", req.ID),
			zap.String("tenant_id", tenant),
			zap.Strings("errors", res.Errors))
	}
	writeJSON(w, http.StatusOK, res)
}

// ServeAddMember handles POST /cohorts/{id}/members/{studentID}.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}
	cohortID := chi.URLParam(r, "id")
	studentID := chi.URLParam(r, "studentID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res := h.Sync.AddToCohort(ctx, cohortID, studentID, tenant)
	h.logMembership("add member", cohortID, studentID, tenant, res)
	writeJSON(w, http.StatusOK, res)
}

// ServeRemoveMember handles DELETE /cohorts/{id}/members/{studentID}.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}
	cohortID := chi.URLParam(r, "id")
	studentID := chi.URLParam(r, "studentID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res := h.Sync.RemoveFromCohort(ctx, cohortID, studentID, tenant)
	h.logMembership("remove member", cohortID, studentID, tenant, res)
	writeJSON(w, http.StatusOK, res)
}

type enrollRequest struct {
	StudentID string `json:"student_id"`
	CohortID  string `json:"cohort_id"`
}

// ServeEnroll handles POST /enrollments. The cohort id may be either the
// canonical id or the legacy batch key.
func (h *Handler) ServeEnroll(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.StudentID == "" || req.CohortID == "" {
		badRequest(w, "student_id and cohort_id are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res := h.Sync.Enroll(ctx, req.StudentID, req.CohortID, tenant)
	h.logMembership("enroll", req.CohortID, req.StudentID, tenant, res)
	writeJSON(w, http.StatusOK, res)
}

type setMembersRequest struct {
	StudentIDs []string `json:"student_ids"`
}

// ServeSetMembers handles PUT /cohorts/{id}/members. The desired list is
// applied as a symmetric difference against the current roster, never as a
// blind overwrite.
func (h *Handler) ServeSetMembers(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}
	cohortID := chi.URLParam(r, "id")

	var req setMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res := h.Sync.SetMembership(ctx, cohortID, req.StudentIDs, tenant)
	h.logMembership("set members", cohortID, "", tenant, res)
	writeJSON(w, http.StatusOK, res)
}

// ServeReconcileCohort handles POST /cohorts/{id}/reconcile.
func (h *Handler) ServeReconcileCohort(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}
	cohortID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res := h.Sweeper.RebuildCohortRoster(ctx, cohortID, tenant)
	writeJSON(w, http.StatusOK, res)
}

// ServeReconcileAll handles POST /reconcile. This sweeps every active cohort
// of the tenant and can run for a while on large tenants.
func (h *Handler) ServeReconcileAll(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Sweep())
	defer cancel()

	res := h.Sweeper.RebuildAllRosters(ctx, tenant)
	writeJSON(w, http.StatusOK, res)
}

// ServeCourseEnrollment handles GET /enrollment/courses/{id}.
func (h *Handler) ServeCourseEnrollment(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}
	courseID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	summary, err := h.Aggregator.CourseEnrollment(ctx, courseID, tenant)
	if err != nil {
		h.Log.Error("course enrollment rollup failed",
			zap.String("course_id", courseID),
			zap.String("tenant_id", tenant),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "enrollment rollup failed"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ServeAllEnrollments handles GET /enrollment/courses.
func (h *Handler) ServeAllEnrollments(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		badRequest(w, "missing X-Tenant-ID header")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	summaries, err := h.Aggregator.AllEnrollments(ctx, tenant)
	if err != nil {
		h.Log.Error("enrollment rollup failed",
			zap.String("tenant_id", tenant),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "enrollment rollup failed"})
		return
	}
	if summaries == nil {
		summaries = []enrollment.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) logMembership(op, cohortID, studentID, tenant string, res rostersync.Result) {
	if res.Success {
		return
	}
	h.Log.Warn(op+" reported errors",
		zap.String("cohort_id", cohortID),
		zap.String("student_id", studentID),
		zap.String("tenant_id", tenant),
		zap.Strings("errors", res.Errors))
}
