// internal/app/features/consistency/routes.go
package consistency

import "github.com/go-chi/chi/v5"

// Routes returns a router serving the consistency ops endpoints. Mounted at
// the root so the resource paths read naturally (/cohorts/…, /enrollments).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/consistency/cascade", h.ServeCascade)

	r.Route("/cohorts/{id}", func(r chi.Router) {
		r.Post("/members/{studentID}", h.ServeAddMember)
		r.Delete("/members/{studentID}", h.ServeRemoveMember)
		r.Put("/members", h.ServeSetMembers)
		r.Post("/reconcile", h.ServeReconcileCohort)
	})

	r.Post("/enrollments", h.ServeEnroll)
	r.Post("/reconcile", h.ServeReconcileAll)

	r.Get("/enrollment/courses", h.ServeAllEnrollments)
	r.Get("/enrollment/courses/{id}", h.ServeCourseEnrollment)

	return r
}
