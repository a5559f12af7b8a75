package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-gate/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	recognitionHandler := handlers.NewRecognitionHandler(s.engine, s.analyzer)
	enrollHandler := handlers.NewEnrollHandler(s.manager)
	uploadHandler := handlers.NewUploadHandler(s.store)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Recognition: attribute analysis merged with identity resolution,
		// and plain search without attributes. The legacy deployment bound
		// both JSON analysis and multipart upload to one path; here each
		// behavior gets its own route.
		r.Post("/analyze", recognitionHandler.Analyze)
		r.Post("/search", recognitionHandler.Search)

		// Enrollment
		r.Post("/enroll", enrollHandler.Enroll)

		// Raw face file upload (no identity metadata)
		r.Post("/upload", uploadHandler.Upload)
	})
}
