package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careplushealth/careplus-backend/api/controllers"
	"github.com/careplushealth/careplus-backend/api/middleware"
	"github.com/careplushealth/careplus-backend/internal/appointments"
	"github.com/careplushealth/careplus-backend/internal/auth"
	"github.com/careplushealth/careplus-backend/internal/consultations"
	"github.com/careplushealth/careplus-backend/internal/doctors"
	"github.com/careplushealth/careplus-backend/internal/faq"
	"github.com/careplushealth/careplus-backend/internal/memberships"
	"github.com/careplushealth/careplus-backend/internal/rightscards"
	"github.com/careplushealth/careplus-backend/pkg/auth/session"
	"github.com/careplushealth/careplus-backend/pkg/config"
	"github.com/careplushealth/careplus-backend/pkg/db"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	"github.com/careplushealth/careplus-backend/pkg/logger"
	"github.com/careplushealth/careplus-backend/pkg/metrics"
	"github.com/careplushealth/careplus-backend/pkg/redis"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Metrics       *metrics.HTTPMetrics
	Sessions      session.AccessSessionChecker
	AuthService   auth.Service
	Register      auth.RegisterService
	Memberships   memberships.Service
	RightsCards   rightscards.Service
	Doctors       doctors.Service
	Appointments  appointments.Service
	Consultations consultations.Service
	FAQ           faq.Service
}

// NewRouter assembles the HTTP surface: public catalog and auth endpoints,
// authenticated patient routes, staff/admin routes, and operational probes.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var cache controllers.Pinger
	var idemStore redis.IdempotencyStore
	if d.Redis != nil {
		cache = d.Redis
		idemStore = d.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, cache, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, logg))
	})

	// Public catalog surface: browsing needs no account.
	r.Get("/api/membership/cards", controllers.MembershipCardsList(d.Memberships, logg))
	r.Get("/api/rights-cards/catalog", controllers.RightsCardsList(d.RightsCards, logg))
	r.Get("/api/doctors", controllers.DoctorsList(d.Doctors, logg))
	r.Get("/api/doctors/{doctorID}", controllers.DoctorGet(d.Doctors, logg))
	r.Get("/api/faq", controllers.FAQList(d.FAQ, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/membership", func(r chi.Router) {
			r.Post("/purchase", controllers.MembershipPurchase(d.Memberships, logg))
			r.Get("/mine", controllers.MembershipsList(d.Memberships, logg))
			r.Post("/{membershipID}/use", controllers.MembershipUseService(d.Memberships, logg))
			r.Post("/{membershipID}/cancel", controllers.MembershipCancel(d.Memberships, logg))
		})

		r.Route("/rights-cards", func(r chi.Router) {
			r.Post("/purchase", controllers.RightsCardPurchase(d.RightsCards, logg))
			r.Get("/mine", controllers.RightsCardsListMine(d.RightsCards, logg))
			r.Post("/{cardID}/activate", controllers.RightsCardActivate(d.RightsCards, logg))
			r.Post("/{cardID}/usage", controllers.RightsCardRecordUsage(d.RightsCards, logg))
			r.Get("/{cardID}/usage", controllers.RightsCardUsageList(d.RightsCards, logg))
			r.Post("/{cardID}/cancel", controllers.RightsCardCancel(d.RightsCards, logg))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", controllers.AppointmentBook(d.Appointments, logg))
			r.Get("/", controllers.AppointmentsList(d.Appointments, logg))
			r.Post("/{appointmentID}/cancel", controllers.AppointmentCancel(d.Appointments, logg))
		})

		r.Route("/consultations", func(r chi.Router) {
			r.Post("/", controllers.ConsultationCreate(d.Consultations, logg))
			r.Get("/", controllers.ConsultationsList(d.Consultations, logg))
			r.Post("/{consultationID}/close", controllers.ConsultationClose(d.Consultations, logg))
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleStaff), logg))
			r.Get("/consultations/open", controllers.ConsultationsOpenQueue(d.Consultations, logg))
			r.Post("/consultations/{consultationID}/reply", controllers.ConsultationReply(d.Consultations, logg))
			r.Post("/appointments/{appointmentID}/complete", controllers.AppointmentComplete(d.Appointments, logg))
			r.Post("/rights-cards/usage/{recordID}/review", controllers.RightsCardUsageReview(d.RightsCards, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Post("/membership/cards", controllers.MembershipCardCreate(d.Memberships, logg))
			r.Post("/rights-cards/catalog", controllers.RightsCardCreate(d.RightsCards, logg))
			r.Post("/doctors", controllers.DoctorCreate(d.Doctors, logg))
			r.Patch("/doctors/{doctorID}", controllers.DoctorUpdate(d.Doctors, logg))
			r.Get("/faq", controllers.FAQAdminList(d.FAQ, logg))
			r.Post("/faq", controllers.FAQCreate(d.FAQ, logg))
			r.Patch("/faq/{entryID}", controllers.FAQUpdate(d.FAQ, logg))
			r.Delete("/faq/{entryID}", controllers.FAQDelete(d.FAQ, logg))
			r.Post("/rights-cards/usage/{recordID}/review", controllers.RightsCardUsageReview(d.RightsCards, logg))
		})
	})

	return r
}
