package container

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/eventradar/internal/config"
	"github.com/joshua-takyi/eventradar/internal/helpers"
	"github.com/joshua-takyi/eventradar/internal/middleware"
	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/joshua-takyi/eventradar/internal/services"
	"github.com/joshua-takyi/eventradar/internal/session"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Clients are the external connections the container wires into repos. Any
// of them may be nil; the matching feature is then switched off.
type Clients struct {
	SupabaseService *supabase.Client
	SupabasePublic  *supabase.Client
	MongoDB         *mongo.Client
	Cloudinary      *cloudinary.Cloudinary
	Verifier        middleware.TokenVerifier

	// Memory replaces the hosted store when STORE_DRIVER=memory. A nil
	// value gets a fresh store.
	Memory *models.MemoryRepo
	// Now is the clock used by the validator; nil means time.Now.
	Now func() time.Time
}

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Verifier     middleware.TokenVerifier
	EventService *services.EventService
	UserService  *services.UserService
	Sessions     *session.Broker

	unsubscribe func()
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, clients Clients) (*Container, error) {
	domain, err := models.CategoryDomainByName(cfg.CategoryDomain)
	if err != nil {
		return nil, err
	}
	validator := models.NewSchemaValidator(domain, clients.Now)
	logger.Info("event categories configured",
		"domain", validator.Domain().Name,
		"categories", validator.Domain().String(),
	)
	sessions := session.NewBroker()

	var (
		events    models.EventsRepo
		attendees models.AttendanceRepo
		profiles  models.ProfileRepo
		auth      models.AuthRepo
	)
	switch {
	case cfg.StoreDriver == config.DriverMemory || clients.SupabaseService == nil:
		mem := clients.Memory
		if mem == nil {
			mem = models.NewMemoryRepo(nil)
		}
		events, attendees, profiles = mem, mem, mem
	default:
		supa := models.SupabaseNewRepo(clients.SupabaseService, clients.SupabasePublic)
		events, attendees, profiles = supa, supa, supa
		if clients.SupabasePublic != nil {
			auth = supa
		}
	}

	eventService := services.NewEventService(events, attendees, validator, logger).
		WithAccessRules(services.AccessRules{
			Enforce:         cfg.AccessRules,
			AdminOnlyCreate: cfg.AdminOnlyCreate,
		})

	if clients.MongoDB != nil {
		views := models.MongodbNewRepo(clients.MongoDB)
		if err := views.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to ensure event view indexes", "error", err)
		}
		eventService.WithViewTracking(views)
	}
	if clients.Cloudinary != nil {
		eventService.WithImageStore(helpers.NewCloudinaryStore(clients.Cloudinary))
	}

	userService := services.NewUserService(auth, profiles, validator, sessions, logger).
		WithOwnershipChecks(cfg.AccessRules)

	unsubscribe := sessions.Subscribe(func(ev session.Event) {
		logger.Info("session changed",
			"kind", ev.Kind,
			"user_id", ev.UserID,
			"expires_at", ev.ExpiresAt,
		)
	})

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Verifier:     clients.Verifier,
		EventService: eventService,
		UserService:  userService,
		Sessions:     sessions,
		unsubscribe:  unsubscribe,
	}, nil
}

// Close detaches the container's own session listener.
func (c *Container) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}
