package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/festa/internal/assistant"
	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/config"
	"github.com/joshua-takyi/festa/internal/media"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Clients are the external connections opened by main. Any may be nil when
// the configuration does not use it.
type Clients struct {
	Supabase   *supabase.Client
	MongoDB    *mongo.Client
	SQLite     *gorm.DB
	Cloudinary *cloudinary.Cloudinary
}

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	SecureCookies bool
	Origins       []string

	Gate   *auth.Gate
	Issuer *auth.Issuer

	RSVPService     *services.RSVPService
	PhotoService    *services.PhotoService
	PartyService    *services.PartyService
	TimelineService *services.TimelineService
	ChatService     *services.ChatService

	closers []func()
}

// Stores are the four typed content stores.
type Stores struct {
	Guests   *models.GuestStore
	Photos   *models.PhotoStore
	Party    *models.PartyInfoStore
	Timeline *models.TimelineItemStore
}

// Collaborators are the external services the core talks to.
type Collaborators struct {
	Uploader  media.Uploader
	Generator assistant.Generator
	Identity  auth.IdentityProvider
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, clients Clients) (*Container, error) {
	stores, err := NewStores(ctx, cfg, clients)
	if err != nil {
		return nil, err
	}

	persona, err := assistant.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return nil, err
	}

	var collab Collaborators
	var closers []func()

	switch cfg.MediaBackend {
	case config.MediaCloudinary:
		collab.Uploader = media.NewCloudinaryUploader(clients.Cloudinary, media.PhotosFolder)
	case config.MediaSupabase:
		collab.Uploader = media.NewSupabaseUploader(clients.Supabase.Storage, cfg.SupabaseBucket, media.PhotosFolder)
	default:
		logger.Warn("No MEDIA_BACKEND configured, photo uploads are disabled")
	}

	if cfg.LLMAPIKey != "" {
		collab.Generator = assistant.NewOpenAIGenerator(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	} else {
		logger.Warn("No LLM_API_KEY configured, chat will answer with the fallback reply")
	}

	if clients.Supabase != nil {
		repo := models.SupabaseNewRepo(clients.Supabase, cfg.SupabaseURL, cfg.SupabaseAnonKey)
		identity, err := auth.NewSupabaseIdentity(ctx, repo, cfg.SupabaseURL, cfg.SupabaseJWT, logger)
		if err != nil {
			logger.Warn("Identity provider unavailable, admin sign-in limited to the shared secret", "error", err)
		} else {
			collab.Identity = identity
			closers = append(closers, identity.Close)
		}
	}

	c, err := Assemble(cfg, logger, stores, persona, collab)
	if err != nil {
		for _, closeFn := range closers {
			closeFn()
		}
		return nil, err
	}
	c.closers = closers
	return c, nil
}

// Assemble wires services from already built stores and collaborators.
func Assemble(cfg *config.Config, logger *slog.Logger, stores *Stores, persona *assistant.Persona, collab Collaborators) (*Container, error) {
	issuer := auth.NewIssuer([]byte(cfg.AdminTokenKey), cfg.AdminTokenTTL, nil)
	gate := auth.NewGate(collab.Identity, auth.NewSecretMatcher(cfg.AdminSecret, cfg.AdminSecretHash), issuer, logger)

	partyService := services.NewPartyService(stores.Party, logger)
	assembler := assistant.NewAssembler(persona, partyService, logger)
	gateway, err := assistant.NewGateway(collab.Generator, persona.Fallback, cfg.LLMTimeout, logger)
	if err != nil {
		return nil, err
	}

	return &Container{
		Logger:          logger,
		SecureCookies:   cfg.IsProduction(),
		Origins:         cfg.AllowedOrigins,
		Gate:            gate,
		Issuer:          issuer,
		RSVPService:     services.NewRSVPService(stores.Guests, logger),
		PhotoService:    services.NewPhotoService(stores.Photos, collab.Uploader, logger),
		PartyService:    partyService,
		TimelineService: services.NewTimelineService(stores.Timeline, logger),
		ChatService:     services.NewChatService(assembler, gateway, persona.Greeting, logger),
	}, nil
}

// NewStores builds one store per entity kind on the selected backend.
func NewStores(ctx context.Context, cfg *config.Config, clients Clients) (*Stores, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return &Stores{
			Guests:   models.NewStore[models.Guest](models.KindGuest, models.NewMemoryRepository[models.Guest]()),
			Photos:   models.NewStore[models.Photo](models.KindPhoto, models.NewMemoryRepository[models.Photo]()),
			Party:    models.NewStore[models.PartyInfo](models.KindPartyInfo, models.NewMemoryRepository[models.PartyInfo]()),
			Timeline: models.NewStore[models.TimelineItem](models.KindTimelineItem, models.NewMemoryRepository[models.TimelineItem]()),
		}, nil

	case config.StoreSQLite:
		if clients.SQLite == nil {
			return nil, fmt.Errorf("sqlite store selected but no database is open")
		}
		db := clients.SQLite
		return &Stores{
			Guests:   models.NewStore[models.Guest](models.KindGuest, models.NewGormRepository[models.Guest](db)),
			Photos:   models.NewStore[models.Photo](models.KindPhoto, models.NewGormRepository[models.Photo](db)),
			Party:    models.NewStore[models.PartyInfo](models.KindPartyInfo, models.NewGormRepository[models.PartyInfo](db)),
			Timeline: models.NewStore[models.TimelineItem](models.KindTimelineItem, models.NewGormRepository[models.TimelineItem](db)),
		}, nil

	case config.StoreSupabase:
		if clients.Supabase == nil {
			return nil, fmt.Errorf("supabase store selected but no client is open")
		}
		su := models.SupabaseNewRepo(clients.Supabase, "", "")
		return &Stores{
			Guests:   models.NewStore[models.Guest](models.KindGuest, models.NewSupabaseRepository[models.Guest](su, models.Guest{}.TableName())),
			Photos:   models.NewStore[models.Photo](models.KindPhoto, models.NewSupabaseRepository[models.Photo](su, models.Photo{}.TableName())),
			Party:    models.NewStore[models.PartyInfo](models.KindPartyInfo, models.NewSupabaseRepository[models.PartyInfo](su, models.PartyInfo{}.TableName())),
			Timeline: models.NewStore[models.TimelineItem](models.KindTimelineItem, models.NewSupabaseRepository[models.TimelineItem](su, models.TimelineItem{}.TableName())),
		}, nil

	case config.StoreMongo:
		return newMongoStores(ctx, clients.MongoDB, cfg.MongoDBDatabase)

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func newMongoStores(ctx context.Context, client *mongo.Client, dbName string) (*Stores, error) {
	if client == nil {
		return nil, fmt.Errorf("mongo store selected but no client is open")
	}
	mdb := models.MongodbNewRepo(client, dbName)
	if err := mdb.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	guests, err := models.NewMongoRepository[models.Guest](mdb, models.Guest{}.TableName())
	if err != nil {
		return nil, err
	}
	photos, err := models.NewMongoRepository[models.Photo](mdb, models.Photo{}.TableName())
	if err != nil {
		return nil, err
	}
	party, err := models.NewMongoRepository[models.PartyInfo](mdb, models.PartyInfo{}.TableName())
	if err != nil {
		return nil, err
	}
	timeline, err := models.NewMongoRepository[models.TimelineItem](mdb, models.TimelineItem{}.TableName())
	if err != nil {
		return nil, err
	}

	return &Stores{
		Guests:   models.NewStore[models.Guest](models.KindGuest, guests),
		Photos:   models.NewStore[models.Photo](models.KindPhoto, photos),
		Party:    models.NewStore[models.PartyInfo](models.KindPartyInfo, party),
		Timeline: models.NewStore[models.TimelineItem](models.KindTimelineItem, timeline),
	}, nil
}

// Close releases collaborator resources. Client connections are closed by
// their owner.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}
