package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pathbinder/archetype-bot/internal/clients/archetypes"
	"github.com/pathbinder/archetype-bot/internal/config"
	"github.com/pathbinder/archetype-bot/internal/handlers/discord"
	"github.com/pathbinder/archetype-bot/internal/notifications"
	"github.com/pathbinder/archetype-bot/internal/repositories/characters"
	"github.com/pathbinder/archetype-bot/internal/repositories/overrides"
	"github.com/pathbinder/archetype-bot/internal/repositories/state"
	"github.com/pathbinder/archetype-bot/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	contentClient, err := archetypes.New(&archetypes.Config{
		BaseURL: cfg.Archetype.BaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create archetype content client: %v", err)
	}

	providerConfig := &services.ProviderConfig{
		ContentClient: contentClient,
		Curators:      cfg.Archetype.Curators,
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client

	log.Printf("Connecting to Redis at: %s", cfg.Redis.Addr)
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
		cancel()
		log.Printf("Failed to connect to Redis: %v", pingErr)
		log.Println("Falling back to in-memory repositories")
		_ = redisClient.Close()
		redisClient = nil
	} else {
		cancel()
		log.Println("Successfully connected to Redis")

		providerConfig.CharacterRepository = characters.NewRedisRepository(&characters.RedisRepoConfig{Client: redisClient})
		providerConfig.StateRepository = state.NewRedisRepository(&state.RedisRepoConfig{Client: redisClient})
		providerConfig.OverrideRepository = overrides.NewRedisRepository(&overrides.RedisRepoConfig{Client: redisClient})

		log.Println("Using Redis for persistence")
	}

	if cfg.Discord.NotifyChannelID != "" {
		providerConfig.Notifier = notifications.NewDiscordNotifier(&notifications.DiscordNotifierConfig{
			Session:   dg,
			ChannelID: cfg.Discord.NotifyChannelID,
		})
	}

	serviceProvider := services.NewProvider(providerConfig)

	handler := discord.NewHandler(&discord.HandlerConfig{
		ArchetypeService: serviceProvider.ArchetypeService,
	})

	dg.AddHandler(handler.HandleInteraction)

	err = dg.Open()
	if err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		clientErr := dg.Close()
		if clientErr != nil {
			log.Printf("Failed to close Discord connection: %v", clientErr)
		}
	}()

	// Use empty string for global commands, or set a specific guild ID for testing
	if err := handler.RegisterCommands(dg, cfg.Discord.GuildID); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}

	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}
