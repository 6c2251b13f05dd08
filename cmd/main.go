package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/application/services"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/infrastructure/adapters"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/controllers"
	"github.com/Cyr-Ch/filmmaker/middleware"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

const (
	workerPoolSize  = 120
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	zeroLogger := adapters.NewZerologWrapper(cfg.Log)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(workerPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	contentFetcher := adapters.NewContentFetcher(&http.Client{Timeout: 5 * time.Minute}, zeroLogger)
	commandRunner := adapters.NewExecCommandRunner(zeroLogger)

	textCompletion := adapters.NewOpenAITextCompletion(cfg.Gpt, zeroLogger)
	scriptStreamer := adapters.NewGptScriptStreamer(cfg.Gpt, workerPool, zeroLogger)
	videoGenerator := adapters.NewReplicateVideoGenerator(contentFetcher, cfg.Replicate, zeroLogger)
	stockSearch := adapters.NewPexelsStockSearch(contentFetcher, cfg.Pexels, zeroLogger)
	speechSynthesizer := adapters.NewElevenLabsSpeechSynthesizer(contentFetcher, cfg.ElevenLabs, zeroLogger)
	segmentMuxer := adapters.NewFFmpegSegmentMuxer(commandRunner, cfg.Pipeline, zeroLogger)
	videoConcatenate := adapters.NewFFmpegVideoConcatenate(commandRunner, cfg.Pipeline, zeroLogger)

	slideshowFallback, err := adapters.NewSlideshowFallback(commandRunner, cfg.Pipeline, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the fallback video generator")
	}

	videoPublisher, renderLedger := newAWSAdapters(cfg, zeroLogger)

	styleResolver := services.NewStyleResolver(cfg.Styles)
	segmenter := services.NewSegmenter(zeroLogger, textCompletion)
	promptAnnotator := services.NewPromptAnnotator(zeroLogger, textCompletion)
	mediaSynthesizer := services.NewMediaSynthesizer(zeroLogger, videoGenerator, stockSearch, contentFetcher, cfg.Replicate)
	narrator := services.NewNarrator(zeroLogger, speechSynthesizer)
	sceneProcessor := services.NewSceneProcessor(zeroLogger, mediaSynthesizer, narrator, segmentMuxer, cfg.Pipeline)

	videoPipeline := services.NewVideoPipeline(zeroLogger, services.VideoPipelineDeps{
		Styles:       styleResolver,
		Segmenter:    segmenter,
		Annotator:    promptAnnotator,
		Processor:    sceneProcessor,
		Concatenator: videoConcatenate,
		Fallback:     slideshowFallback,
	}, cfg.Pipeline)

	renderPublisher := services.NewRenderPublisher(zeroLogger, videoPublisher, renderLedger)
	scriptWriter := services.NewScriptWriter(zeroLogger, scriptStreamer, textCompletion, cfg.Pipeline)

	var renderJobs inbound.RenderJobsPort
	if cfg.Redis.Enabled() {
		rdb, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		defer rdb.Close()

		renderJobs = services.NewRenderJobs(zeroLogger, workerPool, services.RenderJobsDeps{
			Queue:     adapters.NewRedisJobQueue(rdb, zeroLogger),
			Statuses:  adapters.NewRedisJobStatusStore(rdb, zeroLogger),
			Pipeline:  videoPipeline,
			Publisher: renderPublisher,
		}, cfg.Pipeline)

		if err := renderJobs.StartWorkers(ctx, cfg.Pipeline.JobWorkers); err != nil {
			log.Fatal().Err(err).Msg("Failed to start render workers")
		}
	} else {
		zeroLogger.Info("REDIS_URL is not set, render jobs are disabled")
	}

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.Use(middleware.CORSMiddleware(cfg.Server.CorsOrigin))
	router.Static("/files", cfg.Pipeline.FilesDir)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	controllers.NewStylesController(styleResolver).RegisterRoutes(api)

	protected := api.Group("")
	if cfg.Server.AuthEnabled() {
		authHandler, err := middleware.NewAuthHandler(cfg.Server.JwksUrl, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		protected.Use(authHandler.AuthMiddleware())
	} else {
		zeroLogger.Warn("JWKS_URL is not set, the API is not authenticated")
	}

	controllers.NewScriptController(zeroLogger, scriptWriter).RegisterRoutes(protected)
	controllers.NewVideoController(zeroLogger, videoPipeline, renderPublisher, cfg.Pipeline).RegisterRoutes(protected)
	controllers.NewJobsController(zeroLogger, renderJobs, cfg.Pipeline).RegisterRoutes(protected)

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zeroLogger.Error(err, "Failed to shut down the server")
		}
	}()

	zeroLogger.InfoWithFields("Server listening", map[string]interface{}{
		"addr": server.Addr,
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

// newAWSAdapters returns nil ports for the services that are not configured.
func newAWSAdapters(cfg *config.Config, logger outbound.LoggerPort) (outbound.VideoPublisherPort, outbound.RenderLedgerPort) {
	if !cfg.S3.Enabled() && !cfg.Dynamo.Enabled() {
		return nil, nil
	}

	options := session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}
	if cfg.S3.Region != "" {
		options.Config = aws.Config{Region: aws.String(cfg.S3.Region)}
	}
	sess, err := session.NewSessionWithOptions(options)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create aws session")
	}

	var (
		publisher outbound.VideoPublisherPort
		ledger    outbound.RenderLedgerPort
	)
	if cfg.S3.Enabled() {
		publisher = adapters.NewS3VideoPublisher(s3.New(sess), cfg.S3, logger)
	}
	if cfg.Dynamo.Enabled() {
		ledger = adapters.NewDynamoRenderLedger(dynamodb.New(sess), cfg.Dynamo, logger)
	}
	return publisher, ledger
}

func newRedisClient(ctx context.Context, redisConfig *config.RedisConfig) (*redis.Client, error) {
	options := &redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	}
	if strings.HasPrefix(redisConfig.Addr, "redis://") || strings.HasPrefix(redisConfig.Addr, "rediss://") {
		parsed, err := redis.ParseURL(redisConfig.Addr)
		if err != nil {
			return nil, err
		}
		options = parsed
	}

	rdb := redis.NewClient(options)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
