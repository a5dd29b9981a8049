package main

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/you/shop-backoffice/internal/emailverify"
	"github.com/you/shop-backoffice/internal/mail"
	"github.com/you/shop-backoffice/internal/otp"
	"github.com/you/shop-backoffice/internal/repository"
	"github.com/you/shop-backoffice/internal/service"
	"github.com/you/shop-backoffice/internal/storage"
	transport "github.com/you/shop-backoffice/internal/transport/http"
	"github.com/you/shop-backoffice/internal/transport/http/handlers"
	"github.com/you/shop-backoffice/pkg/config"
	"github.com/you/shop-backoffice/pkg/db"
	"github.com/you/shop-backoffice/pkg/mq"
	"github.com/you/shop-backoffice/pkg/obs"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	if cfg.OTLPEndpoint != "" {
		shutdown := obs.InitTracer("shop-backoffice")
		defer func() { _ = shutdown(ctx) }()
	}

	gdb := db.Open(cfg.PGShopDSN)
	userRepo := repository.NewUserRepo(gdb)
	productRepo := repository.NewProductRepo(gdb)
	orderRepo := repository.NewOrderRepo(gdb)
	for _, m := range []interface{ Migrate() error }{userRepo, productRepo, orderRepo} {
		if err := m.Migrate(); err != nil {
			log.Fatal(err)
		}
	}

	otpTTL := time.Duration(cfg.OTPTTLSeconds) * time.Second
	var pending otp.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pending = otp.NewRedisStore(rdb, otpTTL)
	} else {
		mem := otp.NewMemoryStore()
		mem.StartSweeper(ctx, otpTTL)
		pending = mem
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		mailer = mail.NewConsole()
	}

	var verifier emailverify.Verifier
	if cfg.EmailVerifyURL != "" {
		verifier = emailverify.NewHTTP(cfg.EmailVerifyURL, cfg.EmailVerifyKey)
	} else {
		verifier = emailverify.NewSyntax()
	}

	images, err := storage.NewS3(ctx, storage.S3Config{
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatal(err)
	}

	var pub *mq.Publisher
	if cfg.RabbitURL != "" {
		pub, err = mq.NewPublisher(cfg.RabbitURL, cfg.Exchange)
		if err != nil {
			// events are best-effort; the API works without them
			log.Printf("mq publisher unavailable: %v", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}
	// a nil *Publisher inside a non-nil interface would dodge the services'
	// nil checks
	var eventPub service.Publisher
	if pub != nil {
		eventPub = pub
	}

	authSvc := service.NewAuthSvc(userRepo, pending, mailer, verifier, eventPub,
		otpTTL,
		time.Duration(cfg.JWTExpireHr)*time.Hour,
		time.Duration(cfg.ResetExpireHr)*time.Hour,
		cfg.ResetBaseURL)
	productSvc := service.NewProductSvc(productRepo)
	orderSvc := service.NewOrderSvc(orderRepo, eventPub)
	statsSvc := service.NewStatsSvc(productRepo, orderRepo, userRepo)

	r := transport.NewRouter(transport.Handlers{
		Auth:    handlers.NewAuthHandler(authSvc),
		Product: handlers.NewProductHandler(productSvc, images),
		Order:   handlers.NewOrderHandler(orderSvc),
		Stats:   handlers.NewStatsHandler(statsSvc),
	})

	log.Println("shop-backoffice on", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
