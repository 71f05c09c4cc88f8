package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"gestaorh-checkout-api/checkout"
	"gestaorh-checkout-api/config"
	"gestaorh-checkout-api/handlers"
	"gestaorh-checkout-api/middleware"
	"gestaorh-checkout-api/queue"
	"gestaorh-checkout-api/services/address"
	"gestaorh-checkout-api/services/auth"
	"gestaorh-checkout-api/services/email"
	"gestaorh-checkout-api/services/payment"
	"gestaorh-checkout-api/services/payment/pagarme"
	"gestaorh-checkout-api/services/subscription"
	"gestaorh-checkout-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

	numCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(numCPU)
	log.Printf("Server starting with %d CPUs available", numCPU)

	cfg := config.Load()

	jobQueue, err := queue.NewQueue(cfg.Redis.URL, "checkout_jobs")
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer jobQueue.Close()
	log.Println("Successfully connected to Redis")

	store := checkout.NewRedisStore(jobQueue.Client())

	addressClient := address.NewClient(cfg.ViaCEP.BaseURL)
	autofill := address.NewAutoFill(addressClient, address.DebounceDelay)

	pagarmeClient := pagarme.NewClient(cfg.Pagarme.BaseURL, cfg.Pagarme.PublicKey)
	subscriptionClient := subscription.NewClient(cfg.Billing.BaseURL, cfg.Billing.APIKey)
	paymentService := payment.NewService(pagarmeClient, subscriptionClient)

	emailService := email.NewSMTPService(cfg.SMTP)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer)

	workerConcurrency := cfg.Redis.WorkerConcurrency
	if workerConcurrency < 2 {
		workerConcurrency = 2
	} else if workerConcurrency > 8 {
		workerConcurrency = 8
	}

	emailWorker := worker.NewWorker(jobQueue, emailService)
	emailWorker.Start(workerConcurrency)
	defer emailWorker.Stop()
	log.Printf("Started email worker with %d threads", workerConcurrency)

	rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer rateLimiter.Close()

	cookieStore := sessions.NewCookieStore([]byte(cfg.Session.CookieKey))

	orchestrator := checkout.NewOrchestrator(store, paymentService, jobQueue)
	checkoutHandler := handlers.NewCheckoutHandler(store, orchestrator, autofill, cookieStore)
	addressHandler := handlers.NewAddressHandler(addressClient)
	planHandler := handlers.NewPlanHandler()

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	router.Use(rateLimiter.RateLimitMiddleware())

	api := router.PathPrefix("/api").Subrouter()

	// Endpoints públicos
	api.HandleFunc("/plans", planHandler.GetPlans).Methods("GET", "OPTIONS")
	api.HandleFunc("/address/{cep}", addressHandler.GetAddress).Methods("GET", "OPTIONS")

	// Assistente de contratação, atrás do login do portal
	checkoutRouter := api.PathPrefix("/checkout").Subrouter()
	checkoutRouter.Use(middleware.AuthMiddleware(jwtService))
	checkoutRouter.HandleFunc("/start", checkoutHandler.StartCheckout).Methods("POST", "OPTIONS")
	checkoutRouter.HandleFunc("/session", checkoutHandler.GetSession).Methods("GET", "OPTIONS")
	checkoutRouter.HandleFunc("/customer", checkoutHandler.UpdateCustomer).Methods("PUT", "OPTIONS")
	checkoutRouter.HandleFunc("/payment", checkoutHandler.UpdatePayment).Methods("PUT", "OPTIONS")
	checkoutRouter.HandleFunc("/next", checkoutHandler.NextStep).Methods("POST", "OPTIONS")
	checkoutRouter.HandleFunc("/back", checkoutHandler.PrevStep).Methods("POST", "OPTIONS")
	checkoutRouter.HandleFunc("/submit", checkoutHandler.SubmitOrder).Methods("POST", "OPTIONS")

	startTime := time.Now()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Redis     string `json:"redis"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Redis:     "connected",
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer redisCancel()

		if err := jobQueue.Client().Ping(redisCtx).Err(); err != nil {
			health.Status = "degraded"
			health.Redis = "error"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second, // submit segura a conexão durante as duas fases
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stop
	log.Println("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Stopping email worker...")
	emailWorker.Stop()

	time.Sleep(2 * time.Second)

	log.Println("Closing Redis connections...")
	jobQueue.Close()
	rateLimiter.Close()

	log.Println("Server exited properly")
}
