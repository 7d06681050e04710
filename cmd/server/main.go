package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/SiEncan/ArenaKu/internal/api"
	"github.com/SiEncan/ArenaKu/internal/auth"
	"github.com/SiEncan/ArenaKu/internal/repository"
	"github.com/SiEncan/ArenaKu/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}
	database, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer database.Close()
	if err := database.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		log.Fatal("MIDTRANS_SERVER_KEY is required")
	}
	production := os.Getenv("MIDTRANS_ENV") == "production"
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	userRepo := repository.NewUserRepository(database)
	slotRepo := repository.NewSlotRepository(database)
	venueRepo := repository.NewVenueRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	verificationRepo := repository.NewVerificationRepository(database)
	jobRepo := repository.NewJobRepository(database)

	sender := service.NewSenderService()
	gateway := service.NewMidtransGateway(serverKey, production)

	authService := service.NewAuthService(userRepo, jwtSecret)
	userService := service.NewUserService(userRepo, bookingRepo)
	venueService := service.NewVenueService(venueRepo, slotRepo)
	availabilityService := service.NewAvailabilityService(slotRepo, bookingRepo)
	bookingService := service.NewBookingService(bookingRepo, slotRepo, venueRepo)
	paymentService := service.NewPaymentService(bookingRepo, userRepo, bookingService, gateway, sender, serverKey, baseURL)
	verificationService := service.NewVerificationService(verificationRepo, sender)

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService)
	venueHandler := api.NewVenueHandler(venueService)
	bookingHandler := api.NewBookingHandler(bookingService, availabilityService)
	paymentHandler := api.NewPaymentHandler(paymentService)
	verificationHandler := api.NewVerificationHandler(verificationService)

	jobService := service.NewJobService(jobRepo)
	jobService.Start()
	defer jobService.Stop()

	router := mux.NewRouter()

	requireUser := func(h http.HandlerFunc) http.Handler { return auth.RequireUser(jwtSecret, h) }
	requireOwner := func(h http.HandlerFunc) http.Handler { return auth.RequireOwner(jwtSecret, h) }

	// Auth
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Users
	router.Handle("/api/users/{id}", requireUser(userHandler.GetUser)).Methods("GET")
	router.Handle("/api/users/{id}", requireUser(userHandler.UpdateUser)).Methods("PUT")

	// Venues and fields. /owned goes first so it is not captured by {id}.
	router.Handle("/api/venues/owned", requireOwner(venueHandler.ListOwned)).Methods("GET")
	router.HandleFunc("/api/venues", venueHandler.ListVenues).Methods("GET")
	router.Handle("/api/venues", requireOwner(venueHandler.CreateVenue)).Methods("POST")
	router.HandleFunc("/api/venues/{id}", venueHandler.GetVenue).Methods("GET")
	router.Handle("/api/venues/{id}", requireOwner(venueHandler.UpdateVenue)).Methods("PUT")
	router.Handle("/api/venues/{id}", requireOwner(venueHandler.DeleteVenue)).Methods("DELETE")
	router.HandleFunc("/api/venues/{id}/fields", venueHandler.GetVenueFields).Methods("GET")
	router.Handle("/api/fields", requireOwner(venueHandler.CreateField)).Methods("POST")
	router.HandleFunc("/api/fields/{id}", venueHandler.GetField).Methods("GET")
	router.Handle("/api/fields/{id}", requireOwner(venueHandler.UpdateField)).Methods("PUT")
	router.Handle("/api/fields/{id}", requireOwner(venueHandler.DeleteField)).Methods("DELETE")

	// Bookings
	router.HandleFunc("/api/bookings/availability", bookingHandler.CheckAvailability).Methods("GET")
	router.HandleFunc("/api/check-slot-availability", bookingHandler.CheckSlot).Methods("POST")
	router.HandleFunc("/api/bookings/check-pending", bookingHandler.CheckPending).Methods("POST")
	router.HandleFunc("/api/bookings/update", bookingHandler.UpdateBooking).Methods("POST")
	router.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")
	router.HandleFunc("/api/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	router.HandleFunc("/api/bookings/{id}", bookingHandler.DeleteBooking).Methods("DELETE")

	// Payments
	router.HandleFunc("/api/payment", paymentHandler.CreatePayment).Methods("POST")
	router.HandleFunc("/api/payment/confirm", paymentHandler.ConfirmPayment).Methods("POST")
	router.HandleFunc("/api/payment/notification", paymentHandler.HandleNotification).Methods("POST")

	// Guest email verification
	router.HandleFunc("/api/send-verification-email", verificationHandler.SendCode).Methods("POST")
	router.HandleFunc("/api/verify-code", verificationHandler.VerifyCode).Methods("POST")

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler(router)))
}
