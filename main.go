// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"tutorhive/config"
	"tutorhive/cron"
	"tutorhive/database"
	leaveNoticeRepo "tutorhive/database/repository/leavenotice"
	lessonRepo "tutorhive/database/repository/lesson"
	notificationRepo "tutorhive/database/repository/notification"
	slotRepo "tutorhive/database/repository/slot"
	userRepoPkg "tutorhive/database/repository/user"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/handlers"
	"tutorhive/middleware"
	"tutorhive/realtime"
	"tutorhive/routes"
	"tutorhive/services/booking"
	"tutorhive/services/cancellation"
	"tutorhive/services/meeting"
	"tutorhive/services/notification"
	"tutorhive/services/payment"
	"tutorhive/services/schedule"
	"tutorhive/services/tasks"
	"tutorhive/services/user"
	"tutorhive/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	slots := slotRepo.NewMongoSlotRepo()
	lessons := lessonRepo.NewMongoLessonRepo()
	wallets := walletRepo.NewMongoWalletRepo()
	users := userRepoPkg.NewMongoUserRepo()
	notices := leaveNoticeRepo.NewMongoLeaveNoticeRepo()
	notifications := notificationRepo.NewMongoNotificationRepo()
	ensureIndexes(logger, slots, lessons, wallets, users, notices, notifications)

	// Live push plumbing.
	registry := realtime.NewConnectionRegistry()
	gateway := realtime.NewGateway(registry)

	// Services.
	fanout := &notification.DefaultFanoutService{
		Repo:     notifications,
		Users:    users,
		Registry: registry,
		FCM:      utils.FCMClient,
		Logger:   logger,
	}

	scheduleService := &schedule.DefaultScheduleService{
		Slots:   slots,
		Lessons: lessons,
		Logger:  logger,
	}

	meetingService := meeting.NewGoogleMeetingService()
	reminderQueue := tasks.NewReminderQueue(logger)

	bookingService := &booking.DefaultBookingService{
		Slots:     slots,
		Lessons:   lessons,
		Wallets:   wallets,
		Users:     users,
		Calendar:  scheduleService,
		Meetings:  meetingService,
		Notifier:  fanout,
		Reminders: reminderQueue,
		Logger:    logger,
	}

	cancellationService := &cancellation.DefaultCancellationService{
		Lessons:  lessons,
		Slots:    slots,
		Wallets:  wallets,
		Notices:  notices,
		Notifier: fanout,
		Logger:   logger,
	}

	topUpService := &payment.StripeTopUpService{
		Wallets: wallets,
		Logger:  logger,
	}

	userService := &user.DefaultUserService{
		Repo:    users,
		Wallets: wallets,
		Logger:  logger,
	}

	// Background workers.
	cron.InitReminderWorker(fanout)
	cron.InitWalletSweep(wallets)

	// Handlers.
	handlerBundle := &routes.Handlers{
		User:         handlers.NewUserHandler(userService, users, logger),
		Booking:      handlers.NewBookingHandler(bookingService, logger),
		Schedule:     handlers.NewScheduleHandler(scheduleService, logger),
		LeaveNotice:  handlers.NewLeaveNoticeHandler(cancellationService, logger),
		Wallet:       handlers.NewWalletHandler(wallets, topUpService, logger),
		Notification: handlers.NewNotificationHandler(fanout, logger),
		Calendar:     handlers.NewCalendarHandler(meetingService, users, logger),
		Gateway:      gateway,
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Block until an interrupt, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := reminderQueue.Close(); err != nil {
		logger.Warn("reminder queue close failed", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

type indexEnsurer interface {
	EnsureIndexes() error
}

func ensureIndexes(logger *zap.Logger, repos ...indexEnsurer) {
	for _, repo := range repos {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}
}
