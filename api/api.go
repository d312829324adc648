package api

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName: "internship-api",
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run blocks serving requests until SIGINT or SIGTERM, then drains in-flight
// requests before returning. The deferred teardown in app.SetupAndRunServer
// (cron stop, cache and DB close) runs after the drain completes, so no
// request loses its database connection mid-flight.
func (s *APIServer) Run() error {
	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down API server...")
		shutdownErr <- s.app.Shutdown()
	}()

	log.Println("Starting API Server")
	log.Printf("Listening on %s", s.listenAddress)

	if err := s.app.Listen(s.listenAddress); err != nil {
		return err
	}
	// Listen returns nil only after Shutdown has been invoked
	return <-shutdownErr
}
