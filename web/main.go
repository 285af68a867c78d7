package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	envFile := flag.String("env", ".env", "Optional .env file with RT_* settings")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading config: %v", err)
		os.Exit(1)
	}

	webServer := server.NewServer(server.Options{
		Port:    *port,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
	})

	log.Printf("Sphere Raytracer Web Server (%d workers)", cfg.Workers)
	log.Printf("Try http://localhost:%d/api/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
