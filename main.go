package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/korjavin/mathdungeonbot/bot"
	"github.com/korjavin/mathdungeonbot/config"
)

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting MathDungeonBot...")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize and start the bot
	b, err := bot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		if err := b.Close(); err != nil {
			log.Printf("Error closing bot: %v", err)
		}
	}()

	log.Println("Bot initialized successfully")
	b.Start()
}
