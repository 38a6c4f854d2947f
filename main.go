package main

import (
	"booking_backend/startup"
	"booking_backend/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
