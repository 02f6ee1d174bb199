package main

import (
	"github.com/KoboPoint/KoboPoint-Backend/api"
)

var envPath string = "."

func main() {
	server := api.NewServer(envPath)
	server.Start()
}
