package main

import (
	"github.com/harsh17-bit/Urban-Stay-sub001/startup"
	"github.com/harsh17-bit/Urban-Stay-sub001/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
