package main

import (
	"log"

	"github.com/kelseyhightower/envconfig"

	"buildaq/internal/hub"
)

var config struct {
	ListenAddr string `split_words:"true" default:":7350"`
}

func main() {
	if err := envconfig.Process("buildaq", &config); err != nil {
		log.Fatal(err)
	}

	srv := hub.NewServer()
	if err := srv.ListenAndServe(config.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
