package main

import (
	"log"

	"github.com/DankerMu/Digital-earth-sub001/internal/app"
	"github.com/DankerMu/Digital-earth-sub001/pkg/config"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalln("failed to load config: ", err)
	}

	app.Run(cfg)
}
