package main

import (
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/unixpickle/textsign"
	"github.com/unixpickle/textsign/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	scale := flag.Float64("scale", textsign.DefaultConfig().Scale, "millimeters per font unit")
	parts := flag.Bool("parts", true, "write the base and the letters as separate 3MF objects")
	colors := flag.Bool("colors", true, "add per-height colors to 3MF output")
	uuids := flag.Bool("uuids", false, "add production UUIDs to 3MF output")
	debug := flag.Bool("debug", false, "run gin in debug mode")
	flag.Parse()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	base := textsign.DefaultConfig()
	base.Scale = *scale
	base.Parts = *parts
	base.Colors = *colors
	base.UUIDs = *uuids

	engine := server.New(&server.Handler{
		Generator: textsign.NewGenerator(logger),
		Base:      base,
		Logger:    logger,
	})
	logger.Printf("listening on %s", *addr)
	if err := engine.Run(*addr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
