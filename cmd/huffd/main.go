package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/gin-gonic/gin"

	"github.com/ZaninAndrea/huffpack/internal/catalog"
	"github.com/ZaninAndrea/huffpack/internal/server"
	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	degree := flag.Int("degree", runtime.NumCPU(), "workers per request")
	maxBody := flag.Int64("max-body", 32<<20, "maximum request body in bytes")
	catalogDir := flag.String("catalog", "", "record runs in the catalog stored in this directory")
	flag.Parse()

	logg := logger.New()

	var runs *catalog.Catalog
	if *catalogDir != "" {
		var err error
		runs, err = catalog.Open(*catalogDir, logg)
		if err != nil {
			log.Fatal(err)
		}
		defer runs.Close()
	}

	r := gin.Default()
	server.Register(r, server.Dependencies{
		EncodeHandler: server.NewEncodeHandler(*degree, *maxBody, runs, logg),
	})

	log.Printf("starting server at %s\n", *addr)
	if err := r.Run(*addr); err != nil {
		log.Fatal(err)
	}
}
