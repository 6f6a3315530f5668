package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/text/language"

	"github.com/ZaninAndrea/huffpack/internal/huffman"
	"github.com/ZaninAndrea/huffpack/internal/pipeline"
	"github.com/ZaninAndrea/huffpack/internal/storage"
	"github.com/ZaninAndrea/huffpack/internal/symbols"
	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

func main() {
	var (
		cfg    pipeline.Config
		s3Cfg  storage.S3Config
		mode   string
		layout string
	)

	flag.StringVar(&cfg.Input, "input", "", "input file or s3://bucket/key (or the first argument)")
	flag.StringVar(&cfg.Output, "output", "", "encoded output, defaults to <input>.huff")
	flag.StringVar(&cfg.CodeTable, "codes", "", "code table output, defaults to <input>.codes; a .lz4 suffix compresses it")
	flag.StringVar(&mode, "mode", "chars", "symbol mode: chars or words")
	flag.IntVar(&cfg.Degree, "degree", 4, "number of workers")
	flag.StringVar(&layout, "layout", "partitioned", "bit layout: partitioned or continuous")
	flag.StringVar(&cfg.CatalogDir, "catalog", "", "record the run in the catalog stored in this directory")
	flag.BoolVar(&cfg.Baselines, "baselines", false, "compare with lz4, huff0 and zstd")
	flag.StringVar(&s3Cfg.Region, "s3-region", "", "S3 region")
	flag.StringVar(&s3Cfg.Endpoint, "s3-endpoint", "", "S3 compatible endpoint URL")
	flag.BoolVar(&s3Cfg.PathStyle, "s3-path-style", false, "use path style S3 addressing")
	flag.StringVar(&s3Cfg.AccessKeyID, "s3-access-key", os.Getenv("HUFFPACK_S3_ACCESS_KEY"), "S3 access key id")
	flag.StringVar(&s3Cfg.SecretAccessKey, "s3-secret-key", os.Getenv("HUFFPACK_S3_SECRET_KEY"), "S3 secret access key")
	flag.Parse()

	log := logger.New()
	if cfg.Input == "" && flag.NArg() > 0 {
		cfg.Input = flag.Arg(0)
	}

	if err := run(cfg, s3Cfg, mode, layout, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg pipeline.Config, s3Cfg storage.S3Config, mode, layout string, log logger.Logger) error {
	var err error
	if cfg.Mode, err = symbols.ParseMode(mode); err != nil {
		return err
	}
	if cfg.Layout, err = huffman.ParseLayout(layout); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg.DefaultPaths()
	store := storage.NewLocal(log)
	if usesS3(cfg.Input, cfg.Output, cfg.CodeTable) {
		if store, err = storage.New(ctx, s3Cfg, log); err != nil {
			return err
		}
	}

	rep, err := pipeline.Run(ctx, cfg, store, log)
	if err != nil {
		return err
	}

	return rep.Print(os.Stdout, language.English)
}

func usesS3(uris ...string) bool {
	for _, uri := range uris {
		if strings.HasPrefix(uri, "s3://") {
			return true
		}
	}
	return false
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <input>\n", os.Args[0])
		flag.PrintDefaults()
	}
}
