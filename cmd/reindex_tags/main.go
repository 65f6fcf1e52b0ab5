package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/framevault-backend/internal/app"
	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/envutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

func main() {
	var kindFlag string
	var pageSize int
	var dryRun bool
	flag.StringVar(&kindFlag, "kind", "videos", "videos or shorts")
	flag.IntVar(&pageSize, "page-size", 50, "videos fetched per page")
	flag.BoolVar(&dryRun, "dry-run", false, "print the tag set without writing")
	flag.Parse()

	kind, ok := types.ParseKind(kindFlag)
	if !ok {
		fmt.Printf("invalid -kind %q (want videos or shorts)\n", kindFlag)
		os.Exit(2)
	}

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	store, err := app.OpenStore(ctx, log, envutil.String("DOCSTORE_MODE", app.DocstoreFirestore))
	if err != nil {
		fmt.Printf("open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	indexer := services.NewTagIndexer(log, store, repos.NewVideoRepo(store, log), repos.NewTagRepo(store, log), pageSize)
	res, err := indexer.Reindex(ctx, kind, dryRun)
	if err != nil {
		fmt.Printf("reindex: %v\n", err)
		os.Exit(1)
	}

	prefix := ""
	if res.DryRun {
		prefix = "[dry-run] "
	}
	fmt.Printf("%s%s: %d videos over %d pages, %d tags\n", prefix, res.Kind, res.Videos, res.Pages, len(res.Tags))
	if len(res.Tags) > 0 {
		fmt.Println(strings.Join(res.Tags, ", "))
	}
}
