package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/framevault-backend/internal/app"
	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/paginate"
	"github.com/yungbote/framevault-backend/internal/platform/envutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

// feed_preview drives the paginator from a terminal: every Enter stands in
// for the "load more" sentinel scrolling into view.
func main() {
	var shorts bool
	var pageSize int
	flag.BoolVar(&shorts, "shorts", false, "page through shorts instead of long-form videos")
	flag.IntVar(&pageSize, "page-size", paginate.DefaultPageSize, "items per page")
	flag.Parse()

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

	kind := types.KindVideos
	if shorts {
		kind = types.KindShorts
	}
	feed := services.NewFeedService(log, repos.NewVideoRepo(store, log), pageSize, pageSize)
	p := paginate.New("feed_preview_"+string(kind), feed.Fetcher(kind), services.VideoKey, pageSize, log)

	shown := 0
	show := func() {
		items := p.Items()
		for _, v := range items[shown:] {
			fmt.Printf("%4d  %-24s %s\n", shown+1, v.ID, v.Title)
			shown++
		}
	}

	if _, err := p.OnSentinelVisible(ctx); err != nil {
		fmt.Printf("load: %v\n", err)
		os.Exit(1)
	}
	show()

	in := bufio.NewScanner(os.Stdin)
	for p.HasMore() {
		fmt.Print("-- Enter for more, Ctrl-D to quit --")
		if !in.Scan() {
			fmt.Println()
			return
		}
		loaded, err := p.OnSentinelVisible(ctx)
		if err != nil {
			fmt.Printf("load: %v\n", err)
			continue
		}
		if loaded {
			show()
		}
	}
	fmt.Printf("end of %s (%d items)\n", kind, shown)
}
