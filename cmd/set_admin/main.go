package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/framevault-backend/internal/app"
	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/envutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

func main() {
	var uid string
	var revoke bool
	flag.StringVar(&uid, "uid", "", "user id whose profile role is changed (required)")
	flag.BoolVar(&revoke, "revoke", false, "demote to user instead of granting admin")
	flag.Parse()

	uid = strings.TrimSpace(uid)
	if uid == "" {
		fmt.Println("usage: set_admin -uid <uid> [-revoke]")
		os.Exit(2)
	}

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := app.OpenStore(ctx, log, envutil.String("DOCSTORE_MODE", app.DocstoreFirestore))
	if err != nil {
		fmt.Printf("open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	role := types.RoleAdmin
	if revoke {
		role = types.RoleUser
	}
	if err := repos.NewProfileRepo(store, log).SetRole(ctx, uid, role); err != nil {
		fmt.Printf("set role: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("users/%s role=%s\n", uid, role)
}
