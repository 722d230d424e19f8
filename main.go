package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rixeldev/studio-api/config"
	"github.com/rixeldev/studio-api/models"
	"github.com/rixeldev/studio-api/routes"
	"github.com/rixeldev/studio-api/storage"
	"github.com/rixeldev/studio-api/utils"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given password for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Gallery{}, &models.Photo{}, &models.Selection{}, &models.Project{})

	store, err := storage.New(cfg)
	if err != nil {
		utils.Sugar.Fatalf("failed to initialize photo storage: %v", err)
	}

	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
