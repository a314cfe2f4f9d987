package main

import (
	"log"
	"net/http"
	"time"

	"leadadmin/internal/api"
	"leadadmin/internal/auth"
	"leadadmin/internal/config"
	"leadadmin/internal/models"
	"leadadmin/internal/service"
	"leadadmin/internal/session"
	"leadadmin/internal/store"
	"leadadmin/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	users := store.NewAuthStore(cfg.AuthPath())
	subs := store.NewSubmissionStore(cfg.SubmissionsPath())

	if err := bootstrapAdmin(cfg, users); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	registry := session.NewRegistry(cfg.SessionTTL())
	svc := service.New(users, subs, registry)
	r := api.NewRouter(cfg, svc)

	hsrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTPReadHeaderTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:       time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	log.Printf("listening on %s version=%s users=%d submissions=%d", cfg.ListenAddr, version.Current().Version, len(users.List()), len(subs.List()))
	if err := hsrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}

// bootstrapAdmin provisions a default admin on first run, when auth.json
// is missing or holds no users. Without BOOTSTRAP_ADMIN_PASSWORD a random
// initial credential is generated and logged exactly once.
func bootstrapAdmin(cfg config.Config, users *store.AuthStore) error {
	if len(users.List()) > 0 {
		return nil
	}
	password := cfg.BootstrapAdminPassword
	generated := false
	if password == "" {
		var err error
		if password, err = auth.GeneratePassword(); err != nil {
			return err
		}
		generated = true
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u, err := users.Create(models.User{
		Username:     cfg.BootstrapAdminUsername,
		PasswordHash: hash,
		Name:         cfg.BootstrapAdminName,
		Email:        cfg.BootstrapAdminEmail,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if generated {
		log.Printf("provisioned default admin user=%s initial_password=%s (change it with userctl passwd)", u.Username, password)
	} else {
		log.Printf("provisioned default admin user=%s", u.Username)
	}
	return nil
}
