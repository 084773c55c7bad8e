package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/credseal/internal/config"
	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/http/api"
	"github.com/dropDatabas3/credseal/internal/keys"
	"github.com/dropDatabas3/credseal/internal/observability/logger"
	"github.com/dropDatabas3/credseal/internal/pipeline"
	"github.com/dropDatabas3/credseal/internal/qr"
)

func main() {
	configPath := flag.String("config", "", "ruta a config.yaml (si vacío: solo env)")
	envFile := flag.String("env-file", ".env", "ruta a .env")
	flag.Parse()

	if *envFile != "" {
		_ = godotenv.Load(*envFile)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		// logger todavía no inicializado
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "credseal-svc",
	})
	defer logger.Sync()
	log := logger.Named("main")

	// Schema roto = error de configuración: el servicio no arranca.
	// Nunca degradar a un validador always-valid.
	schema, err := credential.NewSchema()
	if err != nil {
		log.Fatal("schema unavailable, refusing to start", logger.Err(err))
	}

	store, err := keys.NewFSStore(cfg.Keys.Dir, cfg.Keys.Namespace)
	if err != nil {
		log.Fatal("keystore", logger.Err(err))
	}

	// Bootstrap: si no hay clave activa, generar una (operación de setup,
	// fuera del hot path; RSA grande puede tardar ~10s).
	mat, err := store.Active()
	if errors.Is(err, keys.ErrNoActiveKey) {
		alg, perr := keys.ParseAlgorithm(cfg.Keys.Algorithm)
		if perr != nil {
			log.Fatal("keys.algorithm", logger.Err(perr))
		}
		log.Info("no active key, generating", logger.Algorithm(string(alg)))
		mat, err = keys.Generate(alg, cfg.Keys.Namespace)
		if err == nil {
			err = store.Save(mat)
		}
	}
	if err != nil {
		log.Fatal("signing key", logger.Err(err))
	}

	level, err := qr.ParseLevel(cfg.Barcode.ECLevel)
	if err != nil {
		log.Fatal("barcode.ec_level", logger.Err(err))
	}

	pipe := pipeline.New(schema, mat, pipeline.WithLevel(level))
	handler := api.NewHandler(pipe)

	log.Info("service ready",
		logger.KID(mat.KID),
		logger.Algorithm(string(mat.Alg)),
		logger.ECLevel(string(level)))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server", logger.Err(err))
	}
}
