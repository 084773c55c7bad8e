package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/credseal/internal/config"
	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/encode"
	"github.com/dropDatabas3/credseal/internal/keys"
	"github.com/dropDatabas3/credseal/internal/pipeline"
	"github.com/dropDatabas3/credseal/internal/qr"
	"github.com/dropDatabas3/credseal/internal/token"
)

type app struct {
	cfg    *config.Config
	schema *credential.Schema
	store  *keys.FSStore
}

func main() {
	var (
		configPath string
		envFile    string
	)

	var a app

	root := &cobra.Command{
		Use:           "credseal",
		Short:         "Firma, codifica y verifica credenciales sanitarias (barcode base45)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
			var err error
			if configPath != "" {
				a.cfg, err = config.Load(configPath)
			} else {
				a.cfg, err = config.LoadFromEnv()
			}
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			// Schema roto = error de configuración, nunca "always valid".
			a.schema, err = credential.NewSchema()
			if err != nil {
				return fmt.Errorf("schema: %w", err)
			}
			a.store, err = keys.NewFSStore(a.cfg.Keys.Dir, a.cfg.Keys.Namespace)
			if err != nil {
				return fmt.Errorf("keystore: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "ruta a config.yaml (si vacío: solo env)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "ruta a .env")

	root.AddCommand(a.signCmd(), a.verifyCmd(), a.keygenCmd(), a.keysCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// signCmd: record JSON (archivo o stdin) → payload base45 + versión QR.
func (a *app) signCmd() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "sign [record.json]",
		Short: "Valida, firma y codifica un record a barcode string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args)
			if err != nil {
				return err
			}
			var rec credential.Record
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("parse record: %w", err)
			}

			mat, err := a.store.Active()
			if err != nil {
				return fmt.Errorf("active key: %w", err)
			}

			ec, err := qr.ParseLevel(levelOr(level, a.cfg.Barcode.ECLevel))
			if err != nil {
				return err
			}

			p := pipeline.New(a.schema, mat, pipeline.WithLevel(ec))
			res, err := p.ToBarcodeString(rec)
			if err != nil {
				if v := pipeline.Violations(err); v != nil {
					return fmt.Errorf("%w\n  - %s", err, strings.Join(v, "\n  - "))
				}
				return err
			}

			return json.NewEncoder(os.Stdout).Encode(res)
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "nivel de corrección de errores: L|M|Q|H (default: config)")
	return cmd
}

// verifyCmd: payload base45 (arg o stdin) → record verificado en JSON.
// Resuelve el material por el kid del token, incluyendo claves retiradas.
func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [payload]",
		Short: "Decodifica y verifica un barcode string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload string
			if len(args) == 1 {
				payload = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				payload = strings.TrimSpace(string(data))
			}

			// Resolver el kid sin confiar todavía en nada del token.
			compressed, err := encode.DecodeBase45(payload)
			if err != nil {
				return err
			}
			signed, err := encode.Inflate(compressed)
			if err != nil {
				return err
			}
			kid, err := token.PeekKID(signed)
			if err != nil {
				return err
			}
			mat, err := a.store.ByKID(kid)
			if err != nil {
				return err
			}

			p := pipeline.New(a.schema, mat)
			rec, err := p.FromBarcodeString(payload)
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(rec)
		},
	}
}

// keygenCmd genera material nuevo y lo guarda como activo (la clave
// activa anterior pasa a retired). Puede tardar varios segundos con RSA.
func (a *app) keygenCmd() *cobra.Command {
	var algFlag string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Genera material de firma nuevo y lo activa",
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := keys.ParseAlgorithm(algOr(algFlag, a.cfg.Keys.Algorithm))
			if err != nil {
				return err
			}
			mat, err := keys.Generate(alg, a.cfg.Keys.Namespace)
			if err != nil {
				return err
			}
			if err := a.store.Save(mat); err != nil {
				return err
			}
			fmt.Printf("generated %s key\nkid=%s\n", mat.Alg, mat.KID)
			return nil
		},
	}
	cmd.Flags().StringVar(&algFlag, "alg", "", "algoritmo: RS256|RS384|RS512|ES256 (default: config)")
	return cmd
}

func (a *app) keysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Gestión del keystore",
	}

	keysCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista el material del keystore",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.store.List()
			if err != nil {
				return err
			}
			for _, m := range all {
				fmt.Printf("%s\t%s\t%s\n", m.KID, m.Alg, m.Status)
			}
			return nil
		},
	})

	keysCmd.AddCommand(&cobra.Command{
		Use:   "retire <kid>",
		Short: "Marca una clave como retirada (sigue verificando tokens viejos)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Retire(args[0])
		},
	})

	return keysCmd
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func levelOr(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}

func algOr(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}
