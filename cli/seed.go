package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"styledecor-server/config"
	"styledecor-server/database"
	"styledecor-server/logger"
	"styledecor-server/model"
)

func seedCmd() *cobra.Command {
	var (
		file    string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the service catalog from a YAML or JSON file",
		Long: `Load the service catalog into the services collection.

Examples:
  styledecor-server seed --file services.yaml
  styledecor-server seed --file services.json --replace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := LoadServices(file)
			if err != nil {
				return err
			}

			dbConfig, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			log, err := logger.New("info")
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			store, err := database.Connect(ctx, dbConfig, log)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			inserted, err := store.SeedServices(ctx, services, replace)
			if err != nil {
				return err
			}
			if err := store.EnsureIndexes(ctx); err != nil {
				return err
			}

			log.Info("services seeded", zap.Int("inserted", inserted), zap.Bool("replace", replace))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d services\n", inserted)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the services file")
	cmd.Flags().BoolVar(&replace, "replace", false, "remove existing services first")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// LoadServices reads a list of services. JSON files are accepted since JSON
// is valid YAML. Unknown keys are kept in Service.Extras.
func LoadServices(path string) ([]model.Service, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read services file: %w", err)
	}

	var services []model.Service
	if err := yaml.Unmarshal(raw, &services); err != nil {
		return nil, fmt.Errorf("cannot parse services file %s: %w", path, err)
	}

	for i, service := range services {
		if strings.TrimSpace(service.ServiceName) == "" {
			return nil, fmt.Errorf("service #%d has no serviceName", i+1)
		}
		if service.Price <= 0 {
			return nil, fmt.Errorf("service %q has no positive price", service.ServiceName)
		}
		// ids are always assigned on insert
		delete(services[i].Extras, "_id")
	}
	return services, nil
}
