package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/cmd/common"
)

func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "inserts the default metric categories and the sample car",
		Long: `Inserts the default metric categories and the sample car.
Existing entries are kept, running the command again changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			common.SetupLogging()
			common.WaitForServices()
			pool := common.OpenPool()
			defer pool.Close()
			svc, err := common.NewService(pool)
			if err != nil {
				return err
			}
			res, err := svc.Seed(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			log.Info("seed done",
				log.Int("categories", res.Categories),
				log.Bool("sampleCar", res.SampleCar))
			return nil
		},
	}
	return cmd
}
