package data

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/cmd/common"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

var sessionArg string

func NewDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "csv export and import of performance data",
	}
	cmd.PersistentFlags().StringVar(&sessionArg, "session", "", "session id")
	_ = cmd.MarkPersistentFlagRequired("session")
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	return cmd
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "writes the data points of a session as csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(sessionArg)
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				buf := bufio.NewWriter(f)
				defer buf.Flush()
				w = buf
			}
			return withService(func(svc *service.Service) error {
				n, err := svc.ExportDataPoints(cmd.Context(), id, w)
				if err != nil {
					return err
				}
				log.Info("exported data points", log.Int("rows", n))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import file.csv",
		Short: "logs the rows of a csv file into an active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(sessionArg)
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return withService(func(svc *service.Service) error {
				res, err := svc.ImportDataPoints(cmd.Context(), id, f)
				if err != nil {
					return err
				}
				log.Info("imported data points", log.Int("rows", res.Imported))
				return nil
			})
		},
	}
	return cmd
}

func withService(fn func(svc *service.Service) error) error {
	common.SetupLogging()
	common.WaitForServices()
	pool := common.OpenPool()
	defer pool.Close()
	svc, err := common.NewService(pool)
	if err != nil {
		return err
	}
	return fn(svc)
}
