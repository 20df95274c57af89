package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/certgate/internal/certificate"
	"github.com/youruser/certgate/internal/form"
	"github.com/youruser/certgate/internal/presenter"
	"github.com/youruser/certgate/internal/roster"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		first, last, email, phone string
		photoPath, rosterPath     string
		outDir                    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render certificates to PNG files",
		Long: `Render validates the holder details and writes the certificate PNG into the
output directory. With --roster every row of a CSV file is rendered.`,
		Example: `  certgate render --first Jane --last Doe --email jane@doe.com --phone 9876543210

  certgate render --roster trainees.csv --out ./certificates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			if rosterPath != "" {
				return a.renderRoster(cmd, rosterPath, outDir)
			}
			values := map[string]string{
				form.FirstName: first,
				form.LastName:  last,
				form.Email:     email,
				form.Phone:     phone,
			}
			var photo []byte
			if photoPath != "" {
				b, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("read photo: %w", err)
				}
				photo = b
			}
			return a.renderOne(cmd, values, photo, outDir)
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Optional photo file")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "CSV file with one certificate per row")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides OUTPUT_DIR)")
	return cmd
}

func (a *app) renderOne(cmd *cobra.Command, values map[string]string, photo []byte, outDir string) error {
	res := a.service.Validator().Validate(values)
	if !res.Valid() {
		return fmt.Errorf("invalid form: %s", describe(res))
	}
	req := a.service.NewRequest(values, photo)
	path, err := a.write(cmd, req, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Certificate %s saved to %s\n", req.ID, path)
	return nil
}

func (a *app) renderRoster(cmd *cobra.Command, rosterPath, outDir string) error {
	entries, err := roster.LoadRequests(rosterPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errNoRows
	}
	var failed int
	for _, e := range entries {
		res := a.service.Validator().Validate(e.Values)
		if !res.Valid() {
			failed++
			a.logger.Warn("skipping roster row", zap.Int("line", e.Line), zap.String("errors", describe(res)))
			continue
		}
		photo, err := e.Photo()
		if err != nil {
			failed++
			a.logger.Warn("skipping roster row", zap.Int("line", e.Line), zap.Error(err))
			continue
		}
		req := a.service.NewRequest(e.Values, photo)
		path, err := a.write(cmd, req, outDir)
		if err != nil {
			return fmt.Errorf("line %d: %w", e.Line, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), certificate.ExportSummaryText(*req, path))
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d roster rows were not rendered", failed, len(entries))
	}
	return nil
}

func (a *app) write(cmd *cobra.Command, req *certificate.Request, outDir string) (string, error) {
	export, err := a.service.Render(cmd.Context(), req)
	if err != nil {
		return "", err
	}
	for _, w := range export.Confirmation.Warnings {
		a.logger.Warn(w, zap.String("certificate_id", req.ID))
	}
	return presenter.Save(outDir, export)
}

// describe flattens validation errors into "field: message" pairs.
func describe(res form.Result) string {
	if res.Valid() {
		return ""
	}
	parts := make([]string, 0, len(res.Errors))
	for field, msg := range res.Errors {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

var errNoRows = errors.New("roster has no rows")
