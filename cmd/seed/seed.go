// Package seed provides the seed command, which fills an empty catalog with
// a starter rig.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/runtime"
)

// Command creates and returns the seed command
func Command(rc *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the catalog with starter data",
		Long:  `Seed creates the database if needed and adds a Celestion Vintage 30 / Shure SM-57 impulse response with its device chain. Records that already exist are reused.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rc.Catalog()
			if err != nil {
				return err
			}
			ctx := rc.WithRunID(cmd.Context())
			if err := Seed(ctx, cat, cmd.OutOrStdout()); err != nil {
				return err
			}
			rc.Log.WithContext(ctx).Info("catalog seeded")
			return nil
		},
	}

	return cmd
}

// Seed adds the starter rig to cat. Running it twice leaves one copy.
func Seed(ctx context.Context, cat *catalog.Catalog, out io.Writer) error {
	celestion, err := manufacturer(ctx, cat, "Celestion")
	if err != nil {
		return err
	}
	shure, err := manufacturer(ctx, cat, "Shure")
	if err != nil {
		return err
	}

	const irPath = "/data/irs/celestion_v30_sm57.wav"
	if existing, err := cat.FindToneFileByPath(ctx, irPath); err == nil {
		_, _ = fmt.Fprintf(out, "Already seeded: %s\n", existing)
		return nil
	} else if !errors.Is(err, catalog.ErrRecordNotFound) {
		return err
	}

	vintage30, err := cat.CreateDevice(ctx, catalog.KindSpeaker, "Vintage 30", &celestion.ID)
	if err != nil {
		return err
	}
	sm57, err := cat.CreateDevice(ctx, catalog.KindMicrophone, "SM-57", &shure.ID)
	if err != nil {
		return err
	}

	ir, err := cat.CreateToneFile(ctx, catalog.KindIR, irPath, "celestion_v30_sm57.wav",
		"A classic combination for rock and metal tones.")
	if err != nil {
		return err
	}

	chain := []struct {
		device catalog.Device
		role   string
	}{
		{vintage30, "Speaker"},
		{sm57, "Microphone"},
	}
	for i, link := range chain {
		if _, err := cat.Link(ctx, ir.Base().ID, link.device.Base().ID, link.role, i+1); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Database seeded successfully!")
	return nil
}

// manufacturer returns the manufacturer called name, creating it if needed.
func manufacturer(ctx context.Context, cat *catalog.Catalog, name string) (*catalog.Manufacturer, error) {
	m, err := cat.FindManufacturerByName(ctx, name)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, catalog.ErrRecordNotFound) {
		return nil, err
	}

	return cat.CreateManufacturer(ctx, name)
}
