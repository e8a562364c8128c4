// Package catalog provides the catalog command and its subcommands for
// editing manufacturers, devices, tone files and device chains.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/runtime"
)

// runFunc is the body of a subcommand once the catalog is open.
type runFunc func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error

// Command creates and returns the catalog command
func Command(rc *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Edit the device and tone file catalog",
	}

	var manufacturer string
	addDevice := subcommand(rc, "add-device KIND NAME", "Add a speaker, microphone, amplifier or pedal", 2,
		func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
			return addDeviceCmd(ctx, cat, out, args[0], args[1], manufacturer)
		})
	addDevice.Flags().StringVarP(&manufacturer, "manufacturer", "m", "", "Manufacturer name, created if missing")

	var filename, notes string
	addToneFile := subcommand(rc, "add-tone-file KIND PATH", "Add an ir or nam capture", 2,
		func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
			kind, err := catalog.ParseToneFileKind(args[0])
			if err != nil {
				return err
			}
			tf, err := cat.CreateToneFile(ctx, kind, args[1], filename, notes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Added %s with id %d\n", tf, tf.Base().ID)
			return err
		})
	addToneFile.Flags().StringVar(&filename, "filename", "", "Display filename, defaults to the last path element")
	addToneFile.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	var role string
	var order int
	link := subcommand(rc, "link TONE_FILE_ID DEVICE_ID", "Add a device to a tone file's chain", 2,
		func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			l, err := cat.Link(ctx, ids[0], ids[1], role, order)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Linked device %d to tone file %d at order %d (link %d)\n", l.DeviceID, l.ToneFileID, l.Order, l.ID)
			return err
		})
	link.Flags().StringVar(&role, "role", "", "Role of the device in the chain")
	link.Flags().IntVar(&order, "order", 0, "Position in the chain, ascending")

	cmd.AddCommand(
		subcommand(rc, "add-manufacturer NAME", "Add a manufacturer", 1,
			func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
				m, err := cat.CreateManufacturer(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Added %s with id %d\n", m, m.ID)
				return err
			}),
		addDevice,
		addToneFile,
		link,
		subcommand(rc, "unlink LINK_ID", "Remove one link from a chain", 1,
			func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				if err := cat.Unlink(ctx, ids[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Removed link %d\n", ids[0])
				return err
			}),
		subcommand(rc, "show TONE_FILE_ID", "Show a tone file and its device chain", 1, showCmd),
		subcommand(rc, "rename-device DEVICE_ID NAME", "Rename a device", 2,
			func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
				ids, err := parseIDs(args[:1])
				if err != nil {
					return err
				}
				d, err := cat.RenameDevice(ctx, ids[0], args[1])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Renamed to %s\n", d)
				return err
			}),
		subcommand(rc, "set-notes TONE_FILE_ID NOTES", "Replace the notes of a tone file", 2,
			func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
				ids, err := parseIDs(args[:1])
				if err != nil {
					return err
				}
				return cat.UpdateNotes(ctx, ids[0], args[1])
			}),
		subcommand(rc, "delete-device DEVICE_ID", "Delete a device that no chain references", 1,
			func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				if err := cat.DeleteDevice(ctx, ids[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Deleted device %d\n", ids[0])
				return err
			}),
		subcommand(rc, "delete-tone-file TONE_FILE_ID", "Delete a tone file and its chain", 1,
			func(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				if err := cat.DeleteToneFile(ctx, ids[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Deleted tone file %d\n", ids[0])
				return err
			}),
	)

	return cmd
}

// subcommand wraps run with catalog opening and argument checks.
func subcommand(rc *runtime.Context, use, short string, nargs int, run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rc.Catalog()
			if err != nil {
				return err
			}
			return run(rc.WithRunID(cmd.Context()), cat, cmd.OutOrStdout(), args)
		},
	}
}

func addDeviceCmd(ctx context.Context, cat *catalog.Catalog, out io.Writer, kindName, name, manufacturer string) error {
	kind, err := catalog.ParseDeviceKind(kindName)
	if err != nil {
		return err
	}

	var manufacturerID *uint
	if manufacturer != "" {
		m, err := cat.FindManufacturerByName(ctx, manufacturer)
		if errors.Is(err, catalog.ErrRecordNotFound) {
			m, err = cat.CreateManufacturer(ctx, manufacturer)
		}
		if err != nil {
			return err
		}
		manufacturerID = &m.ID
	}

	d, err := cat.CreateDevice(ctx, kind, name, manufacturerID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Added %s with id %d\n", d, d.Base().ID)
	return err
}

func showCmd(ctx context.Context, cat *catalog.Catalog, out io.Writer, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	tf, err := cat.FindToneFile(ctx, ids[0])
	if err != nil {
		return err
	}

	base := tf.Base()
	_, _ = fmt.Fprintln(out, tf)
	_, _ = fmt.Fprintf(out, "  Path: %s\n", base.Path)
	_, _ = fmt.Fprintf(out, "  Notes: %s\n", base.Notes)
	_, _ = fmt.Fprintf(out, "  Updated: %s\n", base.UpdatedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintln(out, "  Chain:")
	for _, entry := range base.Chain {
		_, _ = fmt.Fprintf(out, "    %d. %s", entry.Order, entry.Device)
		if entry.Role != "" {
			_, _ = fmt.Fprintf(out, " [%s]", entry.Role)
		}
		_, _ = fmt.Fprintf(out, " (link %d)\n", entry.LinkID)
	}
	return nil
}

// parseIDs parses positive decimal ids.
func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, len(args))
	for i, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 0)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids[i] = uint(id)
	}
	return ids, nil
}
