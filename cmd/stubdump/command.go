// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gate.computer/stubcode"
	"gate.computer/stubcode/class"
	"gate.computer/stubcode/config"
	"gate.computer/stubcode/object/debug/dump"
	"gate.computer/stubcode/object/stack"
	"gate.computer/stubcode/stub"
)

type globalParams struct {
	configPath  string
	arch        string
	precompiled bool
	verbose     bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	var params globalParams

	root := &cobra.Command{
		Use:          "stubdump",
		Short:        "Generate the shared stubs and inspect them",
		SilenceUsage: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&params.configPath, "config", "c", "", "TOML configuration file")
	flags.StringVar(&params.arch, "arch", "", "target architecture (default: host)")
	flags.BoolVar(&params.precompiled, "precompiled", false, "disable run-time stub generation")
	flags.BoolVarP(&params.verbose, "verbose", "v", false, "log every generated stub")

	root.AddCommand(
		listCommand(&params),
		disasmCommand(&params),
		nameCommand(&params),
		allocCommand(&params),
	)

	return root
}

// open the stub table.  Initialization failure is fatal.
func open(params *globalParams) (*stubcode.StubCode, *zap.Logger, error) {
	cfg := config.Default()
	if params.configPath != "" {
		var err error
		if cfg, err = config.Load(params.configPath); err != nil {
			return nil, nil, err
		}
	}
	if params.arch != "" {
		cfg.Arch = params.arch
	}
	if params.precompiled {
		cfg.Precompiled = true
	}

	logConfig := zap.NewDevelopmentConfig()
	if !params.verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return nil, nil, err
	}

	s, err := stubcode.New(cfg, stubcode.WithLogger(logger))
	if err != nil {
		return nil, logger, err
	}

	if err := s.Init(); err != nil {
		logger.Fatal("stub code initialization failed", zap.Error(err))
	}

	if err := s.MegamorphicCacheTable().InitMissHandler(); err != nil {
		s.Cleanup()
		return nil, logger, err
	}
	if _, err := s.GetBuildMethodExtractorStub(nil); err != nil {
		s.Cleanup()
		return nil, logger, err
	}

	return s, logger, nil
}

func listCommand(params *globalParams) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the shared stub table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, logger, err := open(params)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer s.Cleanup()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Stub", "Entry", "Size", "Pool"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)

			var total uint64
			for _, k := range stub.Kinds() {
				c := s.Entry(k)
				if c == nil {
					table.Append([]string{strconv.Itoa(int(k)), k.String(), "-", "-", "-"})
					continue
				}

				total += uint64(c.Size())
				table.Append([]string{
					strconv.Itoa(int(k)),
					c.Name(),
					fmt.Sprintf("%#x", c.EntryPoint()),
					humanize.IBytes(uint64(c.Size())),
					strconv.Itoa(c.Pool().Len()),
				})
			}

			table.SetFooter([]string{"", s.Arch().String(), "", humanize.IBytes(total), ""})
			table.Render()
			return nil
		},
	}
}

func disasmCommand(params *globalParams) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <stub>...",
		Short: "Disassemble shared stubs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}

			s, logger, err := open(params)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer s.Cleanup()

			for _, k := range kinds {
				c := s.Entry(k)
				if c == nil {
					return errors.Errorf("%v is not available on %v", k, s.Arch())
				}
				if err := dump.Code(cmd.OutOrStdout(), c, s.Arch()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func nameCommand(params *globalParams) *cobra.Command {
	return &cobra.Command{
		Use:   "name <stub+offset>...",
		Short: "Symbolicate addresses within the stub table",
		Long: "Symbolicate addresses within the stub table.  Since the table is mapped\n" +
			"anew by each invocation, addresses are given relative to a stub.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, logger, err := open(params)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer s.Cleanup()

			var pcs []uintptr
			for _, arg := range args {
				pc, err := resolve(s, arg)
				if err != nil {
					return err
				}
				pcs = append(pcs, pc)
			}

			w := cmd.OutOrStdout()
			for _, f := range stack.Classify(pcs, s) {
				name := f.Stub
				if name == "" {
					name = "?"
				}
				fmt.Fprintf(w, "%#x\t%s\t%s\n", f.RetAddr, name, f.Kind)
			}
			return nil
		},
	}
}

func allocCommand(params *globalParams) *cobra.Command {
	var (
		classID  uint32
		typeArgs int
	)

	cmd := &cobra.Command{
		Use:   "alloc <class> <instance-size>",
		Short: "Generate and disassemble a class allocation stub",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := humanize.ParseBytes(args[1])
			if err != nil {
				return err
			}

			s, logger, err := open(params)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer s.Cleanup()

			cls := class.New(class.ID(classID), args[0], int(size), typeArgs)
			cls.Finalize()

			c, err := s.GetAllocationStubForClass(cls)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s at %#x\n", c.Name(), humanize.IBytes(uint64(c.Size())), c.EntryPoint())
			return dump.Code(cmd.OutOrStdout(), c, s.Arch())
		},
	}

	cmd.Flags().Uint32Var(&classID, "class-id", 1000, "class id")
	cmd.Flags().IntVar(&typeArgs, "type-args", 0, "number of type arguments")
	return cmd
}

func parseKinds(names []string) ([]stub.Kind, error) {
	kinds := make([]stub.Kind, 0, len(names))
	for _, name := range names {
		k, ok := stub.Parse(name)
		if !ok {
			return nil, errors.Errorf("unknown stub: %s", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// resolve "Name+offset" or "Name" into an address.
func resolve(s *stubcode.StubCode, arg string) (uintptr, error) {
	name, offsetStr, _ := strings.Cut(arg, "+")

	var offset uint64
	if offsetStr != "" {
		var err error
		if offset, err = strconv.ParseUint(offsetStr, 0, 32); err != nil {
			return 0, errors.Wrap(err, arg)
		}
	}

	k, ok := stub.Parse(name)
	if !ok {
		return 0, errors.Errorf("unknown stub: %s", name)
	}

	c := s.Entry(k)
	if c == nil {
		return 0, errors.Errorf("%v is not available on %v", k, s.Arch())
	}
	return c.EntryPoint() + uintptr(offset), nil
}
